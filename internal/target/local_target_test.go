package target

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalTargetRunCommand(t *testing.T) {
	myTarget := NewLocalTarget()
	cmd := exec.Command("echo", "hello")
	stdout, stderr, exitCode, err := myTarget.RunCommand(cmd, 0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout) != "hello" {
		t.Errorf("expected 'hello', got %q", stdout)
	}
	if stderr != "" {
		t.Errorf("expected empty stderr, got %q", stderr)
	}
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
}

func TestLocalTargetRunCommandNonZeroExit(t *testing.T) {
	myTarget := NewLocalTarget()
	cmd := exec.Command("false")
	_, _, exitCode, err := myTarget.RunCommand(cmd, 0, true)
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestLocalTargetTempDirectory(t *testing.T) {
	myTarget := NewLocalTarget()
	tempDir, err := myTarget.CreateTempDirectory(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tempDir == "" {
		t.Fatal("expected non-empty temp dir")
	}
	if myTarget.GetTempDirectory() != tempDir {
		t.Errorf("expected %q, got %q", tempDir, myTarget.GetTempDirectory())
	}
	// a second call returns the same directory
	tempDir2, err := myTarget.CreateTempDirectory(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tempDir2 != tempDir {
		t.Errorf("expected %q, got %q", tempDir, tempDir2)
	}
	if err := myTarget.RemoveTempDirectory(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if myTarget.GetTempDirectory() != "" {
		t.Error("expected empty temp dir after removal")
	}
}

func TestLocalTargetPushFile(t *testing.T) {
	myTarget := NewLocalTarget()
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "afile")
	if err := os.WriteFile(srcPath, []byte("contents"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := myTarget.PushFile(srcPath, dstDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dstDir, "afile"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "contents" {
		t.Errorf("expected 'contents', got %q", string(data))
	}
}

func TestLocalTargetGetName(t *testing.T) {
	myTarget := NewLocalTarget()
	if myTarget.GetName() == "" {
		t.Error("expected non-empty target name")
	}
}
