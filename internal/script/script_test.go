package script

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"testing"

	"irqtune/internal/target"
)

func TestRunScript(t *testing.T) {
	tgt := target.NewLocalTarget()
	targetTempDir, err := tgt.CreateTempDirectory("/tmp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		err := tgt.RemoveDirectory(targetTempDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}()

	// one line script
	scriptDef1 := ScriptDefinition{
		Name:   "unittest hello",
		Script: "echo 'Hello, World!'",
	}
	tempDir, err := os.MkdirTemp(os.TempDir(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.RemoveAll(tempDir)
	scriptOutput, err := RunScript(tgt, scriptDef1, tempDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scriptOutput.Stdout != "Hello, World!\n" {
		t.Errorf("unexpected stdout: got %q", scriptOutput.Stdout)
	}
	if scriptOutput.Stderr != "" {
		t.Errorf("unexpected stderr: got %q", scriptOutput.Stderr)
	}
	if scriptOutput.Exitcode != 0 {
		t.Errorf("unexpected exit code: got %d", scriptOutput.Exitcode)
	}

	// multi-line script
	scriptDef2 := ScriptDefinition{
		Name: "unittest multiline",
		Script: `greeting="Hello"
echo "$greeting, again"`,
	}
	scriptOutput, err = RunScript(tgt, scriptDef2, tempDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scriptOutput.Stdout != "Hello, again\n" {
		t.Errorf("unexpected stdout: got %q", scriptOutput.Stdout)
	}
}

func TestRunScriptsMissingDependency(t *testing.T) {
	tgt := target.NewLocalTarget()
	_, err := tgt.CreateTempDirectory("/tmp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		_ = tgt.RemoveTempDirectory()
	}()
	tempDir, err := os.MkdirTemp(os.TempDir(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.RemoveAll(tempDir)
	scriptDef := ScriptDefinition{
		Name:    "unittest missing dep",
		Script:  "echo 'should not run'",
		Depends: []string{"no-such-binary-xyzzy"},
	}
	outputs, err := RunScripts(tgt, []ScriptDefinition{scriptDef}, true, tempDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := outputs[scriptDef.Name]
	if output.Exitcode != 127 {
		t.Errorf("unexpected exit code: got %d, want 127", output.Exitcode)
	}
	if output.Stdout != "" {
		t.Errorf("script body ran despite missing dependency: %q", output.Stdout)
	}
}

func TestGetScriptByName(t *testing.T) {
	script := GetScriptByName(InterruptsScriptName)
	if script.Name != InterruptsScriptName {
		t.Errorf("unexpected script name: %s", script.Name)
	}
	if script.Script == "" {
		t.Error("script body is empty")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown script name")
		}
	}()
	GetScriptByName("no such script")
}
