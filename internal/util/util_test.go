package util

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"syscall"
	"testing"
)

func TestIsValidHex(t *testing.T) {
	tests := []struct {
		hexStr   string
		expected bool
	}{
		{"0x1a2b3c", true},  // Valid hex with "0x" prefix
		{"0X1A2B3C", true},  // Valid hex with "0X" prefix
		{"1a2b3c", true},    // Valid hex without prefix
		{"1A2B3C", true},    // Valid uppercase hex without prefix
		{"0x", false},       // Invalid hex, only prefix
		{"", false},         // Empty string
		{"0xGHIJKL", false}, // Invalid hex with non-hex characters
		{"GHIJKL", false},   // Invalid hex without prefix
		{"12345", true},     // Valid numeric hex
		{" 12345 ", false},  // Invalid hex with spaces
	}

	for _, test := range tests {
		result := IsValidHex(test.hexStr)
		if result != test.expected {
			t.Errorf("expected %t, got %t for hex string %q", test.expected, result, test.hexStr)
		}
	}
}

func TestIntRangeToIntList(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
		wantErr  bool
	}{
		{"1-3", []int{1, 2, 3}, false},
		{"5", []int{5}, false},
		{"0-0", []int{0}, false},
		{"3-1", nil, true},
		{"", nil, true},
		{"a-b", nil, true},
		{"-1", nil, true},
	}

	for _, test := range tests {
		result, err := IntRangeToIntList(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("expected error for input %q, got none", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for input %q: %v", test.input, err)
			continue
		}
		if !slices.Equal(result, test.expected) {
			t.Errorf("expected %v, got %v for input %q", test.expected, result, test.input)
		}
	}
}

func TestSelectiveIntRangeToIntList(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
		wantErr  bool
	}{
		{"1-3,7,9,11-13", []int{1, 2, 3, 7, 9, 11, 12, 13}, false},
		{"0-3", []int{0, 1, 2, 3}, false},
		{"0,2,5-6", []int{0, 2, 5, 6}, false},
		{"1,1,1", []int{1, 1, 1}, false}, // duplicates preserved
		{"3,1,2", []int{3, 1, 2}, false}, // order preserved
		{"", nil, true},
		{"1-", nil, true},
		{"1,,2", nil, true},
	}

	for _, test := range tests {
		result, err := SelectiveIntRangeToIntList(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("expected error for input %q, got none", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for input %q: %v", test.input, err)
			continue
		}
		if !slices.Equal(result, test.expected) {
			t.Errorf("expected %v, got %v for input %q", test.expected, result, test.input)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "afile")
	if err := os.WriteFile(filePath, []byte("contents"), 0600); err != nil {
		t.Fatal(err)
	}
	exists, err := FileExists(filePath)
	if err != nil || !exists {
		t.Errorf("expected file to exist, exists=%t err=%v", exists, err)
	}
	exists, err = FileExists(filepath.Join(dir, "missing"))
	if err != nil || exists {
		t.Errorf("expected file to not exist, exists=%t err=%v", exists, err)
	}
	// a directory is not a file
	_, err = FileExists(dir)
	if err == nil {
		t.Errorf("expected error for directory path")
	}
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	exists, err := DirectoryExists(dir)
	if err != nil || !exists {
		t.Errorf("expected directory to exist, exists=%t err=%v", exists, err)
	}
	exists, err = DirectoryExists(filepath.Join(dir, "missing"))
	if err != nil || exists {
		t.Errorf("expected directory to not exist, exists=%t err=%v", exists, err)
	}
}

func TestSignalChildren(t *testing.T) {
	child := exec.Command("sleep", "10")
	if err := child.Start(); err != nil {
		t.Fatal(err)
	}
	SignalChildren(syscall.SIGINT)
	if err := child.Wait(); err == nil {
		t.Errorf("expected child to be terminated by the signal")
	}
}

func TestIntSliceToStringSlice(t *testing.T) {
	got := IntSliceToStringSlice([]int{10, 0, 7})
	want := []string{"10", "0", "7"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
