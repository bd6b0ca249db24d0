package bind

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"slices"
	"testing"
)

func TestParseIRQArgs(t *testing.T) {
	tests := []struct {
		args     []string
		expected []int
		wantErr  bool
	}{
		{[]string{}, nil, false}, // discovery case, no override
		{[]string{"34", "35", "36"}, []int{34, 35, 36}, false},
		{[]string{"34-37"}, []int{34, 35, 36, 37}, false},
		{[]string{"34,36", "40-41"}, []int{34, 36, 40, 41}, false},
		{[]string{"36", "34", "35"}, []int{36, 34, 35}, false}, // order preserved
		{[]string{"34", "x"}, nil, true},
		{[]string{"34-"}, nil, true},
		{[]string{""}, nil, true},
	}
	for _, test := range tests {
		result, err := parseIRQArgs(test.args)
		if test.wantErr {
			if err == nil {
				t.Errorf("expected error for args %v, got none", test.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for args %v: %v", test.args, err)
			continue
		}
		if !slices.Equal(result, test.expected) {
			t.Errorf("expected %v, got %v for args %v", test.expected, result, test.args)
		}
	}
}

func TestArgsAcceptSpaceSeparatedIRQList(t *testing.T) {
	if err := Cmd.Args(Cmd, []string{"0-3", "eth0", "34", "35", "36"}); err != nil {
		t.Errorf("five arguments rejected: %v", err)
	}
	if err := Cmd.Args(Cmd, []string{"0-3"}); err == nil {
		t.Errorf("expected error with missing interface argument")
	}
}
