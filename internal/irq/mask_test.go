package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"
)

func TestCoreMask(t *testing.T) {
	tests := []struct {
		core int
		want string
	}{
		{0, "1"},
		{1, "2"},
		{4, "10"},
		{7, "80"},
		{31, "80000000"},
		{32, "1,00000000"},
		{33, "2,00000000"},
		{63, "80000000,00000000"},
		{64, "1,00000000,00000000"},
		{100, "10,00000000,00000000,00000000"},
	}
	for _, tt := range tests {
		if got := CoreMask(tt.core); got != tt.want {
			t.Errorf("CoreMask(%d) = %q, want %q", tt.core, got, tt.want)
		}
	}
}

func TestMaskCoreRoundTrip(t *testing.T) {
	for core := 0; core <= 130; core++ {
		mask := CoreMask(core)
		got, err := MaskCore(mask)
		if err != nil {
			t.Fatalf("MaskCore(%q): %v", mask, err)
		}
		if got != core {
			t.Errorf("MaskCore(CoreMask(%d)) = %d", core, got)
		}
	}
}

func TestMaskCoreInvalid(t *testing.T) {
	tests := []string{
		"",           // empty
		"zz",         // not hex
		"0",          // no bits set
		"3",          // two bits set
		"1,00000001", // two bits set across groups
		"0,00000000", // no bits set, grouped
	}
	for _, mask := range tests {
		if _, err := MaskCore(mask); err == nil {
			t.Errorf("MaskCore(%q) did not fail", mask)
		}
	}
}

func TestMaskCoreAcceptsFileContents(t *testing.T) {
	// masks read from smp_affinity files carry a trailing newline
	core, err := MaskCore("2,00000000\n")
	if err != nil {
		t.Fatal(err)
	}
	if core != 33 {
		t.Errorf("got core %d, want 33", core)
	}
}
