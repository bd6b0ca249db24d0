package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"irqtune/internal/report"
)

func TestSanitizeTargetName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"host-1", "host-1"},
		{"host.example.com", "host.example.com"},
		{"host name", "host_name"},
		{"host/name:0", "host_name_0"},
	}
	for _, tt := range tests {
		if got := sanitizeTargetName(tt.input); got != tt.want {
			t.Errorf("sanitizeTargetName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestElevatedPrivilegesRequired(t *testing.T) {
	// the IRQ affinity table reads files that may require root
	if !elevatedPrivilegesRequired([]string{report.IRQAffinityTableName}) {
		t.Error("expected elevated privileges for IRQ affinity table")
	}
	if elevatedPrivilegesRequired([]string{report.HostTableName}) {
		t.Error("did not expect elevated privileges for host table")
	}
}
