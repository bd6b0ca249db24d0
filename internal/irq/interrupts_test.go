package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interruptsTable = `           CPU0       CPU1
  0:         36          0   IO-APIC    2-edge      timer
  9:          0          0   IO-APIC    9-fasteoi   acpi
 34:     183047          0  PCI-MSI 1048576-edge   eth0-rx-0
 35:          0     171202  PCI-MSI 1048577-edge   eth0-tx-0
 36:         12          7  PCI-MSI 1048578-edge   eth0
 40:        100        200  PCI-MSI 2097152-edge   eth01-rx-0
NMI:          4          5   Non-maskable interrupts
LOC:    1487257    1478604   Local timer interrupts
`

func TestParseInterrupts(t *testing.T) {
	interrupts := ParseInterrupts(interruptsTable)
	require.Len(t, interrupts, 8)

	assert.Equal(t, "0", interrupts[0].Source)
	assert.Equal(t, 0, interrupts[0].IRQ)
	assert.Equal(t, []uint64{36, 0}, interrupts[0].Counts)
	assert.Equal(t, "IO-APIC 2-edge timer", interrupts[0].Description)

	assert.Equal(t, 34, interrupts[2].IRQ)
	assert.Equal(t, uint64(183047), interrupts[2].Total())
	assert.Equal(t, "PCI-MSI 1048576-edge eth0-rx-0", interrupts[2].Description)

	// system counter rows carry no numeric IRQ
	assert.Equal(t, "NMI", interrupts[6].Source)
	assert.Equal(t, -1, interrupts[6].IRQ)
	assert.Equal(t, uint64(9), interrupts[6].Total())
}

func TestMatchInterruptIRQs(t *testing.T) {
	tests := []struct {
		name string
		want []int
	}{
		{"eth0", []int{34, 35, 36}}, // matches eth0-rx-0 and bare eth0, not eth01
		{"eth01", []int{40}},
		{"eth2", nil},
		{"timer", []int{0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchInterruptIRQs(interruptsTable, tt.name), "name %q", tt.name)
	}
}
