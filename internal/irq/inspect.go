package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strings"

	"irqtune/internal/host"
)

// IRQAffinity is the current affinity state of one IRQ as read from its
// control files.
type IRQAffinity struct {
	IRQ       int
	Affinity  string // smp_affinity mask, empty if the file is absent
	Hint      string // affinity_hint mask, empty if the file is absent
	HintUnset bool   // hint is absent or holds no meaningful binding
}

// InspectIRQs reads the affinity mask and affinity hint for each of the given
// IRQs. Missing control files yield empty fields rather than errors, an IRQ
// may legitimately expose neither.
func InspectIRQs(h host.Host, irqs []int) ([]IRQAffinity, error) {
	affinities := make([]IRQAffinity, 0, len(irqs))
	for _, irqNum := range irqs {
		affinity := IRQAffinity{IRQ: irqNum}
		if contents, err := h.ReadFile(irqFilePath(irqNum, smpAffinityName)); err == nil {
			affinity.Affinity = trimNewline(contents)
		}
		if contents, err := h.ReadFile(irqFilePath(irqNum, affinityHintName)); err == nil {
			affinity.Hint = trimNewline(contents)
		}
		affinity.HintUnset = HintIsUnset(affinity.Hint)
		affinities = append(affinities, affinity)
	}
	return affinities, nil
}

// HintIsUnset reports whether an affinity hint mask carries no meaningful
// binding. The kernel reports an unset hint as either all zeros or all ones,
// masks are compared with comma separators stripped.
func HintIsUnset(hint string) bool {
	digits := strings.ReplaceAll(trimNewline(hint), ",", "")
	if digits == "" {
		return true
	}
	allZero := true
	allOnes := true
	for _, r := range digits {
		if r != '0' {
			allZero = false
		}
		if r != 'f' && r != 'F' {
			allOnes = false
		}
	}
	return allZero || allOnes
}
