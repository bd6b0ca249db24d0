package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"regexp"
	"strconv"
	"strings"

	"irqtune/internal/host"
)

// Interrupt is one row of the host's live interrupt table, /proc/interrupts.
type Interrupt struct {
	Source      string   // first column, e.g., "34" for device IRQs, "LOC" for system counters
	IRQ         int      // numeric IRQ, -1 for system counter rows
	Counts      []uint64 // per-CPU interrupt counts
	Description string   // chip, trigger type, and device name(s)
}

// Total returns the interrupt count summed over all CPUs.
func (i *Interrupt) Total() uint64 {
	var total uint64
	for _, count := range i.Counts {
		total += count
	}
	return total
}

// ParseInterrupts parses the contents of /proc/interrupts. The header row
// naming the CPUs is skipped. Rows are returned in table order.
func ParseInterrupts(table string) []Interrupt {
	var interrupts []Interrupt
	for line := range strings.SplitSeq(table, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasSuffix(fields[0], ":") {
			continue // header row or blank line
		}
		source := strings.TrimSuffix(fields[0], ":")
		irqNum := -1
		if num, err := strconv.Atoi(source); err == nil {
			irqNum = num
		}
		// consume the per-CPU count columns, the remainder is the description
		var counts []uint64
		idx := 1
		for ; idx < len(fields); idx++ {
			count, err := strconv.ParseUint(fields[idx], 10, 64)
			if err != nil {
				break
			}
			counts = append(counts, count)
		}
		interrupts = append(interrupts, Interrupt{
			Source:      source,
			IRQ:         irqNum,
			Counts:      counts,
			Description: strings.Join(fields[idx:], " "),
		})
	}
	return interrupts
}

// ReadInterrupts reads and parses the host's live interrupt table.
func ReadInterrupts(h host.Host) ([]Interrupt, error) {
	table, err := h.ReadFile(interruptsPath)
	if err != nil {
		return nil, err
	}
	return ParseInterrupts(table), nil
}

// matchInterruptIRQs returns the IRQ numbers of interrupt table rows whose
// description contains the device name as a whole token. The name must not be
// followed or preceded by an alphanumeric character, so "eth0" matches
// "eth0-TxRx-3" but not "eth01".
func matchInterruptIRQs(table string, name string) []int {
	re := regexp.MustCompile(`(^|[^0-9a-zA-Z])` + regexp.QuoteMeta(name) + `([^0-9a-zA-Z]|$)`)
	var irqs []int
	for _, interrupt := range ParseInterrupts(table) {
		if interrupt.IRQ < 0 {
			continue
		}
		if re.MatchString(interrupt.Description) {
			irqs = append(irqs, interrupt.IRQ)
		}
	}
	return irqs
}
