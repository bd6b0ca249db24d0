package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"irqtune/internal/host"
)

// Assignment records the outcome of binding one IRQ to one core.
type Assignment struct {
	IRQ     int
	Core    int
	Mask    string
	Written bool  // mask was written to the IRQ's control file
	Err     error // core validation or write failure, assignment was skipped
}

// Binder assigns IRQs to CPU cores round-robin and writes the resulting
// affinity masks to the per-IRQ control files on the host.
type Binder struct {
	Host   host.Host
	Out    io.Writer // diagnostic line per IRQ processed
	DryRun bool      // compute and report assignments without writing
}

// Bind assigns each IRQ, in order, the next core from the given core list,
// cycling back to the first core after the last. Each valid assignment is
// written to the IRQ's smp_affinity file. A requested core at or beyond the
// host's logical CPU count must be online, otherwise that IRQ is reported and
// skipped while the remaining IRQs are still processed. IRQs without an
// affinity control file are skipped silently. Write failures are reported
// per IRQ and do not abort the run.
func (b *Binder) Bind(irqs []int, cores []int) ([]Assignment, error) {
	if len(irqs) == 0 {
		return nil, fmt.Errorf("no IRQs to bind")
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("no cores to bind IRQs to")
	}
	cpuCount, err := CPUCount(b.Host)
	if err != nil {
		return nil, err
	}
	var online mapset.Set[int] // loaded on first use
	assignments := make([]Assignment, 0, len(irqs))
	cursor := 0
	for _, irqNum := range irqs {
		core := cores[cursor]
		cursor = (cursor + 1) % len(cores)
		assignment := Assignment{IRQ: irqNum, Core: core}
		if core >= cpuCount {
			if online == nil {
				online, err = OnlineCPUs(b.Host)
				if err != nil {
					return assignments, err
				}
			}
			if !online.Contains(core) {
				assignment.Err = fmt.Errorf("core %d does not exist", core)
				fmt.Fprintf(b.Out, "irq %d: Error - core %d does not exist\n", irqNum, core)
				assignments = append(assignments, assignment)
				continue
			}
		}
		assignment.Mask = CoreMask(core)
		fmt.Fprintf(b.Out, "Assign irq %d core_id %d\n", irqNum, core)
		if !b.DryRun {
			affinityPath := irqFilePath(irqNum, smpAffinityName)
			if !b.Host.Exists(affinityPath) {
				// IRQ not exposed for affinity control on this kernel
				slog.Debug("no affinity control file for IRQ, skipping", slog.Int("irq", irqNum))
			} else if err := b.Host.WriteFile(affinityPath, assignment.Mask); err != nil {
				assignment.Err = err
				fmt.Fprintf(b.Out, "irq %d: Error - %v\n", irqNum, err)
				assignments = append(assignments, assignment)
				continue
			} else {
				assignment.Written = true
			}
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}
