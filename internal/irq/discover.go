package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"strconv"

	"irqtune/internal/host"
)

// DiscoverIRQs finds the IRQ numbers owned by the named network interface or
// InfiniBand device. Sources are tried in order, the first that produces IRQs
// wins and the others are ignored:
//
//  1. the device's InfiniBand MSI IRQ directory
//  2. interrupt table rows naming the interface
//  3. the device's network MSI IRQ directory
//
// IRQs are returned in the order they are enumerated by the matching source.
// ErrNoIRQs is returned when no source produces any.
func DiscoverIRQs(h host.Host, device string) ([]int, error) {
	ibDir := fmt.Sprintf("%s/%s/device/%s", infinibandRoot, device, msiIRQsDirName)
	if h.Exists(ibDir) {
		irqs, err := listIRQDir(h, ibDir)
		if err != nil {
			return nil, err
		}
		if len(irqs) > 0 {
			slog.Debug("discovered IRQs from InfiniBand MSI directory", slog.String("device", device), slog.Int("count", len(irqs)))
			return irqs, nil
		}
	}
	table, err := h.ReadFile(interruptsPath)
	if err != nil {
		return nil, err
	}
	if irqs := matchInterruptIRQs(table, device); len(irqs) > 0 {
		slog.Debug("discovered IRQs from interrupt table", slog.String("device", device), slog.Int("count", len(irqs)))
		return irqs, nil
	}
	netDir := fmt.Sprintf("%s/%s/device/%s", netDeviceRoot, device, msiIRQsDirName)
	if h.Exists(netDir) {
		irqs, err := listIRQDir(h, netDir)
		if err != nil {
			return nil, err
		}
		if len(irqs) > 0 {
			slog.Debug("discovered IRQs from network MSI directory", slog.String("device", device), slog.Int("count", len(irqs)))
			return irqs, nil
		}
	}
	if !h.Exists(fmt.Sprintf("%s/%s", netDeviceRoot, device)) && !h.Exists(fmt.Sprintf("%s/%s", infinibandRoot, device)) {
		return nil, fmt.Errorf("interface or device %s does not exist: %w", device, ErrNoIRQs)
	}
	return nil, fmt.Errorf("interface or device %s: %w", device, ErrNoIRQs)
}

// listIRQDir enumerates the numerically named entries of an MSI IRQ directory
// in directory listing order.
func listIRQDir(h host.Host, dir string) ([]int, error) {
	names, err := h.ListDir(dir)
	if err != nil {
		return nil, err
	}
	var irqs []int
	for _, name := range names {
		num, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		irqs = append(irqs, num)
	}
	return irqs, nil
}
