/*
Package irq implements interrupt-to-CPU-core affinity binding for network
interfaces and InfiniBand devices: IRQ discovery, kernel bitmask encoding,
round-robin assignment of IRQs to cores, and inspection of the per-IRQ
affinity control files.
*/
package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
)

// well-known host paths
const (
	interruptsPath   = "/proc/interrupts"
	irqRootPath      = "/proc/irq"
	cpuRootPath      = "/sys/devices/system/cpu"
	onlineCPUsPath   = "/sys/devices/system/cpu/online"
	infinibandRoot   = "/sys/class/infiniband"
	netDeviceRoot    = "/sys/class/net"
	msiIRQsDirName   = "msi_irqs"
	smpAffinityName  = "smp_affinity"
	affinityHintName = "affinity_hint"
)

// ErrNoIRQs indicates that none of the discovery sources produced IRQs for the
// requested device.
var ErrNoIRQs = errors.New("no IRQs found")

func irqFilePath(irq int, fileName string) string {
	return fmt.Sprintf("%s/%d/%s", irqRootPath, irq, fileName)
}
