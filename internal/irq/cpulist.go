package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"irqtune/internal/host"
	"irqtune/internal/util"
)

// ParseCPUList expands a comma-separated list of CPU cores and inclusive core
// ranges, e.g., "0-3" or "0,2,5-6", into the ordered list of core numbers.
// Order and duplicates are preserved, cores are not deduplicated or sorted.
func ParseCPUList(cpuList string) ([]int, error) {
	cores, err := util.SelectiveIntRangeToIntList(cpuList)
	if err != nil {
		return nil, fmt.Errorf("invalid cpu list %q: %w", cpuList, err)
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("cpu list %q expands to no cores", cpuList)
	}
	return cores, nil
}

// CPUCount returns the host's total logical CPU count, i.e., the number of
// cpuN entries under /sys/devices/system/cpu, online or not.
func CPUCount(h host.Host) (int, error) {
	entries, err := h.ListDir(cpuRootPath)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, name := range entries {
		if isCPUEntry(name) {
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("no cpu entries found under %s", cpuRootPath)
	}
	return count, nil
}

// OnlineCPUs returns the set of core numbers the host currently reports as
// online.
func OnlineCPUs(h host.Host) (mapset.Set[int], error) {
	contents, err := h.ReadFile(onlineCPUsPath)
	if err != nil {
		return nil, err
	}
	cores, err := util.SelectiveIntRangeToIntList(trimNewline(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse online cpu list: %w", err)
	}
	return mapset.NewThreadUnsafeSet(cores...), nil
}

func isCPUEntry(name string) bool {
	if len(name) < 4 || name[:3] != "cpu" {
		return false
	}
	for _, c := range name[3:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}
