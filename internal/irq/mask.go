package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"math/big"
	"strings"
)

// CoreMask returns the affinity bitmask that selects the single given CPU core,
// in the format the kernel's per-IRQ smp_affinity files expect: lowercase hex,
// most-significant digits first, with a comma inserted after every 8 hex digits
// counting from the least-significant digit. Core counts beyond 64 are
// supported, the mask grows as wide as needed.
//
// Examples: core 0 -> "1", core 33 -> "2,00000000",
// core 64 -> "1,00000000,00000000".
func CoreMask(core int) string {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(core)) // #nosec G115
	return groupMask(mask.Text(16))
}

// groupMask inserts a comma after every 8 hex digits, aligned to the
// least-significant digit. The leading group may be shorter than 8 digits.
func groupMask(hex string) string {
	if len(hex) <= 8 {
		return hex
	}
	var groups []string
	for len(hex) > 8 {
		groups = append([]string{hex[len(hex)-8:]}, groups...)
		hex = hex[:len(hex)-8]
	}
	groups = append([]string{hex}, groups...)
	return strings.Join(groups, ",")
}

// MaskCore parses a single-core affinity mask, as produced by CoreMask or read
// from a smp_affinity file, and returns the core number of its one set bit. An
// error is returned if the mask is not valid hex or has other than exactly one
// bit set.
func MaskCore(mask string) (int, error) {
	hex := strings.ReplaceAll(strings.TrimSpace(mask), ",", "")
	value, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return 0, fmt.Errorf("invalid affinity mask: %s", mask)
	}
	if value.BitLen() == 0 {
		return 0, fmt.Errorf("affinity mask has no bits set: %s", mask)
	}
	// exactly one bit set: v & (v-1) == 0
	lower := new(big.Int).Sub(value, big.NewInt(1))
	if new(big.Int).And(value, lower).BitLen() != 0 {
		return 0, fmt.Errorf("affinity mask has more than one bit set: %s", mask)
	}
	return value.BitLen() - 1, nil
}
