package host

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalReadFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proc"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proc", "interrupts"), []byte("contents\n"), 0644))

	h := NewLocalAt(root)
	contents, err := h.ReadFile("/proc/interrupts")
	require.NoError(t, err)
	assert.Equal(t, "contents\n", contents)

	_, err = h.ReadFile("/proc/missing")
	assert.Error(t, err)
}

func TestLocalListDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "sys", "class", "net", "eth0", "device", "msi_irqs")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range []string{"34", "35", "36"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	h := NewLocalAt(root)
	names, err := h.ListDir("/sys/class/net/eth0/device/msi_irqs")
	require.NoError(t, err)
	assert.Equal(t, []string{"34", "35", "36"}, names)

	_, err = h.ListDir("/sys/class/net/eth1/device/msi_irqs")
	assert.Error(t, err)
}

func TestLocalExists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proc", "irq", "34"), 0755))

	h := NewLocalAt(root)
	assert.True(t, h.Exists("/proc/irq/34"))
	assert.False(t, h.Exists("/proc/irq/35"))
}

func TestLocalWriteFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "proc", "irq", "34", "smp_affinity")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("ffffffff\n"), 0644))

	h := NewLocalAt(root)
	require.NoError(t, h.WriteFile("/proc/irq/34/smp_affinity", "4"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4", string(data))

	// control files are never created
	err = h.WriteFile("/proc/irq/35/smp_affinity", "4")
	assert.Error(t, err)
}
