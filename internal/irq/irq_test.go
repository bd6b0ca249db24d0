package irq

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irqtune/internal/host"
)

// fixture builds a /proc and /sys tree under a temp directory and serves it
// through a local host implementation.
type fixture struct {
	t    *testing.T
	root string
	host host.Host
}

func newFixture(t *testing.T) *fixture {
	root := t.TempDir()
	return &fixture{t: t, root: root, host: host.NewLocalAt(root)}
}

func (f *fixture) writeFile(path string, contents string) {
	full := filepath.Join(f.root, path)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(f.t, os.WriteFile(full, []byte(contents), 0644))
}

func (f *fixture) mkdir(path string) {
	require.NoError(f.t, os.MkdirAll(filepath.Join(f.root, path), 0755))
}

func (f *fixture) readFile(path string) string {
	data, err := os.ReadFile(filepath.Join(f.root, path))
	require.NoError(f.t, err)
	return string(data)
}

// addCPUs creates count cpuN sysfs entries and the online core list.
func (f *fixture) addCPUs(count int, online string) {
	for i := range count {
		f.mkdir(fmt.Sprintf("/sys/devices/system/cpu/cpu%d", i))
	}
	// non-cpu entries that live alongside cpuN and must not be counted
	f.mkdir("/sys/devices/system/cpu/cpufreq")
	f.writeFile("/sys/devices/system/cpu/possible", online+"\n")
	f.writeFile("/sys/devices/system/cpu/online", online+"\n")
}

// addIRQ creates an IRQ control directory with the given smp_affinity
// contents.
func (f *fixture) addIRQ(irq int, affinity string) {
	f.writeFile(fmt.Sprintf("/proc/irq/%d/smp_affinity", irq), affinity+"\n")
}

func TestCPUCount(t *testing.T) {
	f := newFixture(t)
	f.addCPUs(4, "0-3")
	count, err := CPUCount(f.host)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestOnlineCPUs(t *testing.T) {
	f := newFixture(t)
	f.addCPUs(8, "0-2,4,6-7")
	online, err := OnlineCPUs(f.host)
	require.NoError(t, err)
	assert.Equal(t, 6, online.Cardinality())
	assert.True(t, online.Contains(4))
	assert.False(t, online.Contains(3))
	assert.False(t, online.Contains(5))
}

func TestParseCPUList(t *testing.T) {
	tests := []struct {
		input string
		want  []int
		err   bool
	}{
		{"0-3", []int{0, 1, 2, 3}, false},
		{"0,2,5-6", []int{0, 2, 5, 6}, false},
		{"7", []int{7}, false},
		{"3,1,1", []int{3, 1, 1}, false}, // order and duplicates preserved
		{"", nil, true},
		{"0-", nil, true},
		{"a-b", nil, true},
		{"5-2", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseCPUList(tt.input)
		if tt.err {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestDiscoverIRQsFromInterruptTable(t *testing.T) {
	f := newFixture(t)
	f.mkdir("/sys/class/net/eth0")
	f.writeFile("/proc/interrupts", interruptsTable)
	irqs, err := DiscoverIRQs(f.host, "eth0")
	require.NoError(t, err)
	assert.Equal(t, []int{34, 35, 36}, irqs)
}

func TestDiscoverIRQsInfinibandPrecedence(t *testing.T) {
	f := newFixture(t)
	// the InfiniBand MSI directory wins over interrupt table matches
	f.mkdir("/sys/class/infiniband/mlx5_0/device/msi_irqs/50")
	f.mkdir("/sys/class/infiniband/mlx5_0/device/msi_irqs/51")
	f.writeFile("/proc/interrupts", " 99:  0  0  PCI-MSI 1-edge  mlx5_0\n")
	irqs, err := DiscoverIRQs(f.host, "mlx5_0")
	require.NoError(t, err)
	assert.Equal(t, []int{50, 51}, irqs)
}

func TestDiscoverIRQsFromNetMSIDirectory(t *testing.T) {
	f := newFixture(t)
	// interface absent from the interrupt table, e.g., a virtio NIC whose
	// rows name the PCI function instead
	f.writeFile("/proc/interrupts", " 27:  0  0  PCI-MSI 65537-edge  virtio0-input.0\n")
	f.mkdir("/sys/class/net/ens4/device/msi_irqs/26")
	f.mkdir("/sys/class/net/ens4/device/msi_irqs/27")
	f.mkdir("/sys/class/net/ens4/device/msi_irqs/28")
	irqs, err := DiscoverIRQs(f.host, "ens4")
	require.NoError(t, err)
	assert.Equal(t, []int{26, 27, 28}, irqs)
}

func TestDiscoverIRQsNoneFound(t *testing.T) {
	f := newFixture(t)
	f.mkdir("/sys/class/net/eth1")
	f.writeFile("/proc/interrupts", interruptsTable)
	_, err := DiscoverIRQs(f.host, "eth1")
	require.ErrorIs(t, err, ErrNoIRQs)
}

func TestDiscoverIRQsUnknownDevice(t *testing.T) {
	f := newFixture(t)
	f.writeFile("/proc/interrupts", interruptsTable)
	_, err := DiscoverIRQs(f.host, "eth9")
	require.ErrorIs(t, err, ErrNoIRQs)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestBindRoundRobin(t *testing.T) {
	f := newFixture(t)
	f.addCPUs(4, "0-3")
	for _, irq := range []int{10, 11, 12, 13} {
		f.addIRQ(irq, "f")
	}
	var out bytes.Buffer
	binder := &Binder{Host: f.host, Out: &out}
	assignments, err := binder.Bind([]int{10, 11, 12, 13}, []int{0, 1})
	require.NoError(t, err)
	require.Len(t, assignments, 4)
	for i, want := range []int{0, 1, 0, 1} {
		assert.Equal(t, want, assignments[i].Core)
		assert.True(t, assignments[i].Written)
		assert.NoError(t, assignments[i].Err)
	}
	assert.Equal(t, "1", f.readFile("/proc/irq/10/smp_affinity"))
	assert.Equal(t, "2", f.readFile("/proc/irq/11/smp_affinity"))
	assert.Equal(t, "1", f.readFile("/proc/irq/12/smp_affinity"))
	assert.Equal(t, "2", f.readFile("/proc/irq/13/smp_affinity"))
	assert.Equal(t,
		"Assign irq 10 core_id 0\nAssign irq 11 core_id 1\nAssign irq 12 core_id 0\nAssign irq 13 core_id 1\n",
		out.String())
}

func TestBindNonexistentCore(t *testing.T) {
	f := newFixture(t)
	f.addCPUs(4, "0-3")
	for _, irq := range []int{10, 11, 12} {
		f.addIRQ(irq, "f")
	}
	var out bytes.Buffer
	binder := &Binder{Host: f.host, Out: &out}
	assignments, err := binder.Bind([]int{10, 11, 12}, []int{0, 9})
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	assert.NoError(t, assignments[0].Err)
	assert.Error(t, assignments[1].Err)
	assert.False(t, assignments[1].Written)
	// the failed assignment consumes its round-robin slot
	assert.Equal(t, 0, assignments[2].Core)
	assert.True(t, assignments[2].Written)
	assert.Equal(t,
		"Assign irq 10 core_id 0\nirq 11: Error - core 9 does not exist\nAssign irq 12 core_id 0\n",
		out.String())
	assert.Equal(t, "f\n", f.readFile("/proc/irq/11/smp_affinity"))
}

func TestBindMissingAffinityFile(t *testing.T) {
	f := newFixture(t)
	f.addCPUs(2, "0-1")
	f.addIRQ(20, "3")
	// IRQ 21 exposes no smp_affinity file
	var out bytes.Buffer
	binder := &Binder{Host: f.host, Out: &out}
	assignments, err := binder.Bind([]int{20, 21}, []int{0, 1})
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.True(t, assignments[0].Written)
	assert.False(t, assignments[1].Written)
	assert.NoError(t, assignments[1].Err)
	assert.Equal(t, "Assign irq 20 core_id 0\nAssign irq 21 core_id 1\n", out.String())
}

func TestBindDryRun(t *testing.T) {
	f := newFixture(t)
	f.addCPUs(2, "0-1")
	f.addIRQ(20, "3")
	var out bytes.Buffer
	binder := &Binder{Host: f.host, Out: &out, DryRun: true}
	assignments, err := binder.Bind([]int{20}, []int{1})
	require.NoError(t, err)
	assert.False(t, assignments[0].Written)
	assert.Equal(t, "2", assignments[0].Mask)
	assert.Equal(t, "3\n", f.readFile("/proc/irq/20/smp_affinity"))
}

func TestBindIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addCPUs(4, "0-3")
	for _, irq := range []int{30, 31} {
		f.addIRQ(irq, "f")
	}
	binder := &Binder{Host: f.host, Out: &bytes.Buffer{}}
	first, err := binder.Bind([]int{30, 31}, []int{2, 3})
	require.NoError(t, err)
	second, err := binder.Bind([]int{30, 31}, []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "4", f.readFile("/proc/irq/30/smp_affinity"))
	assert.Equal(t, "8", f.readFile("/proc/irq/31/smp_affinity"))
}

func TestBindEmptyInputs(t *testing.T) {
	f := newFixture(t)
	binder := &Binder{Host: f.host, Out: &bytes.Buffer{}}
	_, err := binder.Bind(nil, []int{0})
	assert.Error(t, err)
	_, err = binder.Bind([]int{10}, nil)
	assert.Error(t, err)
}

func TestInspectIRQs(t *testing.T) {
	f := newFixture(t)
	f.addIRQ(40, "1")
	f.writeFile("/proc/irq/40/affinity_hint", "2,00000000\n")
	f.addIRQ(41, "2")
	f.writeFile("/proc/irq/41/affinity_hint", "0,00000000\n")
	f.addIRQ(42, "4")
	// IRQ 42 exposes no hint at all

	affinities, err := InspectIRQs(f.host, []int{40, 41, 42})
	require.NoError(t, err)
	require.Len(t, affinities, 3)

	assert.Equal(t, "1", affinities[0].Affinity)
	assert.Equal(t, "2,00000000", affinities[0].Hint)
	assert.False(t, affinities[0].HintUnset)

	assert.True(t, affinities[1].HintUnset)

	assert.Equal(t, "4", affinities[2].Affinity)
	assert.Empty(t, affinities[2].Hint)
	assert.True(t, affinities[2].HintUnset)
}

func TestHintIsUnset(t *testing.T) {
	tests := []struct {
		hint string
		want bool
	}{
		{"", true},
		{"0", true},
		{"00,00000000", true},
		{"f", true},
		{"ff,ffffffff", true},
		{"FF,FFFFFFFF", true},
		{"1", false},
		{"2,00000000", false},
		{"f0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HintIsUnset(tt.hint), "hint %q", tt.hint)
	}
}
