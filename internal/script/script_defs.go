package script

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// script_defs.go defines the bash scripts that are used to collect information from target systems

import (
	"fmt"
)

const (
	HostnameScriptName    = "hostname"
	DateScriptName        = "date"
	UnameScriptName       = "uname"
	LscpuScriptName       = "lscpu"
	OnlineCPUsScriptName  = "online cpus"
	InterruptsScriptName  = "interrupts"
	SoftirqsScriptName    = "softirqs"
	IrqAffinityScriptName = "irq affinity"
	IrqBalanceScriptName  = "irqbalance"
	NicInfoScriptName     = "nic info"
)

// GetScriptByName returns the script definition with the given name. It will
// panic if the script is not found.
func GetScriptByName(name string) ScriptDefinition {
	for _, script := range getCollectionScripts() {
		if script.Name == name {
			return script
		}
	}
	panic(fmt.Sprintf("script not found: %s", name))
}

// getCollectionScripts returns the script definitions that are used to collect
// information from the target system.
func getCollectionScripts() (scripts []ScriptDefinition) {
	scripts = []ScriptDefinition{
		{
			Name:   HostnameScriptName,
			Script: "hostname",
		},
		{
			Name:   DateScriptName,
			Script: "date",
		},
		{
			Name:   UnameScriptName,
			Script: "uname -a",
		},
		{
			Name:    LscpuScriptName,
			Script:  "lscpu",
			Depends: []string{"lscpu"},
		},
		{
			Name:   OnlineCPUsScriptName,
			Script: "cat /sys/devices/system/cpu/online",
		},
		{
			Name:   InterruptsScriptName,
			Script: "cat /proc/interrupts",
		},
		{
			Name:   SoftirqsScriptName,
			Script: "cat /proc/softirqs",
		},
		{
			Name: IrqAffinityScriptName,
			Script: `for dir in /proc/irq/[0-9]*; do
	irq=$( basename "$dir" )
	affinity=$( cat "$dir"/smp_affinity 2>/dev/null )
	hint=$( cat "$dir"/affinity_hint 2>/dev/null )
	echo "$irq|$affinity|$hint"
done`,
			Superuser: true,
		},
		{
			Name:   IrqBalanceScriptName,
			Script: `pgrep irqbalance >/dev/null && echo "Enabled" || echo "Disabled"`,
		},
		{
			Name: NicInfoScriptName,
			Script: `for dev in /sys/class/net/*; do
	ifc=$( basename "$dev" )
	[ "$ifc" = "lo" ] && continue
	echo "Interface: $ifc"
	echo -n "MAC Address: "
	cat "$dev"/address 2>/dev/null || echo "unknown"
	echo -n "NUMA Node: "
	cat "$dev"/device/numa_node 2>/dev/null || echo "unknown"
	echo -n "Driver: "
	ethtool -i "$ifc" 2>/dev/null | grep '^driver:' | awk '{print $2}'
	echo -n "CPU Affinity: "
	intlist=$( grep -e "$ifc" /proc/interrupts | cut -d':' -f1 | sed -e 's/^[[:space:]]*//' )
	for int in $intlist; do
		cpu=$( cat /proc/irq/"$int"/smp_affinity_list 2>/dev/null )
		printf "%s:%s;" "$int" "$cpu"
	done
	printf "\n"
done`,
			Depends: []string{"ethtool"},
		},
	}
	return
}
