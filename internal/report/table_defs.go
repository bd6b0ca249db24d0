package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table_defs.go defines the tables that appear in the reports and the functions
// that extract their field values from the collected script outputs.

import (
	"strconv"
	"strings"

	"irqtune/internal/irq"
	"irqtune/internal/script"
)

const (
	HostTableName        = "Host"
	CPUTableName         = "CPU"
	NICTableName         = "Network Interfaces"
	InterruptsTableName  = "Interrupts"
	IRQAffinityTableName = "IRQ Affinity"
	IRQBalanceTableName  = "IRQ Balance"
	InsightsTableName    = "Insights"
)

const (
	HostMenuLabel       = "Host"
	CPUMenuLabel        = "CPU"
	NetworkMenuLabel    = "Network"
	InterruptsMenuLabel = "Interrupts"
)

var tableDefinitions = map[string]TableDefinition{
	HostTableName: {
		Name:      HostTableName,
		HasRows:   false,
		MenuLabel: HostMenuLabel,
		ScriptNames: []string{
			script.HostnameScriptName,
			script.DateScriptName,
			script.UnameScriptName},
		FieldsFunc: hostTableValues},
	CPUTableName: {
		Name:      CPUTableName,
		HasRows:   false,
		MenuLabel: CPUMenuLabel,
		ScriptNames: []string{
			script.LscpuScriptName,
			script.OnlineCPUsScriptName},
		FieldsFunc: cpuTableValues},
	NICTableName: {
		Name:      NICTableName,
		HasRows:   true,
		MenuLabel: NetworkMenuLabel,
		ScriptNames: []string{
			script.NicInfoScriptName},
		FieldsFunc: nicTableValues},
	InterruptsTableName: {
		Name:      InterruptsTableName,
		HasRows:   true,
		MenuLabel: InterruptsMenuLabel,
		ScriptNames: []string{
			script.InterruptsScriptName},
		FieldsFunc: interruptsTableValues},
	IRQAffinityTableName: {
		Name:      IRQAffinityTableName,
		HasRows:   true,
		MenuLabel: InterruptsMenuLabel,
		ScriptNames: []string{
			script.IrqAffinityScriptName},
		FieldsFunc: irqAffinityTableValues},
	IRQBalanceTableName: {
		Name:      IRQBalanceTableName,
		HasRows:   false,
		MenuLabel: InterruptsMenuLabel,
		ScriptNames: []string{
			script.IrqBalanceScriptName},
		FieldsFunc:   irqBalanceTableValues,
		InsightsFunc: irqBalanceTableInsights},
}

func hostTableValues(outputs map[string]script.ScriptOutput) []Field {
	hostName := strings.TrimSpace(outputs[script.HostnameScriptName].Stdout)
	time := strings.TrimSpace(outputs[script.DateScriptName].Stdout)
	kernel := valFromRegexSubmatch(outputs[script.UnameScriptName].Stdout, `^Linux \S+ (\S+)`)
	return []Field{
		{Name: "Host Name", Values: []string{hostName}},
		{Name: "Time", Values: []string{time}},
		{Name: "Kernel", Values: []string{kernel}},
	}
}

func cpuTableValues(outputs map[string]script.ScriptOutput) []Field {
	lscpu := outputs[script.LscpuScriptName].Stdout
	onlineCPUs := strings.TrimSpace(outputs[script.OnlineCPUsScriptName].Stdout)
	return []Field{
		{Name: "CPU Model", Values: []string{valFromRegexSubmatch(lscpu, `^[Mm]odel name.*:\s*(.+?)$`)}},
		{Name: "Architecture", Values: []string{valFromRegexSubmatch(lscpu, `^Architecture.*:\s*(.+?)$`)}},
		{Name: "Sockets", Values: []string{valFromRegexSubmatch(lscpu, `^Socket\(s\).*:\s*(.+?)$`)}},
		{Name: "Cores per Socket", Values: []string{valFromRegexSubmatch(lscpu, `^Core\(s\) per socket.*:\s*(.+?)$`)}},
		{Name: "Threads per Core", Values: []string{valFromRegexSubmatch(lscpu, `^Thread\(s\) per core.*:\s*(.+?)$`)}},
		{Name: "CPUs", Values: []string{valFromRegexSubmatch(lscpu, `^CPU\(.*:\s*(.+?)$`)}},
		{Name: "NUMA Nodes", Values: []string{valFromRegexSubmatch(lscpu, `^NUMA node\(s\).*:\s*(.+?)$`)}},
		{Name: "Online CPUs", Values: []string{onlineCPUs}},
	}
}

func nicTableValues(outputs map[string]script.ScriptOutput) []Field {
	nicInfo := outputs[script.NicInfoScriptName].Stdout
	return []Field{
		{Name: "Interface", Values: valsFromRegexSubmatch(nicInfo, `^Interface:\s*(.+)$`)},
		{Name: "MAC Address", Values: valsFromRegexSubmatch(nicInfo, `^MAC Address:\s*(.+)$`)},
		{Name: "NUMA Node", Values: valsFromRegexSubmatch(nicInfo, `^NUMA Node:\s*(.+)$`)},
		{Name: "Driver", Values: valsFromRegexSubmatch(nicInfo, `^Driver:\s*(.*)$`)},
		{Name: "CPU Affinity", Values: valsFromRegexSubmatch(nicInfo, `^CPU Affinity:\s*(.*)$`)},
	}
}

func interruptsTableValues(outputs map[string]script.ScriptOutput) []Field {
	interrupts := irq.ParseInterrupts(outputs[script.InterruptsScriptName].Stdout)
	var irqs, totals, descriptions []string
	for _, interrupt := range interrupts {
		if interrupt.IRQ < 0 {
			continue // system counter rows, e.g., NMI, LOC
		}
		irqs = append(irqs, strconv.Itoa(interrupt.IRQ))
		totals = append(totals, strconv.FormatUint(interrupt.Total(), 10))
		descriptions = append(descriptions, interrupt.Description)
	}
	return []Field{
		{Name: "IRQ", Values: irqs},
		{Name: "Total Count", Values: totals},
		{Name: "Description", Values: descriptions},
	}
}

func irqAffinityTableValues(outputs map[string]script.ScriptOutput) []Field {
	var irqs, affinities, hints, hintSet []string
	for line := range strings.SplitSeq(outputs[script.IrqAffinityScriptName].Stdout, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}
		irqs = append(irqs, parts[0])
		affinities = append(affinities, parts[1])
		hints = append(hints, parts[2])
		if irq.HintIsUnset(parts[2]) {
			hintSet = append(hintSet, "no")
		} else {
			hintSet = append(hintSet, "yes")
		}
	}
	return []Field{
		{Name: "IRQ", Values: irqs},
		{Name: "Affinity", Values: affinities},
		{Name: "Affinity Hint", Values: hints},
		{Name: "Hint Set", Values: hintSet},
	}
}

func irqBalanceTableValues(outputs map[string]script.ScriptOutput) []Field {
	status := strings.TrimSpace(outputs[script.IrqBalanceScriptName].Stdout)
	return []Field{
		{Name: "Status", Values: []string{status}},
	}
}

func irqBalanceTableInsights(outputs map[string]script.ScriptOutput, tableValues TableValues) []Insight {
	var insights []Insight
	statusIdx, err := GetFieldIndex("Status", tableValues)
	if err != nil {
		return nil
	}
	if tableValues.Fields[statusIdx].Values[0] == "Enabled" {
		insights = append(insights, Insight{
			Recommendation: "Stop the irqbalance service before binding interrupts to cores.",
			Justification:  "irqbalance periodically rewrites IRQ affinity masks and will overwrite manual bindings.",
		})
	}
	return insights
}
