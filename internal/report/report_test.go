package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irqtune/internal/script"
)

func testScriptOutputs() map[string]script.ScriptOutput {
	outputs := map[string]script.ScriptOutput{
		script.HostnameScriptName: {Stdout: "testhost\n"},
		script.DateScriptName:     {Stdout: "Mon Aug 31 10:00:00 UTC 2026\n"},
		script.UnameScriptName:    {Stdout: "Linux testhost 6.8.0-45-generic #45-Ubuntu SMP x86_64 GNU/Linux\n"},
		script.LscpuScriptName: {Stdout: `Architecture:        x86_64
CPU(s):              8
Thread(s) per core:  2
Core(s) per socket:  4
Socket(s):           1
NUMA node(s):        1
Model name:          Intel(R) Xeon(R) Platinum 8380 CPU @ 2.30GHz
`},
		script.OnlineCPUsScriptName: {Stdout: "0-7\n"},
		script.InterruptsScriptName: {Stdout: `           CPU0       CPU1
 34:        100        200  PCI-MSI 1048576-edge   eth0-rx-0
LOC:       5000       6000  Local timer interrupts
`},
		script.IrqAffinityScriptName: {Stdout: "34|ff|2,00000000\n35|1|0\n"},
		script.IrqBalanceScriptName:  {Stdout: "Enabled\n"},
		script.NicInfoScriptName: {Stdout: `Interface: eth0
MAC Address: 00:11:22:33:44:55
NUMA Node: 0
Driver: mlx5_core
CPU Affinity: 34:0;35:1;
`},
	}
	return outputs
}

func TestProcessTables(t *testing.T) {
	outputs := testScriptOutputs()
	tableNames := []string{HostTableName, CPUTableName, NICTableName, InterruptsTableName, IRQAffinityTableName, IRQBalanceTableName}
	allTableValues, err := ProcessTables(tableNames, outputs)
	require.NoError(t, err)
	require.Len(t, allTableValues, len(tableNames))

	host := allTableValues[0]
	idx, err := GetFieldIndex("Host Name", host)
	require.NoError(t, err)
	assert.Equal(t, "testhost", host.Fields[idx].Values[0])
	idx, err = GetFieldIndex("Kernel", host)
	require.NoError(t, err)
	assert.Equal(t, "6.8.0-45-generic", host.Fields[idx].Values[0])

	cpu := allTableValues[1]
	idx, err = GetFieldIndex("CPU Model", cpu)
	require.NoError(t, err)
	assert.Equal(t, "Intel(R) Xeon(R) Platinum 8380 CPU @ 2.30GHz", cpu.Fields[idx].Values[0])
	idx, err = GetFieldIndex("Cores per Socket", cpu)
	require.NoError(t, err)
	assert.Equal(t, "4", cpu.Fields[idx].Values[0])

	nic := allTableValues[2]
	idx, err = GetFieldIndex("Interface", nic)
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0"}, nic.Fields[idx].Values)
	idx, err = GetFieldIndex("Driver", nic)
	require.NoError(t, err)
	assert.Equal(t, []string{"mlx5_core"}, nic.Fields[idx].Values)

	interrupts := allTableValues[3]
	idx, err = GetFieldIndex("IRQ", interrupts)
	require.NoError(t, err)
	// system counter rows are excluded
	assert.Equal(t, []string{"34"}, interrupts.Fields[idx].Values)
	idx, err = GetFieldIndex("Total Count", interrupts)
	require.NoError(t, err)
	assert.Equal(t, []string{"300"}, interrupts.Fields[idx].Values)

	affinity := allTableValues[4]
	idx, err = GetFieldIndex("Hint Set", affinity)
	require.NoError(t, err)
	assert.Equal(t, []string{"yes", "no"}, affinity.Fields[idx].Values)

	balance := allTableValues[5]
	require.Len(t, balance.Insights, 1)
	assert.Contains(t, balance.Insights[0].Recommendation, "irqbalance")
}

func TestCreateTextReport(t *testing.T) {
	allTableValues, err := ProcessTables([]string{HostTableName, IRQAffinityTableName}, testScriptOutputs())
	require.NoError(t, err)
	out, err := Create(FormatTxt, allTableValues, "testhost")
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Host\n====\n")
	assert.Contains(t, text, "Host Name: testhost")
	assert.Contains(t, text, "IRQ")
	assert.Contains(t, text, "2,00000000")
}

func TestCreateJsonReport(t *testing.T) {
	allTableValues, err := ProcessTables([]string{IRQBalanceTableName}, testScriptOutputs())
	require.NoError(t, err)
	out, err := Create(FormatJson, allTableValues, "testhost")
	require.NoError(t, err)
	var parsed map[string][]map[string]string
	require.NoError(t, json.Unmarshal(out, &parsed))
	require.Len(t, parsed[IRQBalanceTableName], 1)
	assert.Equal(t, "Enabled", parsed[IRQBalanceTableName][0]["Status"])
}

func TestCreateHtmlReport(t *testing.T) {
	allTableValues, err := ProcessTables([]string{NICTableName}, testScriptOutputs())
	require.NoError(t, err)
	out, err := Create(FormatHtml, allTableValues, "testhost")
	require.NoError(t, err)
	html := string(out)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<td>eth0</td>")
	assert.Contains(t, html, "testhost")
}

func TestCreateXlsxReport(t *testing.T) {
	allTableValues, err := ProcessTables([]string{CPUTableName}, testScriptOutputs())
	require.NoError(t, err)
	out, err := Create(FormatXlsx, allTableValues, "testhost")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCreateInsightsTable(t *testing.T) {
	allTableValues, err := ProcessTables([]string{IRQBalanceTableName}, testScriptOutputs())
	require.NoError(t, err)
	insights := CreateInsightsTable(allTableValues)
	require.Len(t, insights.Fields, 2)
	require.Len(t, insights.Fields[0].Values, 1)
	assert.Contains(t, insights.Fields[1].Values[0], "irqbalance")
}

func TestMismatchedFieldValues(t *testing.T) {
	badTable := TableValues{
		TableDefinition: TableDefinition{Name: "Bad"},
		Fields: []Field{
			{Name: "A", Values: []string{"1", "2"}},
			{Name: "B", Values: []string{"1"}},
		},
	}
	_, err := Create(FormatTxt, []TableValues{badTable}, "testhost")
	assert.Error(t, err)
}
