// Package report is a subcommand of the root command. It collects interrupt
// configuration from target(s) and writes a report in one or more formats.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"irqtune/internal/common"
	"irqtune/internal/report"
)

const cmdName = "report"

var examples = []string{
	fmt.Sprintf("  Report on the local host:                     $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Text report only:                             $ %s %s --format txt", common.AppName, cmdName),
	fmt.Sprintf("  Report on a remote target:                    $ %s %s --target 192.168.1.1 --user fred --key fred_key", common.AppName, cmdName),
	fmt.Sprintf("  Report on multiple remote targets:            $ %s %s --targets targets.yaml", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Report interrupt configuration of target(s)",
	Long:          "Collects host, CPU, network interface, and interrupt affinity details from the target(s) and renders them as report files.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

func init() {
	Cmd.Flags().StringSliceVar(&common.FlagFormat, common.FlagFormatName, []string{report.FormatAll},
		fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", ")))
	common.AddTargetFlags(Cmd)
	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Flags:")
	for _, group := range getFlagGroups() {
		cmd.Printf("  %s:\n", group.GroupName)
		for _, flag := range group.Flags {
			cmd.Printf("    --%-20s %s\n", flag.Name, flag.Help)
		}
	}
	cmd.Println("\nGlobal Flags:")
	cmd.Parent().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
		cmd.Printf("  --%-20s %s\n", pf.Name, pf.Usage)
	})
	return nil
}

func getFlagGroups() []common.FlagGroup {
	groups := []common.FlagGroup{
		{
			GroupName: "Output Options",
			Flags: []common.Flag{
				{Name: common.FlagFormatName, Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", "))},
			},
		},
	}
	groups = append(groups, common.GetTargetFlagGroup())
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range common.FlagFormat {
		formatOptions := append([]string{report.FormatAll}, report.FormatOptions...)
		if !strings.Contains(strings.Join(formatOptions, ","), format) {
			return common.FlagValidationError(cmd, fmt.Sprintf("format options are: %s", strings.Join(formatOptions, ", ")))
		}
	}
	return common.ValidateTargetFlags(cmd)
}

func runCmd(cmd *cobra.Command, args []string) error {
	reportingCommand := common.ReportingCommand{
		Cmd: cmd,
		TableNames: []string{
			report.HostTableName,
			report.CPUTableName,
			report.NICTableName,
			report.InterruptsTableName,
			report.IRQAffinityTableName,
			report.IRQBalanceTableName,
		},
	}
	return reportingCommand.Run()
}
