// Package show is a subcommand of the root command. It prints the current
// interrupt affinity of a network interface or InfiniBand device.
package show

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"irqtune/internal/common"
	"irqtune/internal/host"
	"irqtune/internal/irq"
	"irqtune/internal/report"
	"irqtune/internal/target"
)

const cmdName = "show"

var examples = []string{
	fmt.Sprintf("  Show eth0's interrupt affinity:               $ %s %s eth0", common.AppName, cmdName),
	fmt.Sprintf("  Show affinity on a remote target:             $ %s %s eth0 --target 192.168.1.1 --user fred --key fred_key", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <interface>",
	Short:         "Show the interrupt affinity of a network interface",
	Long:          "Shows the affinity mask and affinity hint of each interrupt owned by a network interface or InfiniBand device.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
}

func init() {
	common.AddTargetFlags(Cmd)
	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s <interface> [flags]\n\n", cmd.CommandPath())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Arguments:")
	cmd.Println("  interface   network interface or InfiniBand device name")
	cmd.Println("\nFlags:")
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
	return []common.FlagGroup{common.GetTargetFlagGroup()}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	return common.ValidateTargetFlags(cmd)
}

func runCmd(cmd *cobra.Command, args []string) error {
	// appContext is the application context that holds common data and resources.
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	localTempDir := appContext.LocalTempDir
	device := args[0]
	// get the targets
	myTargets, targetErrs, err := common.GetTargets(cmd, false, false, localTempDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	// schedule the removal of the temp directory on each target (if the debug flag is not set)
	if cmd.Parent().PersistentFlags().Lookup("debug").Value.String() != "true" {
		for _, myTarget := range myTargets {
			if myTarget.GetTempDirectory() != "" {
				defer func(deferTarget target.Target) {
					err := deferTarget.RemoveTempDirectory()
					if err != nil {
						fmt.Fprintf(os.Stderr, "Failed to remove target temp directory: %+v\n", err)
						slog.Error(err.Error())
					}
				}(myTarget)
			}
		}
	}
	// check for errors in target creation
	for i := range targetErrs {
		if targetErrs[i] != nil {
			fmt.Fprintf(os.Stderr, "Error: target: %s, %v\n", myTargets[i].GetName(), targetErrs[i])
			slog.Error(targetErrs[i].Error())
			myTargets = slices.Delete(myTargets, i, i+1)
		}
	}
	if len(myTargets) == 0 {
		err := fmt.Errorf("no targets remain")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	var showErr error
	for _, myTarget := range myTargets {
		if len(myTargets) > 1 {
			fmt.Printf("%s:\n", myTarget.GetName())
		}
		if err := showTarget(myTarget, device); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			slog.Error(err.Error(), slog.String("target", myTarget.GetName()))
			showErr = err
		}
	}
	cmd.SilenceUsage = true
	return showErr
}

// showTarget prints one affinity table for the device on one target.
func showTarget(myTarget target.Target, device string) error {
	h := hostForTarget(myTarget)
	irqs, err := irq.DiscoverIRQs(h, device)
	if err != nil {
		return err
	}
	affinities, err := irq.InspectIRQs(h, irqs)
	if err != nil {
		return err
	}
	fmt.Print(report.DefaultTextTableRendererFunc(affinityTable(device, affinities)))
	return nil
}

// affinityTable shapes per-IRQ affinity data into a renderable table.
func affinityTable(device string, affinities []irq.IRQAffinity) report.TableValues {
	tableValues := report.TableValues{
		TableDefinition: report.TableDefinition{
			Name:    device,
			HasRows: true,
		},
		Fields: []report.Field{
			{Name: "IRQ"},
			{Name: "Affinity"},
			{Name: "Affinity Hint"},
			{Name: "Hint Set"},
		},
	}
	for _, affinity := range affinities {
		hintSet := "yes"
		if affinity.HintUnset {
			hintSet = "no"
		}
		tableValues.Fields[0].Values = append(tableValues.Fields[0].Values, strconv.Itoa(affinity.IRQ))
		tableValues.Fields[1].Values = append(tableValues.Fields[1].Values, affinity.Affinity)
		tableValues.Fields[2].Values = append(tableValues.Fields[2].Values, affinity.Hint)
		tableValues.Fields[3].Values = append(tableValues.Fields[3].Values, hintSet)
	}
	return tableValues
}

// hostForTarget picks the cheapest host access path for a target.
func hostForTarget(myTarget target.Target) host.Host {
	if localTarget, ok := myTarget.(*target.LocalTarget); ok && localTarget.IsSuperUser() {
		return host.NewLocal()
	}
	return host.NewRemote(myTarget)
}
