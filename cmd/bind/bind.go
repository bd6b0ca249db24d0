// Package bind is a subcommand of the root command. It binds the interrupts of
// a network interface or InfiniBand device to a list of CPU cores.
package bind

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"irqtune/internal/common"
	"irqtune/internal/host"
	"irqtune/internal/irq"
	"irqtune/internal/target"
	"irqtune/internal/util"
)

const cmdName = "bind"

var examples = []string{
	fmt.Sprintf("  Bind eth0's interrupts to cores 0-3:          $ %s %s 0-3 eth0", common.AppName, cmdName),
	fmt.Sprintf("  Bind to a mixed core list:                    $ %s %s 0,2,5-6 eth0", common.AppName, cmdName),
	fmt.Sprintf("  Bind a specific set of interrupts:            $ %s %s 0-3 eth0 34 35 36", common.AppName, cmdName),
	fmt.Sprintf("  Interrupts may be given as ranges:            $ %s %s 0-3 eth0 34-37", common.AppName, cmdName),
	fmt.Sprintf("  Bind interrupts on a remote target:           $ %s %s 0-3 eth0 --target 192.168.1.1 --user fred --key fred_key", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:   cmdName + " <cores> <interface> [irqs]...",
	Short: "Bind interrupts of a network interface to CPU cores",
	Long: `Binds the interrupts of a network interface or InfiniBand device to the given CPU cores.

Interrupts are discovered from the device and assigned to the cores round-robin, in the order the cores are listed. An explicit interrupt list may be given to override discovery.`,
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.MinimumNArgs(2),
	SilenceErrors: true,
}

var flagDryRun bool

const flagDryRunName = "dry-run"

func init() {
	Cmd.Flags().BoolVar(&flagDryRun, flagDryRunName, false, "report assignments without writing them")
	common.AddTargetFlags(Cmd)
	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s <cores> <interface> [irqs]... [flags]\n\n", cmd.CommandPath())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Arguments:")
	cmd.Println("  cores       CPU cores to bind to, e.g., 0-3 or 0,2,5-6")
	cmd.Println("  interface   network interface or InfiniBand device name")
	cmd.Println("  irqs        optional interrupts, each an int, range, or comma list, overrides discovery")
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
	groups := []common.FlagGroup{
		{
			GroupName: "Options",
			Flags: []common.Flag{
				{Name: flagDryRunName, Help: "report assignments without writing them"},
			},
		},
	}
	groups = append(groups, common.GetTargetFlagGroup())
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if _, err := irq.ParseCPUList(args[0]); err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	if _, err := parseIRQArgs(args[2:]); err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	return common.ValidateTargetFlags(cmd)
}

func runCmd(cmd *cobra.Command, args []string) error {
	// appContext is the application context that holds common data and resources.
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	localTempDir := appContext.LocalTempDir
	cores, err := irq.ParseCPUList(args[0])
	if err != nil {
		return err
	}
	device := args[1]
	irqOverride, err := parseIRQArgs(args[2:])
	if err != nil {
		return err
	}
	// get the targets
	myTargets, targetErrs, err := common.GetTargets(cmd, true, true, localTempDir)
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
	// bind, one target at a time
	var bindErr error
	for _, myTarget := range myTargets {
		if len(myTargets) > 1 {
			fmt.Printf("%s:\n", myTarget.GetName())
		}
		if err := bindTarget(myTarget, device, cores, irqOverride); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			slog.Error(err.Error(), slog.String("target", myTarget.GetName()))
			bindErr = err
		}
	}
	cmd.SilenceUsage = true
	return bindErr
}

// parseIRQArgs expands the interrupt arguments into one IRQ list, in argument
// order. Each argument is an int, an inclusive range "a-b", or a comma list of
// those, so "34 35 36", "34-36", and "34,35-36" name the same interrupts.
func parseIRQArgs(args []string) ([]int, error) {
	var irqs []int
	for _, arg := range args {
		parsed, err := util.SelectiveIntRangeToIntList(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid irq list %q: %v", arg, err)
		}
		irqs = append(irqs, parsed...)
	}
	return irqs, nil
}

// bindTarget resolves the IRQ list for the device on one target and binds the
// IRQs to the cores.
func bindTarget(myTarget target.Target, device string, cores []int, irqOverride []int) error {
	h := hostForTarget(myTarget)
	irqs := irqOverride
	if len(irqs) == 0 {
		var err error
		irqs, err = irq.DiscoverIRQs(h, device)
		if err != nil {
			return err
		}
		fmt.Printf("Discovered irqs for %s: %s\n", device, strings.Join(util.IntSliceToStringSlice(irqs), " "))
	}
	binder := &irq.Binder{Host: h, Out: os.Stdout, DryRun: flagDryRun}
	assignments, err := binder.Bind(irqs, cores)
	if err != nil {
		return err
	}
	fmt.Println("done.")
	failed := 0
	for _, assignment := range assignments {
		if assignment.Err != nil {
			failed++
		}
	}
	if failed == len(assignments) {
		return fmt.Errorf("all %d interrupt assignments failed", failed)
	}
	return nil
}

// hostForTarget picks the cheapest host access path for a target. A local
// target running as root reads and writes the kernel files directly, anything
// else goes through the target's command runner.
func hostForTarget(myTarget target.Target) host.Host {
	if localTarget, ok := myTarget.(*target.LocalTarget); ok && localTarget.IsSuperUser() {
		return host.NewLocal()
	}
	return host.NewRemote(myTarget)
}
