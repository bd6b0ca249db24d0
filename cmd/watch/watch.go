// Package watch is a subcommand of the root command. It samples the interrupt
// counts of a network interface at a fixed interval and prints the interrupt
// rate per IRQ.
package watch

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"irqtune/internal/common"
	"irqtune/internal/host"
	"irqtune/internal/irq"
	"irqtune/internal/target"
)

const cmdName = "watch"

var examples = []string{
	fmt.Sprintf("  Watch eth0's interrupt rates:                 $ %s %s eth0", common.AppName, cmdName),
	fmt.Sprintf("  Sample every 5 seconds for one minute:        $ %s %s eth0 --interval 5 --duration 60", common.AppName, cmdName),
	fmt.Sprintf("  Export rates as Prometheus gauges:            $ %s %s eth0 --prometheus localhost:9090", common.AppName, cmdName),
	fmt.Sprintf("  Watch a remote target:                        $ %s %s eth0 --target 192.168.1.1 --user fred --key fred_key", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <interface>",
	Short:         "Watch interrupt rates of a network interface",
	Long:          "Samples the interrupt counts of a network interface or InfiniBand device at a fixed interval and prints the per-IRQ interrupt rate until the duration expires or a signal is received.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
}

var (
	flagInterval   int
	flagDuration   int
	flagPrometheus string
)

const (
	flagIntervalName   = "interval"
	flagDurationName   = "duration"
	flagPrometheusName = "prometheus"
)

func init() {
	Cmd.Flags().IntVar(&flagInterval, flagIntervalName, 1, "number of seconds between samples")
	Cmd.Flags().IntVar(&flagDuration, flagDurationName, 0, "number of seconds to run, 0 runs until interrupted")
	Cmd.Flags().StringVar(&flagPrometheus, flagPrometheusName, "", "address to serve Prometheus gauges on, e.g., localhost:9090")
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
	groups := []common.FlagGroup{
		{
			GroupName: "Options",
			Flags: []common.Flag{
				{Name: flagIntervalName, Help: "number of seconds between samples"},
				{Name: flagDurationName, Help: "number of seconds to run, 0 runs until interrupted"},
				{Name: flagPrometheusName, Help: "address to serve Prometheus gauges on"},
			},
		},
	}
	groups = append(groups, common.GetTargetFlagGroup())
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if flagInterval < 1 {
		return common.FlagValidationError(cmd, fmt.Sprintf("%s must be at least 1 second", flagIntervalName))
	}
	if flagDuration < 0 {
		return common.FlagValidationError(cmd, fmt.Sprintf("%s must not be negative", flagDurationName))
	}
	if flagDuration > 0 && flagDuration < flagInterval {
		return common.FlagValidationError(cmd, fmt.Sprintf("%s must not be shorter than %s", flagDurationName, flagIntervalName))
	}
	return common.ValidateTargetFlags(cmd)
}

func runCmd(cmd *cobra.Command, args []string) error {
	// appContext is the application context that holds common data and resources.
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	localTempDir := appContext.LocalTempDir
	device := args[0]
	// get the target
	myTargets, targetErrs, err := common.GetTargets(cmd, false, false, localTempDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	for i := range targetErrs {
		if targetErrs[i] != nil {
			fmt.Fprintf(os.Stderr, "Error: target: %s, %v\n", myTargets[i].GetName(), targetErrs[i])
			slog.Error(targetErrs[i].Error())
			cmd.SilenceUsage = true
			return targetErrs[i]
		}
	}
	if len(myTargets) != 1 {
		err := fmt.Errorf("watch requires exactly one target, got %d", len(myTargets))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	myTarget := myTargets[0]
	if myTarget.GetTempDirectory() != "" && cmd.Parent().PersistentFlags().Lookup("debug").Value.String() != "true" {
		defer func() {
			err := myTarget.RemoveTempDirectory()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to remove target temp directory: %+v\n", err)
				slog.Error(err.Error())
			}
		}()
	}
	cmd.SilenceUsage = true
	return watchTarget(myTarget, device)
}

// watchTarget samples the interrupt table on the interval and prints the rate
// of each of the device's IRQs until the duration expires or a signal arrives.
func watchTarget(myTarget target.Target, device string) error {
	h := hostForTarget(myTarget)
	irqs, err := irq.DiscoverIRQs(h, device)
	if err != nil {
		return err
	}
	if flagPrometheus != "" {
		startPrometheusServer(flagPrometheus)
	}
	watched := make(map[int]bool, len(irqs))
	for _, irqNum := range irqs {
		watched[irqNum] = true
	}
	prevTotals, err := readTotals(h, watched)
	if err != nil {
		return err
	}
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	interval := time.Duration(flagInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var deadline <-chan time.Time
	if flagDuration > 0 {
		deadline = time.After(time.Duration(flagDuration) * time.Second)
	}
	printer := message.NewPrinter(language.English)
	fmt.Printf("%-9s%8s%16s%20s\n", "TIME", "IRQ", "INTR/s", "TOTAL")
	for {
		select {
		case sig := <-sigChannel:
			slog.Info("received signal", slog.String("signal", sig.String()))
			return nil
		case <-deadline:
			return nil
		case <-ticker.C:
			totals, err := readTotals(h, watched)
			if err != nil {
				return err
			}
			now := time.Now().Format("15:04:05")
			for _, irqNum := range irqs {
				total, ok := totals[irqNum]
				if !ok {
					continue // IRQ row disappeared, e.g., device was removed
				}
				delta := total - prevTotals[irqNum]
				rate := float64(delta) / interval.Seconds()
				fmt.Printf("%-9s%8d%16s%20s\n", now, irqNum,
					printer.Sprintf("%.0f", rate), printer.Sprintf("%d", total))
				if flagPrometheus != "" {
					updatePrometheusRate(device, irqNum, rate)
				}
			}
			prevTotals = totals
		}
	}
}

// readTotals reads the interrupt table and returns the summed per-CPU count of
// each watched IRQ.
func readTotals(h host.Host, watched map[int]bool) (map[int]uint64, error) {
	interrupts, err := irq.ReadInterrupts(h)
	if err != nil {
		return nil, err
	}
	totals := make(map[int]uint64, len(watched))
	for _, interrupt := range interrupts {
		if watched[interrupt.IRQ] {
			totals[interrupt.IRQ] = interrupt.Total()
		}
	}
	return totals, nil
}

// hostForTarget picks the cheapest host access path for a target.
func hostForTarget(myTarget target.Target) host.Host {
	if localTarget, ok := myTarget.(*target.LocalTarget); ok && localTarget.IsSuperUser() {
		return host.NewLocal()
	}
	return host.NewRemote(myTarget)
}
