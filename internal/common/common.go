// Package common defines data structures and functions that are used by
// multiple application commands, e.g., bind, show, report.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"irqtune/internal/progress"
	"irqtune/internal/report"
	"irqtune/internal/script"
	"irqtune/internal/target"
	"irqtune/internal/util"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	OutputDir      string // OutputDir is the directory where the application will write output files.
	LocalTempDir   string // LocalTempDir is the temp directory on the local host (created by the application).
	TargetTempRoot string // TargetTempRoot is the path to a directory on the target host where the application can create temporary directories.
	Version        string // Version is the version of the application.
}

type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// TargetScriptOutputs holds the script outputs collected from one target.
type TargetScriptOutputs struct {
	TargetName    string
	ScriptOutputs map[string]script.ScriptOutput
}

var (
	FlagFormat []string
)

const (
	FlagFormatName = "format"
)

// ReportingCommand is the common flow/logic for commands that collect data from
// targets and render it as report tables. The individual commands populate the
// struct with the details specific to the command and then call Run.
type ReportingCommand struct {
	Cmd            *cobra.Command
	ReportNamePost string
	TableNames     []string
}

// Run collects the scripts needed by the command's tables from every target and
// writes one report file per requested format per target.
func (rc *ReportingCommand) Run() error {
	// appContext is the application context that holds common data and resources.
	appContext := rc.Cmd.Parent().Context().Value(AppContext{}).(AppContext)
	localTempDir := appContext.LocalTempDir
	outputDir := appContext.OutputDir
	// handle signals
	// child processes will exit when the signals are received which will
	// allow this app to exit normally
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChannel
		slog.Info("received signal", slog.String("signal", sig.String()))
		util.SignalChildren(syscall.SIGINT)
	}()
	// get the targets
	myTargets, targetErrs, err := GetTargets(rc.Cmd, elevatedPrivilegesRequired(rc.TableNames), false, localTempDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return err
	}
	// schedule the cleanup of the temporary directory on each target (if not debugging)
	if rc.Cmd.Parent().PersistentFlags().Lookup("debug").Value.String() != "true" {
		for _, myTarget := range myTargets {
			if myTarget.GetTempDirectory() != "" {
				defer func(deferTarget target.Target) {
					err := deferTarget.RemoveTempDirectory()
					if err != nil {
						slog.Error("error removing target temporary directory", slog.String("error", err.Error()))
					}
				}(myTarget)
			}
		}
	}
	// setup and start the progress indicator
	multiSpinner := progress.NewMultiSpinner()
	for _, myTarget := range myTargets {
		err := multiSpinner.AddSpinner(myTarget.GetName())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			slog.Error(err.Error())
			rc.Cmd.SilenceUsage = true
			return err
		}
	}
	multiSpinner.Start()
	// remove targets that had errors
	var indicesToRemove []int
	for i := range targetErrs {
		if targetErrs[i] != nil {
			_ = multiSpinner.Status(myTargets[i].GetName(), fmt.Sprintf("Error: %v", targetErrs[i]))
			indicesToRemove = append(indicesToRemove, i)
		}
	}
	for i := len(indicesToRemove) - 1; i >= 0; i-- {
		myTargets = slices.Delete(myTargets, indicesToRemove[i], indicesToRemove[i]+1)
	}
	// collect data from targets
	orderedTargetScriptOutputs, err := collectFromTargets(myTargets, rc.TableNames, multiSpinner.Status, localTempDir)
	if err != nil {
		multiSpinner.Finish()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return err
	}
	multiSpinner.Finish()
	fmt.Println()
	// exit with error if no targets remain
	if len(myTargets) == 0 {
		err := fmt.Errorf("no successful targets found")
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return err
	}
	// we have output data so create the output directory
	err = CreateOutputDir(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return err
	}
	// check report formats
	formats := FlagFormat
	if slices.Contains(formats, report.FormatAll) {
		formats = report.FormatOptions
	}
	// process the collected data and create the requested report(s)
	reportFilePaths, err := rc.createReports(appContext, orderedTargetScriptOutputs, formats)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return err
	}
	if len(reportFilePaths) > 0 {
		fmt.Println("Report files:")
	}
	for _, reportFilePath := range reportFilePaths {
		fmt.Printf("  %s\n", reportFilePath)
	}
	return nil
}

// elevatedPrivilegesRequired reports whether any script needed by the given
// tables requires superuser privileges.
func elevatedPrivilegesRequired(tableNames []string) bool {
	for _, tableName := range tableNames {
		table := report.GetTableByName(tableName)
		for _, scriptName := range table.ScriptNames {
			if script.GetScriptByName(scriptName).Superuser {
				return true
			}
		}
	}
	return false
}

// collectFromTargets runs the scripts needed by the given tables on each
// target, in target order.
func collectFromTargets(myTargets []target.Target, tableNames []string, statusUpdate progress.MultiSpinnerUpdateFunc, localTempDir string) ([]TargetScriptOutputs, error) {
	// build the script list, unique across tables
	var scriptsToRun []script.ScriptDefinition
	scriptSeen := make(map[string]bool)
	for _, tableName := range tableNames {
		table := report.GetTableByName(tableName)
		for _, scriptName := range table.ScriptNames {
			if !scriptSeen[scriptName] {
				scriptSeen[scriptName] = true
				scriptsToRun = append(scriptsToRun, script.GetScriptByName(scriptName))
			}
		}
	}
	var orderedTargetScriptOutputs []TargetScriptOutputs
	for _, myTarget := range myTargets {
		if statusUpdate != nil {
			_ = statusUpdate(myTarget.GetName(), "collecting data")
		}
		scriptOutputs, err := script.RunScripts(myTarget, scriptsToRun, true, localTempDir)
		if err != nil {
			if statusUpdate != nil {
				_ = statusUpdate(myTarget.GetName(), fmt.Sprintf("Error: %v", err))
			}
			return nil, fmt.Errorf("failed to collect data from target %s: %w", myTarget.GetName(), err)
		}
		if statusUpdate != nil {
			_ = statusUpdate(myTarget.GetName(), "collection complete")
		}
		orderedTargetScriptOutputs = append(orderedTargetScriptOutputs, TargetScriptOutputs{
			TargetName:    myTarget.GetName(),
			ScriptOutputs: scriptOutputs,
		})
	}
	return orderedTargetScriptOutputs, nil
}

// createReports renders the collected data in each requested format and writes
// one report file per target per format.
func (rc *ReportingCommand) createReports(appContext AppContext, orderedTargetScriptOutputs []TargetScriptOutputs, formats []string) ([]string, error) {
	var reportFilePaths []string
	for _, targetScriptOutputs := range orderedTargetScriptOutputs {
		allTableValues, err := report.ProcessTables(rc.TableNames, targetScriptOutputs.ScriptOutputs)
		if err != nil {
			return nil, fmt.Errorf("failed to process tables: %w", err)
		}
		// append the insights collected from the tables
		allTableValues = append(allTableValues, report.CreateInsightsTable(allTableValues))
		for _, format := range formats {
			reportBytes, err := report.Create(format, allTableValues, targetScriptOutputs.TargetName)
			if err != nil {
				return nil, fmt.Errorf("failed to create %s report: %w", format, err)
			}
			post := ""
			if rc.ReportNamePost != "" {
				post = "_" + rc.ReportNamePost
			}
			reportFilename := fmt.Sprintf("%s%s.%s", targetScriptOutputs.TargetName, post, format)
			reportPath := filepath.Join(appContext.OutputDir, reportFilename)
			if err := writeReport(reportBytes, reportPath); err != nil {
				return nil, err
			}
			reportFilePaths = append(reportFilePaths, reportPath)
		}
	}
	return reportFilePaths, nil
}

func writeReport(reportBytes []byte, reportPath string) error {
	err := os.WriteFile(reportPath, reportBytes, 0644) // #nosec G306
	if err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// CreateOutputDir creates the output directory if it does not exist
func CreateOutputDir(outputDir string) error {
	err := os.MkdirAll(outputDir, 0755) // #nosec G301
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}
