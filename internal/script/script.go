// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package script provides functions to run scripts on a target and get the output.
package script

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"strings"

	"irqtune/internal/target"
)

// ScriptDefinition describes a bash script that collects information from a
// target system.
type ScriptDefinition struct {
	Name      string   // just a name
	Script    string   // the bash script that will be run
	Depends   []string // binary dependencies that must be available for the script to run
	Superuser bool     // requires sudo or root
}

type ScriptOutput struct {
	ScriptDefinition
	Stdout   string
	Stderr   string
	Exitcode int
}

// RunScript runs a script on the specified target and returns the output.
func RunScript(myTarget target.Target, script ScriptDefinition, localTempDir string) (ScriptOutput, error) {
	scriptOutputs, err := RunScripts(myTarget, []ScriptDefinition{script}, false, localTempDir)
	if err != nil {
		return ScriptOutput{}, err
	}
	scriptOutput, exists := scriptOutputs[script.Name]
	if !exists {
		return ScriptOutput{}, fmt.Errorf("script output not found for script: %s", script.Name)
	}
	return scriptOutput, nil
}

// RunScripts runs a list of scripts on a target, one at a time, and returns the
// outputs of each script as a map with the script name as the key. Scripts that
// require superuser privileges are skipped when the user cannot elevate
// privileges on the target. When continueOnScriptError is true, a non-zero
// script exit code is recorded in the output rather than terminating the run.
func RunScripts(myTarget target.Target, scripts []ScriptDefinition, continueOnScriptError bool, localTempDir string) (map[string]ScriptOutput, error) {
	canElevate := myTarget.CanElevatePrivileges()
	var runnableScripts []ScriptDefinition
	for _, script := range scripts {
		if script.Superuser && !canElevate {
			slog.Warn("skipping script because it requires superuser privileges and the user cannot elevate privileges on target", slog.String("script", script.Name))
			continue
		}
		runnableScripts = append(runnableScripts, script)
	}
	if len(runnableScripts) == 0 {
		return nil, fmt.Errorf("no scripts to run on target")
	}
	targetTempDir := myTarget.GetTempDirectory()
	if targetTempDir == "" {
		var err error
		targetTempDir, err = myTarget.CreateTempDirectory("")
		if err != nil {
			return nil, fmt.Errorf("error creating temporary directory on target: %v", err)
		}
	}
	localDir := path.Join(localTempDir, myTarget.GetName())
	if err := os.MkdirAll(localDir, 0700); err != nil {
		return nil, fmt.Errorf("error creating local script directory: %v", err)
	}
	scriptOutputs := make(map[string]ScriptOutput)
	for _, script := range runnableScripts {
		scriptFileName := scriptNameToFileName(script.Name)
		localScriptPath := path.Join(localDir, scriptFileName)
		if err := os.WriteFile(localScriptPath, []byte(formScript(script)), 0600); err != nil {
			return nil, fmt.Errorf("error writing script to local file: %v", err)
		}
		if err := myTarget.PushFile(localScriptPath, targetTempDir); err != nil {
			return nil, fmt.Errorf("error copying script to target: %v", err)
		}
		targetScriptPath := path.Join(targetTempDir, scriptFileName)
		var cmd *exec.Cmd
		if script.Superuser && !myTarget.IsSuperUser() {
			cmd = exec.Command("sudo", "bash", targetScriptPath) // #nosec G204
		} else {
			cmd = exec.Command("bash", targetScriptPath) // #nosec G204
		}
		stdout, stderr, exitcode, err := myTarget.RunCommand(cmd, 0, true)
		slog.Debug("ran script on target", slog.String("target", myTarget.GetName()), slog.String("script", script.Name), slog.Int("exitcode", exitcode))
		scriptOutputs[script.Name] = ScriptOutput{ScriptDefinition: script, Stdout: stdout, Stderr: stderr, Exitcode: exitcode}
		if err != nil && !continueOnScriptError {
			return scriptOutputs, fmt.Errorf("error running script %s on target: %v, stderr: %s", script.Name, err, stderr)
		}
	}
	return scriptOutputs, nil
}

// formScript prepends dependency checks to the script body so that a missing
// binary fails the script with a distinctive exit code instead of a shell
// error partway through.
func formScript(script ScriptDefinition) string {
	var sb strings.Builder
	for _, dep := range script.Depends {
		fmt.Fprintf(&sb, "command -v %s >/dev/null 2>&1 || { echo 'missing dependency: %s' >&2; exit 127; }\n", dep, dep)
	}
	sb.WriteString(script.Script)
	if !strings.HasSuffix(script.Script, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

func scriptNameToFileName(name string) string {
	return strings.ReplaceAll(name, " ", "_") + ".sh"
}
