package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/user"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"irqtune/internal/target"
)

// target flags
var (
	flagTargetHost    string
	flagTargetPort    string
	flagTargetUser    string
	flagTargetKeyFile string
	flagTargetsFile   string
)

// target flag names
const (
	flagTargetsFileName = "targets"
	flagTargetHostName  = "target"
	flagTargetPortName  = "port"
	flagTargetUserName  = "user"
	flagTargetKeyName   = "key"
)

var targetFlags = []Flag{
	{Name: flagTargetHostName, Help: "host name or IP address of remote target"},
	{Name: flagTargetPortName, Help: "port for SSH to remote target"},
	{Name: flagTargetUserName, Help: "user name for SSH to remote target"},
	{Name: flagTargetKeyName, Help: "private key file for SSH to remote target"},
	{Name: flagTargetsFileName, Help: "file with remote target(s) connection details. See targets.yaml for format."},
}

func AddTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagTargetHost, flagTargetHostName, "", targetFlags[0].Help)
	cmd.Flags().StringVar(&flagTargetPort, flagTargetPortName, "", targetFlags[1].Help)
	cmd.Flags().StringVar(&flagTargetUser, flagTargetUserName, "", targetFlags[2].Help)
	cmd.Flags().StringVar(&flagTargetKeyFile, flagTargetKeyName, "", targetFlags[3].Help)
	cmd.Flags().StringVar(&flagTargetsFile, flagTargetsFileName, "", targetFlags[4].Help)

	cmd.MarkFlagsMutuallyExclusive(flagTargetHostName, flagTargetsFileName)
}

func GetTargetFlagGroup() FlagGroup {
	return FlagGroup{
		GroupName: "Remote Target Options",
		Flags:     targetFlags,
	}
}

func ValidateTargetFlags(cmd *cobra.Command) error {
	if flagTargetsFile != "" && flagTargetHost != "" {
		return fmt.Errorf("only one of --%s or --%s can be specified", flagTargetsFileName, flagTargetHostName)
	}
	if flagTargetsFile != "" && (flagTargetPort != "" || flagTargetUser != "" || flagTargetKeyFile != "") {
		return fmt.Errorf("if --%s is specified, --%s, --%s, and --%s must not be specified", flagTargetsFileName, flagTargetPortName, flagTargetUserName, flagTargetKeyName)
	}
	if (flagTargetPort != "" || flagTargetUser != "" || flagTargetKeyFile != "") && flagTargetHost == "" {
		return fmt.Errorf("if --%s, --%s, or --%s is specified, --%s must also be specified", flagTargetPortName, flagTargetUserName, flagTargetKeyName, flagTargetHostName)
	}
	// confirm that the targets file exists
	if flagTargetsFile != "" {
		if _, err := os.Stat(flagTargetsFile); os.IsNotExist(err) {
			return fmt.Errorf("targets file %s does not exist", flagTargetsFile)
		}
	}
	// confirm that port is a positive integer
	if flagTargetPort != "" {
		var port int
		var err error
		if port, err = strconv.Atoi(flagTargetPort); err != nil || port <= 0 {
			return fmt.Errorf("port %s is not a positive integer", flagTargetPort)
		}
	}
	// confirm that the key file exists
	if flagTargetKeyFile != "" {
		if _, err := os.Stat(flagTargetKeyFile); os.IsNotExist(err) {
			return fmt.Errorf("key file %s does not exist", flagTargetKeyFile)
		}
	}
	// confirm that user is a valid user name
	if flagTargetUser != "" {
		re := regexp.MustCompile(`^([a-zA-Z0-9_-]+)$`)
		if !re.MatchString(flagTargetUser) {
			return fmt.Errorf("user name %s contains invalid characters", flagTargetUser)
		}
	}
	// confirm that host is a valid host name or IP address
	if flagTargetHost != "" {
		re := regexp.MustCompile(`^([a-zA-Z0-9.-]+)$`)
		if !re.MatchString(flagTargetHost) {
			return fmt.Errorf("host name %s is not a valid host name or IP address", flagTargetHost)
		}
	}
	return nil
}

// GetTargets retrieves the list of targets based on the provided command and parameters. It creates
// a temporary directory for each target and returns a slice of target.Target objects.
func GetTargets(cmd *cobra.Command, needsElevatedPrivileges bool, failIfCantElevate bool, localTempDir string) (targets []target.Target, targetErrs []error, err error) {
	targetTempDirRoot := cmd.Parent().PersistentFlags().Lookup("tempdir").Value.String()
	flagTargetsFile, _ := cmd.Flags().GetString(flagTargetsFileName)
	if flagTargetsFile != "" {
		targets, targetErrs, err = getTargetsFromFile(flagTargetsFile, localTempDir)
	} else {
		myTarget, targetErr, functionErr := getSingleTarget(cmd, needsElevatedPrivileges, failIfCantElevate, localTempDir)
		targets = []target.Target{myTarget}
		targetErrs = []error{targetErr}
		err = functionErr
	}
	if err != nil {
		slog.Error("failed to get targets", slog.String("error", err.Error()))
		return
	}
	// create a temp directory on each target
	for targetIdx, myTarget := range targets {
		// if we already have an error for this target, skip it
		if targetErrs[targetIdx] != nil {
			continue
		}
		_, err := myTarget.CreateTempDirectory(targetTempDirRoot)
		if err != nil {
			targetErrs[targetIdx] = fmt.Errorf("failed to create temp directory on target: %v", err)
			slog.Error(targetErrs[targetIdx].Error(), slog.String("target", myTarget.GetName()))
			continue
		}
	}
	return
}

// getSingleTarget returns a target built from the target flags. The second
// return value holds a problem with the target host connection, the third an
// error in the function itself.
func getSingleTarget(cmd *cobra.Command, needsElevatedPrivileges bool, failIfCantElevate bool, localTempDir string) (target.Target, error, error) {
	targetHost, _ := cmd.Flags().GetString(flagTargetHostName)
	targetPort, _ := cmd.Flags().GetString(flagTargetPortName)
	targetUser, _ := cmd.Flags().GetString(flagTargetUserName)
	targetKey, _ := cmd.Flags().GetString(flagTargetKeyName)
	if targetHost != "" {
		return getRemoteTarget(targetHost, targetPort, targetUser, targetKey, needsElevatedPrivileges, failIfCantElevate, localTempDir)
	}
	return getLocalTarget(needsElevatedPrivileges, failIfCantElevate, localTempDir)
}

// getLocalTarget creates a new local target object.
func getLocalTarget(needsElevatedPrivileges bool, failIfCantElevate bool, localTempDir string) (target.Target, error, error) {
	myTarget := target.NewLocalTarget()
	// create a sub-directory for the target in the localTempDir
	localTargetDir := path.Join(localTempDir, myTarget.GetName())
	err := os.MkdirAll(localTargetDir, 0755)
	if err != nil {
		return myTarget, nil, err
	}
	if needsElevatedPrivileges && !myTarget.CanElevatePrivileges() {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			slog.Warn("can not prompt for sudo password because STDIN isn't coming from a terminal")
			if failIfCantElevate {
				err := fmt.Errorf("failed to elevate privileges on local target")
				return myTarget, err, nil
			}
			slog.Warn("continuing without elevated privileges")
		} else {
			fmt.Fprintf(os.Stderr, "WARNING: some operations cannot be performed without elevated privileges.\n")
			currentUser, err := user.Current()
			if err != nil {
				return myTarget, nil, err
			}
			fmt.Fprintf(os.Stderr, "For complete functionality, please provide your password at the prompt.\n")
			slog.Info("prompting for sudo password")
			prompt := fmt.Sprintf("[sudo] password for %s", currentUser.Username)
			var sudoPwd string
			sudoPwd, err = getPassword(prompt)
			if err != nil {
				return myTarget, nil, err
			}
			myTarget.SetSudo(sudoPwd)
			if !myTarget.CanElevatePrivileges() {
				if failIfCantElevate {
					err := fmt.Errorf("failed to elevate privileges on local target")
					return myTarget, nil, err
				}
				slog.Warn("failed to elevate privileges on local target, continuing without elevated privileges")
				fmt.Fprintf(os.Stderr, "WARNING: Not able to establish elevated privileges with provided password.\n")
				fmt.Fprintf(os.Stderr, "Continuing with regular user privileges. Some operations will not be performed.\n")
			}
		}
	}
	return myTarget, nil, nil
}

// getRemoteTarget creates a new remote target object based on the provided parameters.
func getRemoteTarget(targetHost string, targetPort string, targetUser string, targetKey string, needsElevatedPrivileges bool, failIfCantElevate bool, localTempDir string) (target.Target, error, error) {
	// if targetPort is empty, default to 22
	if targetPort == "" {
		targetPort = "22"
	}
	slog.Info("Creating remote target", slog.String("targetHost", targetHost), slog.String("targetPort", targetPort), slog.String("targetUser", targetUser))
	myTarget := target.NewRemoteTarget(targetHost, targetHost, targetPort, targetUser, targetKey)
	// create a sub-directory for the target in the localTempDir
	localTargetDir := path.Join(localTempDir, myTarget.GetName())
	err := os.MkdirAll(localTargetDir, 0755)
	if err != nil {
		return myTarget, nil, err
	}
	if !myTarget.CanConnect() {
		if targetKey == "" && targetUser != "" {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				err := fmt.Errorf("can not prompt for SSH password because STDIN isn't coming from a terminal")
				slog.Error(err.Error())
				return myTarget, nil, err
			}
			slog.Info("Prompting for SSH password.", slog.String("targetHost", targetHost), slog.String("targetPort", targetPort), slog.String("targetUser", targetUser))
			sshPwd, err := getPassword(fmt.Sprintf("%s@%s's password", targetUser, targetHost))
			if err != nil {
				return myTarget, nil, err
			}
			sshPassPath, err := findSshPass()
			if err != nil {
				return myTarget, nil, err
			}
			myTarget.SetSshPassPath(sshPassPath)
			myTarget.SetSshPass(sshPwd)
			// if still can't connect, return target error
			if !myTarget.CanConnect() {
				err = fmt.Errorf("failed to connect to target host (%s)", myTarget.GetName())
				return myTarget, err, nil
			}
		} else {
			err := fmt.Errorf("failed to connect to target host (%s)", myTarget.GetName())
			return myTarget, nil, err
		}
	}
	if needsElevatedPrivileges && !myTarget.CanElevatePrivileges() {
		if failIfCantElevate {
			err := fmt.Errorf("failed to elevate privileges on remote target")
			return myTarget, err, nil
		}
		slog.Warn("failed to elevate privileges on remote target, continuing without elevated privileges", slog.String("targetHost", targetHost))
	}
	return myTarget, nil, nil
}

type targetFromYAML struct {
	Name string `yaml:"name"`
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Key  string `yaml:"key"`
	Pwd  string `yaml:"pwd"`
}

type targetsFile struct {
	Targets []targetFromYAML `yaml:"targets"`
}

// sanitizeTargetName sanitizes the target name by removing any invalid
// characters. Target names end up in report file names, so only alphanumeric
// characters, underscores, periods, and dashes are allowed.
func sanitizeTargetName(targetName string) string {
	sanitizedTargetName := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == '.' {
			return r
		}
		if r >= 'a' && r <= 'z' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r
		}
		if r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, targetName)
	return sanitizedTargetName
}

// getTargetsFromFile reads a targets file and returns a list of target objects.
func getTargetsFromFile(targetsFilePath string, localTempDir string) (targets []target.Target, targetErrs []error, err error) {
	var targetsFile targetsFile
	// read the file into a byte array
	yamlFile, err := os.ReadFile(targetsFilePath) // #nosec G304
	if err != nil {
		return
	}
	// parse the file contents into a targetsFile struct
	err = yaml.Unmarshal(yamlFile, &targetsFile)
	if err != nil {
		return
	}
	targetNameUsed := make(map[string]bool)
	for _, t := range targetsFile.Targets {
		// target name is not required, but if it is provided there must not be duplicate names
		var targetName string
		if t.Name != "" {
			targetName = sanitizeTargetName(t.Name)
			if targetNameUsed[targetName] {
				err = fmt.Errorf("duplicate target name (after sanitized) found in targets file: original: %s, sanitized: %s", t.Name, targetName)
				return
			}
			targetNameUsed[targetName] = true
		}
		newTarget := target.NewRemoteTarget(targetName, t.Host, t.Port, t.User, t.Key)
		newTarget.SetSshPass(t.Pwd)
		// create a sub-directory for the target in the localTempDir
		localTargetDir := path.Join(localTempDir, newTarget.GetName())
		err = os.MkdirAll(localTargetDir, 0755)
		if err != nil {
			return
		}
		// if the target has a password, sshpass is needed to feed it to ssh
		if t.Pwd != "" {
			var sshPassPath string
			sshPassPath, err = findSshPass()
			if err != nil {
				return
			}
			newTarget.SetSshPassPath(sshPassPath)
		}
		// try to connect to the target
		if !newTarget.CanConnect() {
			targetErrs = append(targetErrs, fmt.Errorf("failed to connect to target host (%s)", newTarget.GetName()))
		} else {
			targetErrs = append(targetErrs, nil)
		}
		targets = append(targets, newTarget)
	}
	return
}

// findSshPass locates the sshpass binary on the local host. It is needed to
// pass an SSH password to ssh and scp non-interactively.
func findSshPass() (string, error) {
	sshPassPath, err := exec.LookPath("sshpass")
	if err != nil {
		return "", fmt.Errorf("sshpass is required for password-based SSH connections, install it and try again: %w", err)
	}
	return sshPassPath, nil
}

// getPassword prompts the user for a password and returns it as a string. The
// user's input is hidden as they type.
func getPassword(prompt string) (string, error) {
	fmt.Fprintf(os.Stderr, "\n%s: ", prompt)
	pwd, err := term.ReadPassword(0)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(os.Stderr, "\n") // newline after password
	return string(pwd), nil
}
