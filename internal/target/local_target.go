package target

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"irqtune/internal/util"
)

// SetSudo (LocalTarget only) sets the sudo password for the target.
// Also sets the canElevate field to 0 to indicate that the sudo password has not been verified.
func (t *LocalTarget) SetSudo(sudo string) {
	t.sudo = sudo
	t.canElevate = 0
}

// RunCommand executes the given command with a timeout and returns the standard output,
// standard error, exit code, and any error that occurred.
func (t *LocalTarget) RunCommand(cmd *exec.Cmd, timeout int, argNotUsed bool) (stdout string, stderr string, exitCode int, err error) {
	input := ""
	if t.sudo != "" && len(cmd.Args) > 2 && cmd.Args[0] == "sudo" && strings.HasPrefix(cmd.Args[1], "-") && strings.Contains(cmd.Args[1], "S") { // 'sudo -S' gets password from stdin
		input = t.sudo + "\n"
	}
	return runLocalCommandWithInputWithTimeout(cmd, input, timeout)
}

// CreateTempDirectory creates a temporary directory under the specified root directory.
// If the root directory is not specified, the temporary directory will be created in the current directory.
// It returns the path of the created temporary directory and any error encountered.
func (t *LocalTarget) CreateTempDirectory(rootDir string) (tempDir string, err error) {
	if t.tempDir != "" {
		return t.tempDir, nil
	}
	temp, err := os.MkdirTemp(rootDir, "irqtune.tmp.")
	if err != nil {
		return
	}
	tempDir, err = util.AbsPath(temp)
	if err != nil {
		return
	}
	t.tempDir = tempDir
	return
}

// RemoveTempDirectory removes the temporary directory created by CreateTempDirectory.
func (t *LocalTarget) RemoveTempDirectory() (err error) {
	if t.tempDir != "" {
		err = t.RemoveDirectory(t.tempDir)
		if err == nil {
			t.tempDir = ""
		}
	}
	return
}

// GetTempDirectory returns the path of the temporary directory on the target. It will be
// empty if the temporary directory has not been created yet.
func (t *LocalTarget) GetTempDirectory() string {
	return t.tempDir
}

// PushFile copies a file or directory from the source path to the destination path.
// If the source path points to a directory, it creates the corresponding directory
// at the destination and recursively copies its contents. If the source path points
// to a file, it directly copies the file to the destination.
func (t *LocalTarget) PushFile(srcPath string, dstPath string) (err error) {
	srcFileStat, err := os.Stat(srcPath)
	if err != nil {
		return
	}
	if srcFileStat.IsDir() {
		newDstDir := filepath.Join(dstPath, filepath.Base(srcPath))
		err = util.CreateDirectoryIfNotExists(newDstDir, 0700)
		if err != nil {
			return
		}
		err = util.CopyDirectory(srcPath, newDstDir)
		return
	}
	err = util.CopyFile(srcPath, dstPath)
	return
}

// PullFile copies a file from the source path on the local target to the destination directory.
func (t *LocalTarget) PullFile(srcPath string, dstDir string) error {
	return t.PushFile(srcPath, dstDir)
}

// CreateDirectory creates a new directory under the specified base directory.
// It returns the full path of the created directory and any error encountered.
func (t *LocalTarget) CreateDirectory(baseDir string, targetDir string) (dir string, err error) {
	dir = filepath.Join(baseDir, targetDir)
	err = os.Mkdir(dir, 0700)
	return
}

// RemoveDirectory removes the specified target directory.
// If the target directory is not empty, it will be deleted along with all its contents.
// The method returns an error if any error occurs during the removal process.
func (t *LocalTarget) RemoveDirectory(targetDir string) (err error) {
	if targetDir != "" {
		err = os.RemoveAll(targetDir)
	}
	return
}

// CanConnect checks if the local target can establish a connection (always true).
func (t *LocalTarget) CanConnect() bool {
	return true
}

// CanElevatePrivileges (on LocalTarget) checks if the user is root or sudo can be used to elevate privileges.
// It returns true if the user is root or if the sudo password works.
// If the `sudo` command is configured, it will attempt to run a command with sudo
// and check if the password works. If the passwordless sudo is configured,
// it will also check if passwordless sudo works.
// Returns true if the user can elevate privileges, false otherwise.
func (t *LocalTarget) CanElevatePrivileges() bool {
	if t.canElevate != 0 {
		return t.canElevate == 1
	}
	if t.IsSuperUser() {
		t.canElevate = 1
		return true // user is root
	}
	if t.sudo != "" {
		cmd := exec.Command("sudo", "-kS", "ls")
		stdin, _ := cmd.StdinPipe()
		go func() {
			defer stdin.Close()
			_, err := io.WriteString(stdin, t.sudo+"\n")
			if err != nil {
				slog.Error("error writing sudo password", slog.String("error", err.Error()))
			}
		}()
		_, _, _, err := t.RunCommand(cmd, 0, true)
		if err == nil {
			t.canElevate = 1
			return true // sudo password works
		}
	}
	cmd := exec.Command("sudo", "-kS", "ls")
	_, _, _, err := t.RunCommand(cmd, 0, true)
	if err == nil { // true - passwordless sudo works
		t.canElevate = 1
		return true
	}
	t.canElevate = -1
	return false
}

// IsSuperUser checks if the current user is a superuser.
// It returns true if the user is a superuser, false otherwise.
func (t *LocalTarget) IsSuperUser() bool {
	return os.Geteuid() == 0
}

// GetName returns the name of the Target.
func (t *LocalTarget) GetName() (host string) {
	return t.host
}
