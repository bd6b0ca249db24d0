/*
Package target provides a way to interact with local and remote systems.
*/
package target

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"os/exec"
)

// Target represents a machine or system where commands can be run.
// Implementations of this interface should provide methods to run
// commands, check connectivity, elevate privileges, and other operations
// that depend on the specific type of target (e.g., local or remote).
type Target interface {
	// CanConnect checks if a connection can be established with the target.
	// It returns true if a connection can be established, false otherwise.
	CanConnect() bool

	// CanElevatePrivileges checks if the current user can elevate privileges.
	// It returns true if the user can elevate privileges, false otherwise.
	CanElevatePrivileges() bool

	// IsSuperUser checks if the current user is a superuser.
	// It returns true if the user is a superuser, false otherwise.
	IsSuperUser() bool

	// GetName returns the name of the target system.
	GetName() (name string)

	// RunCommand runs the specified command on the target.
	// Arguments:
	// - cmd: the command to run
	// - timeout: the maximum time in seconds allowed for the command to run (zero means no timeout)
	// - reuseSSHConnection: whether to reuse the SSH connection for the command (only relevant for RemoteTarget)
	// It returns the standard output, standard error, exit code, and any error that occurred.
	RunCommand(cmd *exec.Cmd, timeout int, reuseSSHConnection bool) (stdout string, stderr string, exitCode int, err error)

	// PushFile transfers a file from the local system to the target.
	// It returns any error that occurred.
	PushFile(srcPath string, dstPath string) error

	// PullFile transfers a file from the target to the local system.
	// It returns any error that occurred.
	PullFile(srcPath string, dstDir string) error

	// CreateDirectory creates a directory on the target at the specified path.
	// It returns the path of the created directory and any error that occurred.
	CreateDirectory(baseDir string, targetDir string) (dir string, err error)

	// CreateTempDirectory creates a temporary directory on the target under the
	// specified root directory. It returns the path of the created directory and
	// any error that occurred.
	CreateTempDirectory(rootDir string) (tempDir string, err error)

	// GetTempDirectory returns the path of the temporary directory on the target. It will be
	// empty if the temporary directory has not been created yet.
	GetTempDirectory() string

	// RemoveTempDirectory removes the temporary directory on the target.
	// It returns any error that occurred.
	RemoveTempDirectory() error

	// RemoveDirectory removes a directory from the target at the specified path.
	// It returns any error that occurred.
	RemoveDirectory(targetDir string) error
}

// LocalTarget is the host this process is running on.
type LocalTarget struct {
	host       string
	sudo       string
	tempDir    string
	canElevate int // zero indicates unknown, 1 indicates yes, -1 indicates no
}

// RemoteTarget is a host reached over SSH.
type RemoteTarget struct {
	name        string
	host        string
	port        string
	user        string
	key         string
	sshPass     string
	sshpassPath string
	tempDir     string
	canElevate  int
}

// NewLocalTarget creates a new LocalTarget
func NewLocalTarget() *LocalTarget {
	hostName, err := os.Hostname()
	if err != nil {
		hostName = "localhost"
	}
	t := &LocalTarget{
		host: hostName,
	}
	return t
}

// NewRemoteTarget creates a new RemoteTarget instance with the provided parameters.
// It initializes the RemoteTarget struct and returns a pointer to it.
func NewRemoteTarget(name string, host string, port string, user string, key string) *RemoteTarget {
	t := &RemoteTarget{
		name: name,
		host: host,
		port: port,
		user: user,
		key:  key,
	}
	return t
}
