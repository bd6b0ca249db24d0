package host

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"irqtune/internal/target"
)

// Remote is a Host backed by a target reached over SSH. Commands that touch
// privileged kernel control files are run with sudo when the remote user is
// not root.
type Remote struct {
	target  target.Target
	useSudo bool
}

// NewRemote returns a Remote host backed by the given target.
func NewRemote(t target.Target) *Remote {
	return &Remote{
		target:  t,
		useSudo: !t.IsSuperUser() && t.CanElevatePrivileges(),
	}
}

// Name returns the target's name.
func (h *Remote) Name() string {
	return h.target.GetName()
}

func (h *Remote) run(cmd *exec.Cmd) (string, string, int, error) {
	if h.useSudo {
		args := append([]string{"sudo"}, cmd.Args...)
		cmd = exec.Command(args[0], args[1:]...) // #nosec G204
	}
	return h.target.RunCommand(cmd, 0, true)
}

// ReadFile returns the contents of the file at the given path on the target.
func (h *Remote) ReadFile(path string) (string, error) {
	stdout, stderr, exitCode, err := h.run(exec.Command("cat", path)) // #nosec G204
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s on %s (exit %d): %s", path, h.Name(), exitCode, strings.TrimSpace(stderr))
	}
	return stdout, nil
}

// ListDir returns the names of the entries in the directory at the given path
// on the target.
func (h *Remote) ListDir(path string) ([]string, error) {
	stdout, stderr, exitCode, err := h.run(exec.Command("ls", "-1", path)) // #nosec G204
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s on %s (exit %d): %s", path, h.Name(), exitCode, strings.TrimSpace(stderr))
	}
	var names []string
	for line := range strings.SplitSeq(stdout, "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Exists reports whether a file or directory exists at the given path on the
// target.
func (h *Remote) Exists(path string) bool {
	_, _, _, err := h.run(exec.Command("test", "-e", path)) // #nosec G204
	return err == nil
}

// WriteFile writes the given contents to the file at the given path on the
// target.
func (h *Remote) WriteFile(path string, contents string) error {
	sh := fmt.Sprintf("printf '%%s' '%s' > '%s'", contents, path)
	_, stderr, exitCode, err := h.run(exec.Command("sh", "-c", sh)) // #nosec G204
	if err != nil {
		return errors.Wrapf(err, "failed to write %s on %s (exit %d): %s", path, h.Name(), exitCode, strings.TrimSpace(stderr))
	}
	return nil
}
