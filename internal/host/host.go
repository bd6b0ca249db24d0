/*
Package host abstracts the pieces of a Linux host's /proc and /sys file systems
that the affinity tooling reads and writes. Implementations exist for the local
host and for remote hosts reached through a target. Tests substitute a local
host rooted at a fixture directory.
*/
package host

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Host provides access to host state files, e.g., /proc/interrupts and the
// per-IRQ control files under /proc/irq. Paths are absolute paths as seen on
// the host.
type Host interface {
	// Name returns the host's name for logging and report headings.
	Name() string

	// ReadFile returns the contents of the file at the given path.
	ReadFile(path string) (string, error)

	// ListDir returns the names of the entries in the directory at the given
	// path, in directory listing order.
	ListDir(path string) ([]string, error)

	// Exists reports whether a file or directory exists at the given path.
	Exists(path string) bool

	// WriteFile writes the given contents to the file at the given path. The
	// file must already exist, kernel control files are never created.
	WriteFile(path string, contents string) error
}

// Local is a Host backed by the local machine's file systems. A non-default
// root directory may be set to read fixture data instead of live kernel state.
type Local struct {
	root string
	name string
}

// NewLocal returns a Local host rooted at the real file system.
func NewLocal() *Local {
	hostName, err := os.Hostname()
	if err != nil {
		hostName = "localhost"
	}
	return &Local{root: "/", name: hostName}
}

// NewLocalAt returns a Local host that resolves all paths beneath the given
// root directory.
func NewLocalAt(root string) *Local {
	return &Local{root: root, name: "localhost"}
}

// Name returns the host's name.
func (h *Local) Name() string {
	return h.name
}

func (h *Local) resolve(path string) string {
	return filepath.Join(h.root, path)
}

// ReadFile returns the contents of the file at the given path.
func (h *Local) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(h.resolve(path)) // #nosec G304
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

// ListDir returns the names of the entries in the directory at the given path.
func (h *Local) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(h.resolve(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", path)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// Exists reports whether a file or directory exists at the given path.
func (h *Local) Exists(path string) bool {
	_, err := os.Stat(h.resolve(path))
	return err == nil
}

// WriteFile writes the given contents to the file at the given path.
func (h *Local) WriteFile(path string, contents string) error {
	f, err := os.OpenFile(h.resolve(path), os.O_WRONLY|os.O_TRUNC, 0) // #nosec G304
	if err != nil {
		return errors.Wrapf(err, "failed to open %s for writing", path)
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
