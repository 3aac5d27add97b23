// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/mantle-framework/mantle/lib/procfs"
)

// Proc abstracts process inspection and signaling so the monitor's
// timing-sensitive paths can be tested without live processes.
type Proc interface {
	// MountNamespace returns pid's mount-namespace identity. An
	// error means the process is gone (or, for pid 1 at startup,
	// that the kernel lacks namespace support).
	MountNamespace(pid int) (string, error)

	// PidsByName returns the pids whose command name equals name.
	PidsByName(name string) ([]int, error)

	// Signal sends sig to pid.
	Signal(pid int, sig syscall.Signal) error
}

// SystemProc returns the Proc implementation backed by /proc and
// kill(2).
func SystemProc() Proc { return systemProc{} }

type systemProc struct{}

func (systemProc) MountNamespace(pid int) (string, error) {
	return procfs.MountNamespace(pid)
}

func (systemProc) PidsByName(name string) ([]int, error) {
	return procfs.PidsByName(name)
}

func (systemProc) Signal(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}
