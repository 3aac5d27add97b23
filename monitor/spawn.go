// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/mantle-framework/mantle/worker"
)

// WorkerTarget identifies one unmount job: the suspended app process
// and the monitor pid the worker reports completion to.
type WorkerTarget struct {
	PID        int
	MonitorPID int
}

// Spawner launches unmount workers. The worker must be an independent
// process image: joining another process's mount namespace is not
// supported from a thread of a multi-threaded process, so the job can
// never run on a goroutine of the monitor's host.
type Spawner interface {
	Spawn(target WorkerTarget) error
}

// ExecSpawner launches the mantle-hide-worker binary. The target pids
// travel in the environment because the worker's namespace join runs
// in a pre-main constructor, before flag parsing is possible.
type ExecSpawner struct {
	// BinaryPath is the worker executable.
	BinaryPath string

	// Args are extra worker arguments (tunables from the daemon
	// config), appended verbatim.
	Args []string

	// Logger receives spawn and reap diagnostics. If nil, discarded.
	Logger *slog.Logger
}

// Spawn starts one worker and reaps it in the background. The worker
// is self-terminating; nothing here waits for its result beyond
// collecting the exit status to avoid zombies.
func (s *ExecSpawner) Spawn(target WorkerTarget) error {
	cmd := exec.Command(s.BinaryPath, s.Args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("%s=%d", worker.EnvTargetPID, target.PID),
		fmt.Sprintf("%s=%d", worker.EnvMonitorPID, target.MonitorPID),
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", s.BinaryPath, err)
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Info("unmount worker spawned", "worker_pid", cmd.Process.Pid, "target_pid", target.PID)

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("unmount worker exited abnormally", "worker_pid", cmd.Process.Pid, "error", err)
		}
	}()
	return nil
}
