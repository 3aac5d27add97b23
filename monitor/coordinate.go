// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"

	"golang.org/x/sys/unix"
)

// coordinate drives one matched launch event through the suspension
// sequence: race the target's namespace separation, freeze it, hide
// the global markers, and hand it to an unmount worker.
//
// Failures before the freeze abandon the match silently (the target
// exited, or separation never happened within the race bound); the
// monitor returns to watching. Failures after the freeze must not
// leave the target suspended, so a spawn failure resumes it here.
func (m *Monitor) coordinate(ctx context.Context, event launchEvent) {
	ns, ok := m.awaitSeparation(ctx, event.pid)
	if !ok {
		return
	}

	// Freeze ASAP: every instruction the target executes before the
	// stop is a chance for it to observe the mounts.
	if err := m.proc.Signal(event.pid, unix.SIGSTOP); err != nil {
		m.logger.Debug("suspend failed, target gone", "pid", event.pid, "error", err)
		return
	}

	m.logger.Info("target suspended",
		"process_name", event.processName,
		"pid", event.pid,
		"ns", ns,
	)

	if err := m.markers.Hide(); err != nil {
		m.logger.Error("marker hide failed", "error", err)
	}
	m.pending++

	if err := m.spawner.Spawn(WorkerTarget{PID: event.pid, MonitorPID: unix.Getpid()}); err != nil {
		m.logger.Error("worker spawn failed", "pid", event.pid, "error", err)
		// The worker would have resumed the target and reported
		// completion; with no worker, do both inline.
		if err := m.proc.Signal(event.pid, unix.SIGCONT); err != nil {
			m.logger.Warn("resume after spawn failure", "pid", event.pid, "error", err)
		}
		m.completeWorker()
	}
}

// awaitSeparation samples pid's mount namespace until it differs from
// every zygote namespace, sleeping sampleInterval between reads. It
// returns the separated namespace identity.
//
// A read failure means the target already exited; exceeding the race
// bound means it hung mid-startup. Both abandon the match with no
// error surfaced.
func (m *Monitor) awaitSeparation(ctx context.Context, pid int) (string, bool) {
	deadline := m.clock.Now().Add(m.raceTimeout)
	for {
		ns, err := m.proc.MountNamespace(pid)
		if err != nil {
			m.logger.Debug("namespace read failed, target gone", "pid", pid, "error", err)
			return "", false
		}
		if !m.isZygoteNamespace(ns) {
			return ns, true
		}
		if m.raceTimeout > 0 && !m.clock.Now().Before(deadline) {
			m.logger.Warn("namespace separation race timed out", "pid", pid, "timeout", m.raceTimeout)
			return "", false
		}
		select {
		case <-ctx.Done():
			return "", false
		case <-m.clock.After(m.sampleInterval):
		}
	}
}
