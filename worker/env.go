// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package worker

// Environment variables carrying the spawn handoff. They must be set
// before the worker process starts because the namespace join happens
// in a pre-main constructor; the C side of cmd/mantle-hide-worker
// repeats these names as string literals.
const (
	// EnvTargetPID is the pid of the suspended target whose mount
	// namespace is scrubbed.
	EnvTargetPID = "MANTLE_WORKER_TARGET_PID"

	// EnvMonitorPID is the pid the completion signal is sent to.
	EnvMonitorPID = "MANTLE_WORKER_MONITOR_PID"

	// EnvJoinFailed is set to "1" by the constructor when joining
	// the target's mount namespace failed. The worker then skips
	// unmounting but still resumes the target and reports
	// completion.
	EnvJoinFailed = "MANTLE_WORKER_NS_JOIN_FAILED"
)
