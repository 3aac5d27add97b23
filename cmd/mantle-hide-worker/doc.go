// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Mantle-hide-worker scrubs the framework's mounts out of one target
// process's mount namespace. It is spawned by mantle-hided with the
// target and monitor pids in the environment; a pre-main constructor
// joins the target's mount namespace before the Go runtime spawns its
// threads (setns with CLONE_NEWNS refuses multi-threaded callers).
//
// The worker always resumes the suspended target and always reports
// completion to the monitor, even when the namespace join or the
// unmount phases fail. It is single-purpose and exits when the job is
// done.
package main
