// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package worker performs the namespace-scoped mount surgery for one
// suspended target process.
//
// A worker runs to completion inside its own process image
// (cmd/mantle-hide-worker): a pre-main constructor joins the target's
// mount namespace, then [Runner.Run] reads the target's mount table,
// lazily detaches every framework mount, resumes the target, and
// reports completion to the monitor with a signal.
//
// The unmount scope is exactly: cache-device-backed mounts under
// /system/ and /vendor/, tmpfs skeletons at /system, /vendor, and
// /sbin, and loop-device-backed mounts. Lazy/detach mode is used
// throughout so a busy mountpoint never blocks the worker.
package worker
