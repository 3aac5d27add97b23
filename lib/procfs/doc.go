// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package procfs reads the pieces of /proc the hide feature depends
// on: mount-namespace identities (/proc/<pid>/ns/mnt), per-process
// mount tables (/proc/<pid>/mounts), and process lookup by command
// name.
//
// Namespace identity is the resolved symlink target of the ns handle,
// compared by exact string equality: two processes with identical
// targets share a mount namespace.
package procfs
