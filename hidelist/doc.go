// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package hidelist stores the set of process names the hide monitor
// acts on.
//
// The set is persisted in the framework's SQLite database and mirrored
// into a mutex-guarded in-memory list. The monitor calls [Store.Match]
// on every launch event, which takes the lock and scans linearly;
// mutations from the operator CLI go through the same lock, so the
// monitor never observes a half-applied update.
package hidelist
