// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Mantle-hide manages the hide list consumed by mantle-hided.
//
// Usage:
//
//	mantle-hide ls                  list hidden process names
//	mantle-hide add <process>       add a process name
//	mantle-hide rm <process>        remove a process name
//	mantle-hide status              show database, target count, daemon state
//
// The list is stored in the daemon's SQLite database. The daemon
// loads it at startup and reloads it on SIGHUP; send SIGHUP to
// mantle-hided after mutating the list to apply changes without a
// restart.
package main
