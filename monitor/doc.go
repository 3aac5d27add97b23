// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitor implements the hide feature's core loop: it watches
// launch events, and when a hide-listed application starts, it wins a
// race against the app's startup, freezes it, hides the framework's
// on-disk markers, and hands the process to an unmount worker that
// scrubs the framework's mounts from the app's private mount
// namespace.
//
// The race exists because every app is forked from a zygote process
// and performs its own unshare shortly after: until that unshare, the
// app still shares the zygote's mount namespace and unmounting there
// would strip the whole system. The monitor samples the app's
// namespace identity until it differs from every known zygote
// namespace, then suspends it before its own code runs meaningfully.
//
// The namespace join that follows is not possible on a thread of a
// multi-threaded process, so the actual unmounting runs in a freshly
// spawned single-purpose worker binary (see the worker package and
// cmd/mantle-hide-worker). Workers report completion back with a
// signal; the monitor counts outstanding workers and restores the
// on-disk markers once the count drains to zero.
package monitor
