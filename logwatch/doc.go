// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package logwatch tails the platform's launch-event log stream and
// fans raw event lines out to registered listeners.
//
// On-device the stream is the event log buffer filtered to process
// start records; the watcher runs the configured reader command and
// scans its stdout line by line. Listeners register a channel and
// receive one raw line per event. A listener that cannot keep up has
// lines dropped (and counted) rather than stalling the tail loop.
package logwatch
