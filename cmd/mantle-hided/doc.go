// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Mantle-hided is the hide daemon. It tails the platform launch-event
// log, and when a hide-listed application starts it races the app's
// mount-namespace split, suspends the app, hides the framework's
// global on-disk markers, and spawns a mantle-hide-worker process to
// scrub the framework's mounts out of the app's namespace. The worker
// resumes the app and reports back; when the last outstanding worker
// finishes, the markers are restored.
//
// The daemon runs as root on the device. Configuration comes from a
// single YAML file (see lib/config); the hide list lives in a SQLite
// database shared with the mantle-hide CLI.
package main
