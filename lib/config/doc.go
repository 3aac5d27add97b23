// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the Mantle hide daemon configuration.
//
// Configuration comes from a single YAML file named by:
//   - the MANTLE_CONFIG environment variable, or
//   - the --config flag passed to the daemon.
//
// There are no fallbacks or automatic discovery; every unset field
// takes its documented default. This keeps deployments deterministic
// and auditable.
package config
