// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the polling and grace-delay code
// paths so tests can drive them deterministically.
//
// The hide monitor busy-polls in two places (zygote discovery and the
// namespace-divergence race) and the unmount worker sleeps a grace
// interval before reporting completion. All of them take a [Clock]
// instead of calling the time package directly: production code
// injects [Real], tests inject [Fake] and call Advance.
package clock
