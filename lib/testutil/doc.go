// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Mantle packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. They are
// the only place the test suite uses real wall-clock timeouts; all
// production timing goes through lib/clock.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
