// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package sysprops

import (
	"context"
	"testing"
)

func TestClearNoProperties(t *testing.T) {
	if err := Clear(context.Background(), Config{}); err != nil {
		t.Errorf("Clear with no properties = %v, want nil", err)
	}
}

func TestClearInvokesTool(t *testing.T) {
	err := Clear(context.Background(), Config{
		Tool:       []string{"true"},
		Properties: []string{"persist.mantle.version", "ro.mantle.img"},
	})
	if err != nil {
		t.Errorf("Clear = %v, want nil", err)
	}
}

func TestClearContinuesPastFailures(t *testing.T) {
	err := Clear(context.Background(), Config{
		Tool:       []string{"false"},
		Properties: []string{"a", "b"},
	})
	if err == nil {
		t.Fatal("Clear with failing tool = nil, want error")
	}
	// Both deletions must have been attempted; errors.Join keeps one
	// entry per failure.
	if got := len(err.(interface{ Unwrap() []error }).Unwrap()); got != 2 {
		t.Errorf("joined failures = %d, want 2", got)
	}
}
