// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/mantle-framework/mantle/lib/config"
)

func TestResolveWorkerBinaryConfigured(t *testing.T) {
	got, err := resolveWorkerBinary("/opt/mantle/worker")
	if err != nil {
		t.Fatalf("resolveWorkerBinary: %v", err)
	}
	if got != "/opt/mantle/worker" {
		t.Errorf("resolveWorkerBinary = %q, want configured path", got)
	}
}

func TestResolveWorkerBinaryAutoDetect(t *testing.T) {
	got, err := resolveWorkerBinary("")
	if err != nil {
		t.Fatalf("resolveWorkerBinary: %v", err)
	}
	if filepath.Base(got) != "mantle-hide-worker" {
		t.Errorf("resolveWorkerBinary = %q, want a mantle-hide-worker path", got)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("resolveWorkerBinary = %q, want absolute path", got)
	}
}

func TestWorkerArgs(t *testing.T) {
	cfg := config.Default()
	cfg.Worker.ClearProperties = []string{"persist.mantle.version", "ro.mantle.img"}

	args := workerArgs(cfg)

	for _, want := range [][]string{
		{"--grace", "10s"},
		{"--loop-device-prefix", "/dev/block/loop"},
		{"--cache-mountpoint", "/cache"},
		{"--clear-property", "persist.mantle.version"},
		{"--clear-property", "ro.mantle.img"},
		{"--property-tool", "resetprop"},
		{"--property-tool", "--delete"},
	} {
		i := slices.Index(args, want[0])
		found := false
		for ; i >= 0 && i < len(args)-1; i++ {
			if args[i] == want[0] && args[i+1] == want[1] {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("workerArgs missing %q %q in %v", want[0], want[1], args)
		}
	}
}
