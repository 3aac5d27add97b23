// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package logwatch

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mantle-framework/mantle/lib/testutil"
)

func TestDispatchFiltersByTag(t *testing.T) {
	lines := strings.NewReader(
		"am_proc_start: [0,4321,1000,1000,com.evil.app,0,0]\n" +
			"am_kill: [0,99,something]\n" +
			"am_proc_start: [0,5555,1000,com.other.app]\n")

	watcher, err := New(Config{Reader: lines, Tag: "am_proc_start"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events := make(chan string, 8)
	watcher.Register(events)

	done := make(chan error, 1)
	go func() { done <- watcher.Run(context.Background()) }()

	first := testutil.RequireReceive(t, events, 5*time.Second, "first event")
	if !strings.Contains(first, "4321") {
		t.Errorf("first event = %q, want the pid 4321 line", first)
	}
	second := testutil.RequireReceive(t, events, 5*time.Second, "second event")
	if !strings.Contains(second, "5555") {
		t.Errorf("second event = %q, want the pid 5555 line", second)
	}

	if err := testutil.RequireReceive(t, done, 5*time.Second, "run exit"); err != nil {
		t.Errorf("Run = %v, want nil on stream end", err)
	}

	select {
	case extra := <-events:
		t.Errorf("unexpected extra event %q; am_kill should have been filtered", extra)
	default:
	}
}

func TestDeregisterStopsDelivery(t *testing.T) {
	reader, writer := io.Pipe()
	watcher, err := New(Config{Reader: reader})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events := make(chan string, 1)
	watcher.Register(events)

	done := make(chan error, 1)
	go func() { done <- watcher.Run(context.Background()) }()

	if _, err := io.WriteString(writer, "line one\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	testutil.RequireReceive(t, events, 5*time.Second, "line before deregister")

	watcher.Deregister(events)
	if _, err := io.WriteString(writer, "line two\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	writer.Close()
	testutil.RequireReceive(t, done, 5*time.Second, "run exit")

	select {
	case line := <-events:
		t.Errorf("received %q after Deregister", line)
	default:
	}
}

func TestFullListenerDropsInsteadOfBlocking(t *testing.T) {
	lines := strings.NewReader("one\ntwo\nthree\n")
	watcher, err := New(Config{Reader: lines})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Capacity 1 and never drained: the second and third lines must
	// be dropped without stalling the scan loop.
	events := make(chan string, 1)
	watcher.Register(events)

	done := make(chan error, 1)
	go func() { done <- watcher.Run(context.Background()) }()
	testutil.RequireReceive(t, done, 5*time.Second, "run exit")

	if got := watcher.Dropped(); got != 2 {
		t.Errorf("Dropped = %d, want 2", got)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New with no source = nil error, want error")
	}
}
