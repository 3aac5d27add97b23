// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeNow(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(start)

	if got := fake.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	fake.Advance(5 * time.Second)
	if got := fake.Now(); !got.Equal(start.Add(5 * time.Second)) {
		t.Errorf("Now() after Advance = %v, want %v", got, start.Add(5*time.Second))
	}
}

func TestFakeAfterFiresAtDeadline(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ch := fake.After(3 * time.Second)

	fake.Advance(2 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}

	fake.Advance(1 * time.Second)
	select {
	case <-ch:
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeSleepBlocksUntilAdvance(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	done := make(chan struct{})

	go func() {
		fake.Sleep(10 * time.Millisecond)
		close(done)
	}()

	fake.WaitForTimers(1)
	select {
	case <-done:
		t.Fatal("Sleep returned before the clock advanced")
	default:
	}

	fake.Advance(10 * time.Millisecond)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sleep did not return after Advance")
	}
}

func TestFakeTickerFiresPerInterval(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	fake.Advance(time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after one interval")
	}

	// A multi-interval advance fires once per interval, but the
	// buffer holds one tick, so extras are dropped.
	fake.Advance(3 * time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after a multi-interval advance")
	}
}

func TestFakeTickerStop(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ticker := fake.NewTicker(time.Second)
	ticker.Stop()

	fake.Advance(5 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}
