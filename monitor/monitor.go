// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/mantle-framework/mantle/lib/clock"
)

// Matcher is the hide-list view the monitor consults. Implementations
// must serialize Match against their own mutations.
type Matcher interface {
	// Match reports whether processName is hide-listed.
	Match(processName string) bool
}

// EventSource is the launch-event stream the monitor subscribes to.
type EventSource interface {
	// Register adds ch as a listener for raw event lines.
	Register(ch chan<- string)
	// Deregister removes ch.
	Deregister(ch chan<- string)
}

// Config holds the dependencies and tunables for a Monitor.
type Config struct {
	// HideList is consulted once per parsed launch event.
	HideList Matcher

	// Events delivers raw launch-event lines.
	Events EventSource

	// Proc provides namespace reads, pid lookup, and signals.
	Proc Proc

	// Spawner launches unmount workers for matched targets.
	Spawner Spawner

	// Markers are hidden on the first outstanding match and
	// restored when the last worker completes.
	Markers *Markers

	// WorkerDone delivers one value per worker completion signal.
	// In production this is an os/signal channel subscribed to the
	// worker-done signal; the loop consumes it at its safe point.
	WorkerDone <-chan os.Signal

	// ZygoteNames are the process names of the zygote flavors, most
	// fundamental first. Defaults to ["zygote", "zygote64"]; at most
	// two are tracked.
	ZygoteNames []string

	// ZygotePollInterval is how often the process table is scanned
	// while waiting for the primary zygote. Default 2s.
	ZygotePollInterval time.Duration

	// ZygoteSettleInterval is the pause between namespace samples of
	// a zygote that still reads identical to init. Default 500µs.
	ZygoteSettleInterval time.Duration

	// SampleInterval is the pause between namespace samples during
	// the divergence race. Default 50µs.
	SampleInterval time.Duration

	// RaceTimeout bounds the divergence race per match; when
	// exceeded the match is abandoned. Zero means no bound. Default
	// 500ms.
	RaceTimeout time.Duration

	// EventBuffer is the capacity of the registered event channel.
	// Default 16.
	EventBuffer int

	// Clock defaults to the real clock.
	Clock clock.Clock

	// Logger defaults to discard.
	Logger *slog.Logger
}

// Monitor owns the hide feature's runtime state: the immutable
// namespace identities resolved at startup, the count of outstanding
// unmount workers, and the feature flag. All mutable state is
// confined to the Run goroutine.
type Monitor struct {
	hideList   Matcher
	events     EventSource
	proc       Proc
	spawner    Spawner
	markers    *Markers
	workerDone <-chan os.Signal
	clock      clock.Clock
	logger     *slog.Logger

	zygoteNames          []string
	zygotePollInterval   time.Duration
	zygoteSettleInterval time.Duration
	sampleInterval       time.Duration
	raceTimeout          time.Duration
	eventBuffer          int

	initNS   string
	zygoteNS []string

	// pending counts spawned-but-unfinished workers. Only the Run
	// goroutine touches it.
	pending int

	enabled atomic.Bool
}

// New validates cfg and returns a Monitor ready to Run.
func New(cfg Config) (*Monitor, error) {
	switch {
	case cfg.HideList == nil:
		return nil, fmt.Errorf("monitor: HideList is required")
	case cfg.Events == nil:
		return nil, fmt.Errorf("monitor: Events is required")
	case cfg.Proc == nil:
		return nil, fmt.Errorf("monitor: Proc is required")
	case cfg.Spawner == nil:
		return nil, fmt.Errorf("monitor: Spawner is required")
	case cfg.Markers == nil:
		return nil, fmt.Errorf("monitor: Markers is required")
	case cfg.WorkerDone == nil:
		return nil, fmt.Errorf("monitor: WorkerDone is required")
	}

	m := &Monitor{
		hideList:             cfg.HideList,
		events:               cfg.Events,
		proc:                 cfg.Proc,
		spawner:              cfg.Spawner,
		markers:              cfg.Markers,
		workerDone:           cfg.WorkerDone,
		clock:                cfg.Clock,
		logger:               cfg.Logger,
		zygoteNames:          cfg.ZygoteNames,
		zygotePollInterval:   cfg.ZygotePollInterval,
		zygoteSettleInterval: cfg.ZygoteSettleInterval,
		sampleInterval:       cfg.SampleInterval,
		raceTimeout:          cfg.RaceTimeout,
		eventBuffer:          cfg.EventBuffer,
	}
	if m.clock == nil {
		m.clock = clock.Real()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(m.zygoteNames) == 0 {
		m.zygoteNames = []string{"zygote", "zygote64"}
	}
	if m.zygotePollInterval <= 0 {
		m.zygotePollInterval = 2 * time.Second
	}
	if m.zygoteSettleInterval <= 0 {
		m.zygoteSettleInterval = 500 * time.Microsecond
	}
	if m.sampleInterval <= 0 {
		m.sampleInterval = 50 * time.Microsecond
	}
	if m.raceTimeout == 0 {
		m.raceTimeout = 500 * time.Millisecond
	}
	if m.eventBuffer <= 0 {
		m.eventBuffer = 16
	}
	return m, nil
}

// Enabled reports whether the feature is active: namespaces resolved
// and the receive loop running.
func (m *Monitor) Enabled() bool { return m.enabled.Load() }

// Run discovers the init and zygote namespaces, subscribes to the
// event stream, and processes events until ctx is cancelled. All
// shutdown work happens synchronously here after cancellation is
// observed; nothing runs in signal-handler context.
//
// Run returns ctx's error on cancellation, or the startup error when
// namespace discovery fails (ErrNamespaceUnsupported is fatal to the
// feature).
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.discoverNamespaces(ctx); err != nil {
		return err
	}

	lines := make(chan string, m.eventBuffer)
	m.events.Register(lines)
	m.enabled.Store(true)
	defer func() {
		m.enabled.Store(false)
		m.events.Deregister(lines)
	}()

	m.logger.Info("hide monitor running")

	for {
		select {
		case <-ctx.Done():
			// Already-spawned workers are independent and
			// self-terminating; they resume their own targets.
			m.logger.Info("hide monitor terminating", "pending_workers", m.pending)
			return ctx.Err()

		case line := <-lines:
			event, ok := parseLaunchEvent(line)
			if !ok {
				continue
			}
			if !m.hideList.Match(event.processName) {
				continue
			}
			m.coordinate(ctx, event)

		case <-m.workerDone:
			m.completeWorker()
		}
	}
}

// completeWorker handles one worker completion: it decrements the
// outstanding count and restores the global markers when the count
// drains to zero. A completion with nothing outstanding is logged and
// ignored so the count can never go negative.
func (m *Monitor) completeWorker() {
	if m.pending == 0 {
		m.logger.Warn("worker completion with no outstanding workers")
		return
	}
	m.pending--
	m.logger.Info("unmount worker finished", "pending_workers", m.pending)
	if m.pending == 0 {
		if err := m.markers.Restore(); err != nil {
			m.logger.Error("marker restore failed", "error", err)
		}
	}
}
