// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package logwatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// Config holds the parameters for creating a Watcher.
type Config struct {
	// Command is the log reader command line, e.g.
	// ["logcat", "-b", "events", "-v", "raw", "-s", "am_proc_start"].
	// Ignored when Reader is set.
	Command []string

	// Reader overrides Command with a direct line source. Used by
	// tests and by hosts that already own the log stream.
	Reader io.Reader

	// Tag filters lines: only lines containing Tag are dispatched.
	// Empty dispatches every line.
	Tag string

	// Logger receives operational messages. If nil, discarded.
	Logger *slog.Logger
}

// Watcher tails a launch-event stream and dispatches matching lines
// to registered listener channels. Safe for concurrent use.
type Watcher struct {
	command []string
	reader  io.Reader
	tag     string
	logger  *slog.Logger

	mu        sync.Mutex
	listeners map[chan<- string]struct{}
	dropped   uint64
}

// New creates a Watcher. Run must be called to start the tail loop.
func New(cfg Config) (*Watcher, error) {
	if cfg.Reader == nil && len(cfg.Command) == 0 {
		return nil, fmt.Errorf("logwatch: either Command or Reader is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		command:   cfg.Command,
		reader:    cfg.Reader,
		tag:       cfg.Tag,
		logger:    logger,
		listeners: make(map[chan<- string]struct{}),
	}, nil
}

// Register adds ch as a listener. Every subsequent matching line is
// sent to ch; sends that would block are dropped.
func (w *Watcher) Register(ch chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners[ch] = struct{}{}
}

// Deregister removes ch. The watcher never closes listener channels;
// ownership stays with the registrant.
func (w *Watcher) Deregister(ch chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.listeners, ch)
}

// Dropped returns the number of lines discarded because a listener's
// channel was full.
func (w *Watcher) Dropped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

// Run tails the stream until it ends or ctx is cancelled. With a
// configured command, cancellation kills the reader process; the
// resulting exit error is swallowed when ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.reader != nil {
		return w.scan(ctx, w.reader)
	}

	cmd := exec.CommandContext(ctx, w.command[0], w.command[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("logwatch: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("logwatch: starting %q: %w", w.command[0], err)
	}
	w.logger.Info("log watcher started", "command", strings.Join(w.command, " "), "pid", cmd.Process.Pid)

	scanErr := w.scan(ctx, stdout)
	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if scanErr != nil {
		return scanErr
	}
	if waitErr != nil {
		return fmt.Errorf("logwatch: reader command exited: %w", waitErr)
	}
	return errors.New("logwatch: event stream ended")
}

// scan reads lines from r and dispatches the ones matching the tag.
func (w *Watcher) scan(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Text()
		if w.tag != "" && !strings.Contains(line, w.tag) {
			continue
		}
		w.dispatch(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("logwatch: reading event stream: %w", err)
	}
	return nil
}

// dispatch sends line to every listener without blocking.
func (w *Watcher) dispatch(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.listeners {
		select {
		case ch <- line:
		default:
			w.dropped++
			w.logger.Warn("listener full, event line dropped", "dropped_total", w.dropped)
		}
	}
}
