// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package hidelist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/mantle-framework/mantle/lib/sqlitepool"
)

// Config holds the parameters for opening a hide-list store.
type Config struct {
	// Path is the SQLite database file. Created if absent; the
	// parent directory must exist. ":memory:" works for tests with
	// PoolSize 1.
	Path string

	// PoolSize is the number of pooled connections. Defaults to 2:
	// one for the monitor's startup load, one for CLI mutations.
	PoolSize int

	// Logger receives operational messages. If nil, discarded.
	Logger *slog.Logger
}

// Store is the hide-list: a persisted set of process names with a
// locked in-memory view. Safe for concurrent use.
type Store struct {
	pool   *sqlitepool.Pool
	logger *slog.Logger

	mu    sync.Mutex
	names []string
}

// Open opens (creating if needed) the hide-list database and loads
// the current set of names into memory. The caller must Close the
// store when done.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("hidelist: Path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 2
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: poolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, `
				CREATE TABLE IF NOT EXISTS hide_targets (
					process_name TEXT PRIMARY KEY
				);
			`, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("hidelist: opening %s: %w", cfg.Path, err)
	}

	store := &Store{pool: pool, logger: logger}
	if err := store.load(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("hide list loaded", "path", cfg.Path, "targets", len(store.names))
	return store, nil
}

// Reload replaces the in-memory view with the current database
// contents. The daemon calls this on SIGHUP so hide-list changes made
// by the CLI (a separate process on the same database) take effect
// without a restart.
func (s *Store) Reload(ctx context.Context) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	count := len(s.names)
	s.mu.Unlock()
	s.logger.Info("hide list reloaded", "targets", count)
	return nil
}

// load replaces the in-memory view with the database contents.
func (s *Store) load(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	var names []string
	err = sqlitex.Execute(conn, "SELECT process_name FROM hide_targets ORDER BY process_name", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("hidelist: loading targets: %w", err)
	}

	s.mu.Lock()
	s.names = names
	s.mu.Unlock()
	return nil
}

// Match reports whether name is in the hide list. The scan holds the
// list lock for its duration, serializing against mutations.
func (s *Store) Match(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, candidate := range s.names {
		if candidate == name {
			return true
		}
	}
	return false
}

// Add inserts name into the list. Adding a name that is already
// present is a no-op.
func (s *Store) Add(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("hidelist: empty process name")
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, "INSERT OR IGNORE INTO hide_targets (process_name) VALUES (?)", &sqlitex.ExecOptions{
		Args: []any{name},
	})
	if err != nil {
		return fmt.Errorf("hidelist: adding %q: %w", name, err)
	}

	s.mu.Lock()
	if !slices.Contains(s.names, name) {
		s.names = append(s.names, name)
		slices.Sort(s.names)
	}
	s.mu.Unlock()

	s.logger.Info("hide target added", "process_name", name)
	return nil
}

// Remove deletes name from the list. Removing an absent name is a
// no-op.
func (s *Store) Remove(ctx context.Context, name string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, "DELETE FROM hide_targets WHERE process_name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
	})
	if err != nil {
		return fmt.Errorf("hidelist: removing %q: %w", name, err)
	}

	s.mu.Lock()
	if i := slices.Index(s.names, name); i >= 0 {
		s.names = slices.Delete(s.names, i, i+1)
	}
	s.mu.Unlock()

	s.logger.Info("hide target removed", "process_name", name)
	return nil
}

// List returns a sorted copy of the current names.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.names)
}

// Close releases the database pool. The in-memory view stays readable
// so a shutting-down monitor can finish its final event without a nil
// check, but mutations after Close fail.
func (s *Store) Close() error {
	return s.pool.Close()
}
