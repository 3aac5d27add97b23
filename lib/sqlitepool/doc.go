// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the Mantle-standard SQLite connection
// pool. The hide list and any other on-device structured storage go
// through this package.
//
// It wraps zombiezen.com/go/sqlite with defaults tuned for small
// databases on device storage: WAL journal mode, NORMAL synchronous
// for process-crash durability without fsync-per-commit overhead, and
// a busy timeout so concurrent writers (daemon and CLI on the same
// file) back off instead of failing with SQLITE_BUSY.
//
// The pool is built on zombiezen's sqlitex.Pool, which manages a
// fixed-size set of connections. Callers [Pool.Take] a connection,
// perform work, and [Pool.Put] it back. Connections are NOT safe for
// concurrent use — each goroutine must hold its own connection for
// the duration of its work.
//
// # Pragmas
//
// Every connection in the pool is initialized with these pragmas:
//
//   - journal_mode=WAL: write-ahead logging so the daemon's reads
//     never block on a CLI write to the same database.
//   - synchronous=NORMAL: transactions survive process crashes. Not
//     durable across kernel panics or power loss — acceptable because
//     the hide list is operator-managed and trivially recreated.
//   - busy_timeout=5000: wait up to 5 seconds for a write lock instead
//     of returning SQLITE_BUSY immediately.
//   - foreign_keys=OFF: Mantle schemas are flat; no cascades wanted.
//   - cache_size=-2048: 2 MB page cache per connection, sized for
//     device memory budgets.
//   - temp_store=MEMORY: temporary tables and indexes in memory.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:     "/data/mantle/mantle.db",
//	    PoolSize: 2,
//	    Logger:   logger,
//	    OnConnect: func(conn *sqlite.Conn) error {
//	        return sqlitex.ExecuteScript(conn, schema, nil)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Put(conn)
package sqlitepool
