// Package sqlitedb owns the single-file SQLite database that stores
// users, workflows and payments. It wraps zombiezen.com/go/sqlite with a
// fixed-size connection pool, WAL-mode pragmas and schema creation on
// connect. Connections are not safe for concurrent use: callers Take one,
// do their work, and Put it back.
package sqlitedb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Config holds the parameters for opening the database. Path is required;
// use ":memory:" with PoolSize 1 for tests.
type Config struct {
	Path     string
	PoolSize int
}

// Pool is a fixed-size pool of SQLite connections sharing one database
// file. Safe for concurrent use.
type Pool struct {
	inner *sqlitex.Pool
	path  string
}

// Open creates the pool, applies pragmas to every connection and creates
// the application schema if it does not exist. The caller must Close the
// pool when done.
func Open(cfg Config) (*Pool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitedb: Path is required")
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	inner, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitedb: opening %s: %w", cfg.Path, err)
	}

	log.Info().Str("path", cfg.Path).Int("pool_size", poolSize).Msg("sqlite pool opened")

	return &Pool{inner: inner, path: cfg.Path}, nil
}

// Take borrows a connection from the pool, blocking until one is
// available or ctx is cancelled. The caller must Put it back, typically
// via defer.
func (p *Pool) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.inner.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlitedb: take: %w", err)
	}
	return conn, nil
}

// Put returns a connection to the pool. Safe to call with nil.
func (p *Pool) Put(conn *sqlite.Conn) {
	p.inner.Put(conn)
}

// Close closes all connections. Blocks until borrowed connections are
// returned.
func (p *Pool) Close() error {
	if err := p.inner.Close(); err != nil {
		return fmt.Errorf("sqlitedb: closing %s: %w", p.path, err)
	}
	log.Info().Str("path", p.path).Msg("sqlite pool closed")
	return nil
}

func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlitedb: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("sqlitedb: creating schema: %w", err)
	}
	return nil
}
