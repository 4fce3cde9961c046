package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crannies/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	// DSN is the SQLite file path or the Postgres connection string.
	DSN string
	// BadgerPath is the Badger data directory; empty means in-memory.
	BadgerPath string
	Timeout    time.Duration
}

// Open builds the KV named by opts.Driver. SQLite databases are migrated on
// open; Postgres expects cmd/migrate to have been run.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemoryKV(), nil
	case DriverBadger:
		return NewBadgerKV(opts.BadgerPath)
	case DriverSQLite:
		conn, err := OpenSQLite(opts.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Up(conn, DriverSQLite); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return NewSQLiteKV(conn, opts.Timeout), nil
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("cannot create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(opts.DSN), err)
		}
		return NewPostgresKV(pool, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// RedactDSN hides the credentials of a URL-style connection string.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
