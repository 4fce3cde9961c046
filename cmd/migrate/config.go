package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"crannies/internal/config"
	"crannies/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// migrationsDir is the on-disk directory new migrations are created in.
func migrationsDir(driver string) string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("db", "migrations", driver)
}

// openDB opens a database/sql handle for the relational drivers. The
// returned func releases everything openDB acquired.
func openDB(ctx context.Context, cfg config.StoreConfig) (*sql.DB, func(), error) {
	switch cfg.Driver {
	case store.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database (%s): %w", store.RedactDSN(cfg.DSN), err)
		}
		conn := stdlib.OpenDBFromPool(pool)
		return conn, func() {
			_ = conn.Close()
			pool.Close()
		}, nil
	case store.DriverSQLite:
		conn, err := store.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { _ = conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("driver %q has no migrations; use postgres or sqlite", cfg.Driver)
	}
}
