package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteKV stores values in the kv_entries table of a SQLite database.
// The schema is created by the goose migrations under db/migrations/sqlite.
type SQLiteKV struct {
	db      *sql.DB
	timeout time.Duration
}

// OpenSQLite opens the database file at dsn with the pure-Go modernc driver.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writers serialised; SQLite locks the whole file anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}
	return db, nil
}

func NewSQLiteKV(db *sql.DB, timeout time.Duration) *SQLiteKV {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &SQLiteKV{db: db, timeout: timeout}
}

func (r *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select kv %s: %w", key, err)
	}
	return []byte(value), nil
}

func (r *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	const upsertSQL = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, upsertSQL, key, string(value)); err != nil {
		return fmt.Errorf("upsert kv %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteKV) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteKV) Close() error {
	return r.db.Close()
}
