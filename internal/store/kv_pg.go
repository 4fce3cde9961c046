package store

// KV implementation (Postgres)

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresKV struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresKV(db *pgxpool.Pool, timeout time.Duration) *PostgresKV {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PostgresKV{db: db, timeout: timeout}
}

func (r *PostgresKV) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_entries WHERE key = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var value string
	err := r.db.QueryRow(timeoutCtx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select kv %s: %w", key, err)
	}
	return []byte(value), nil
}

func (r *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	const upsertSQL = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Exec(timeoutCtx, upsertSQL, key, string(value)); err != nil {
		return fmt.Errorf("upsert kv %s: %w", key, err)
	}
	return nil
}

func (r *PostgresKV) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func (r *PostgresKV) Close() error {
	r.db.Close()
	return nil
}
