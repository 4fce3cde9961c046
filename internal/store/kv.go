package store

import (
	"context"
	"errors"
)

//go:generate mockgen -source=kv.go -destination=mock_kv.go -package=store

// Storage keys. Each holds one JSON document and is written independently.
const (
	KeyCollection  = "collection"
	KeyCustomBooks = "customBooks"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a string-keyed store of opaque values.
//
// Implementations do not interpret the stored bytes; callers own the encoding
// and must tolerate corrupt values. Concurrent writers are not coordinated:
// the last Set wins.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
