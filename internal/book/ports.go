package book

import (
	"context"
)

// Storage is the slice of store.KV the book store needs.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
