package kv

import (
	"context"
	"io"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	io.Closer
}

// Watcher is implemented by backends that can report writes made outside
// this process. onChange runs on a background goroutine until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, key string, onChange func()) error
}

// Historian is implemented by backends that keep the value a Set replaced.
type Historian interface {
	Previous(ctx context.Context, key string) ([]byte, error)
}
