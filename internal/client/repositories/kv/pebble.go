package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

type PebbleRepository struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a Pebble database in dir.
func OpenPebble(dir string) (*PebbleRepository, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble %s: %w", dir, err)
	}
	return &PebbleRepository{db: db}, nil
}

func (r *PebbleRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, closer, err := r.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pebble[%s]: %w", key, err)
	}
	defer closer.Close()

	// data is only valid until closer is called
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (r *PebbleRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to set pebble[%s]: %w", key, err)
	}
	return nil
}

func (r *PebbleRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete pebble[%s]: %w", key, err)
	}
	return nil
}

func (r *PebbleRepository) Close() error {
	return r.db.Close()
}
