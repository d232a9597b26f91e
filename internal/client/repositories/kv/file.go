package kv

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/dmitrijs2005/noteflow/internal/filex"
	"github.com/fsnotify/fsnotify"
)

var validKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileRepository keeps each key in <dir>/<key>.json.
type FileRepository struct {
	dir string

	mu sync.Mutex
	// digest of the last payload this process wrote per key, so the watcher
	// can tell our own writes from foreign ones
	written map[string][sha256.Size]byte
}

func NewFileRepository(dir string) (*FileRepository, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileRepository{dir: abs, written: make(map[string][sha256.Size]byte)}, nil
}

func (r *FileRepository) path(key string) (string, error) {
	if !validKeyRe.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

func (r *FileRepository) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file[%s]: %w", key, err)
	}
	return data, nil
}

func (r *FileRepository) Set(ctx context.Context, key string, value []byte) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := filex.WriteFileAtomic(p, value, 0o600); err != nil {
		return fmt.Errorf("failed to set file[%s]: %w", key, err)
	}
	r.written[key] = sha256.Sum256(value)
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, key string) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file[%s]: %w", key, err)
	}
	delete(r.written, key)
	return nil
}

func (r *FileRepository) Close() error {
	return nil
}

// isOwnWrite reports whether data is exactly what this process last wrote.
func (r *FileRepository) isOwnWrite(key string, data []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, ok := r.written[key]
	return ok && last == sha256.Sum256(data)
}

// Watch calls onChange whenever the file for key is created, replaced or
// removed by someone other than this repository.
func (r *FileRepository) Watch(ctx context.Context, key string, onChange func()) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", r.dir, err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != p {
					continue
				}

				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange()
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}

				data, err := os.ReadFile(p)
				if err != nil || r.isOwnWrite(key, data) {
					continue
				}
				onChange()

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}
