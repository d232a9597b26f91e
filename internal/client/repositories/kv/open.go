package kv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/noteflow/internal/filex"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverPebble = "pebble"
	DriverFile   = "file"
)

// Open creates the backend named by driver under dir. The sqlite backend
// uses dir/notes.db, pebble uses dir/pebble, and file writes into dir itself.
func Open(ctx context.Context, driver, dir string) (Repository, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverSQLite, "":
		return OpenSQLite(ctx, filepath.Join(root, "notes.db"))
	case DriverPebble:
		return OpenPebble(filepath.Join(root, "pebble"))
	case DriverFile:
		return NewFileRepository(root)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
