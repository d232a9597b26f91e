// Package store persists the whole note collection under a single key of a
// kv.Repository.
//
// Loading never fails: a missing, unreadable or corrupt payload is logged and
// treated as an empty collection. Saving is best effort: failures are logged
// and returned, and callers on the UI path may ignore them.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/client/repositories/kv"
	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/logging"
)

// NotesKey is the storage key holding the serialized collection.
const NotesKey = "noteflow_notes"

type NoteStore struct {
	repo kv.Repository
	log  logging.Logger
}

func NewNoteStore(repo kv.Repository, l logging.Logger) *NoteStore {
	return &NoteStore{repo: repo, log: l.With("module", "store")}
}

// Load returns the persisted notes in stored order. Encrypted notes always
// come back locked. Records repeating an earlier id are dropped.
func (s *NoteStore) Load(ctx context.Context) []*models.Note {
	data, err := s.repo.Get(ctx, NotesKey)
	if err != nil {
		s.log.Error(ctx, "failed to read notes, starting empty", "error", err)
		return []*models.Note{}
	}
	if data == nil {
		return []*models.Note{}
	}

	notes, err := s.decode(ctx, data)
	if err != nil {
		s.log.Warn(ctx, "stored notes are corrupt, starting empty", "error", err, "bytes", len(data))
		return []*models.Note{}
	}

	s.log.Debug(ctx, "notes loaded", "count", len(notes))
	return notes
}

// decode turns a payload into notes, dropping records that repeat an
// earlier id.
func (s *NoteStore) decode(ctx context.Context, data []byte) ([]*models.Note, error) {
	records, err := models.DecodeCollection(data)
	if err != nil {
		return nil, err
	}

	notes := make([]*models.Note, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		n := models.FromRecord(r)
		if _, dup := seen[n.ID]; dup {
			s.log.Warn(ctx, "dropping note with duplicate id", "id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		notes = append(notes, n)
	}
	return notes, nil
}

// LoadPrevious returns the collection as it was before the latest Save.
// Unlike Load it reports failures: errors.ErrUnsupported when the backend
// keeps no history, common.ErrorNotFound when nothing was replaced yet.
func (s *NoteStore) LoadPrevious(ctx context.Context) ([]*models.Note, error) {
	h, ok := s.repo.(kv.Historian)
	if !ok {
		return nil, fmt.Errorf("store keeps no previous version: %w", errors.ErrUnsupported)
	}

	data, err := h.Previous(ctx, NotesKey)
	if err != nil {
		s.log.Error(ctx, "failed to read previous notes", "error", err)
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("no previous version: %w", common.ErrorNotFound)
	}

	notes, err := s.decode(ctx, data)
	if err != nil {
		s.log.Warn(ctx, "previous notes are corrupt", "error", err, "bytes", len(data))
		return nil, fmt.Errorf("previous version is corrupt: %w", err)
	}
	return notes, nil
}

// Save serializes the full collection and overwrites the stored value. If
// any note cannot be converted, nothing is written.
func (s *NoteStore) Save(ctx context.Context, notes []*models.Note) error {
	records := make([]models.Record, 0, len(notes))
	for _, n := range notes {
		r, err := n.ToRecord()
		if err != nil {
			s.log.Error(ctx, "failed to save notes", "error", err)
			return err
		}
		records = append(records, r)
	}

	data, err := json.Marshal(models.Collection{Notes: records})
	if err != nil {
		s.log.Error(ctx, "failed to save notes", "error", err)
		return fmt.Errorf("marshal notes: %w", err)
	}

	if err := s.repo.Set(ctx, NotesKey, data); err != nil {
		s.log.Error(ctx, "failed to save notes", "error", err)
		return err
	}

	s.log.Debug(ctx, "notes saved", "count", len(records), "bytes", len(data))
	return nil
}

// Watch forwards external changes of the stored collection to onChange when
// the backend supports it. It reports whether watching was started.
func (s *NoteStore) Watch(ctx context.Context, onChange func()) (bool, error) {
	w, ok := s.repo.(kv.Watcher)
	if !ok {
		return false, nil
	}
	if err := w.Watch(ctx, NotesKey, onChange); err != nil {
		return false, err
	}
	return true, nil
}

func (s *NoteStore) Close() error {
	return s.repo.Close()
}
