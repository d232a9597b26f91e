// Package services implements the client-side use cases: the note session
// (selection, editing, per-note encryption) and the AI helpers that act on
// the selected note.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/logging"
)

// now is a test seam for timestamps.
var now = time.Now

// NoteStore is the persistence the session writes through to.
type NoteStore interface {
	Load(ctx context.Context) []*models.Note
	Save(ctx context.Context, notes []*models.Note) error
}

// Patch carries a partial update; nil fields are left unchanged. Encryption
// state cannot be patched, it changes only through Encrypt, Decrypt and
// RemoveEncryption.
type Patch struct {
	Title    *string
	Content  *string
	Tags     []string
	Summary  *string
	IsPinned *bool
}

type ListOptions struct {
	Sort  models.SortOrder
	Query string
}

// NotesService is the note session: an ordered collection, the active note
// and the rules tying encryption state to navigation.
//
// Every mutation writes the whole collection to the store before returning.
// Store failures are logged by the store and do not fail the operation.
// Returned notes are copies.
type NotesService interface {
	Current() *models.Note
	Get(id string) (*models.Note, error)
	List(opts ListOptions) []*models.Note

	Create(ctx context.Context) *models.Note
	Update(ctx context.Context, id string, patch Patch) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	Select(ctx context.Context, id string) (*models.Note, error)
	TogglePin(ctx context.Context, id string) (*models.Note, error)

	Encrypt(ctx context.Context, id, password string) error
	Decrypt(ctx context.Context, id, password string) error
	RemoveEncryption(ctx context.Context, id string) error

	Reload(ctx context.Context) bool
	Restore(ctx context.Context) error
	Close(ctx context.Context) error
}

// PreviousLoader is implemented by stores that keep the collection replaced
// by the latest save.
type PreviousLoader interface {
	LoadPrevious(ctx context.Context) ([]*models.Note, error)
}

type notesService struct {
	mu      sync.Mutex
	store   NoteStore
	log     logging.Logger
	notes   []*models.Note
	current *models.Note
}

// NewNotesService loads the collection from store. A session is never
// empty: when nothing is stored a fresh note is created and persisted.
func NewNotesService(ctx context.Context, store NoteStore, l logging.Logger) NotesService {
	s := &notesService{store: store, log: l.With("module", "notes")}

	s.notes = store.Load(ctx)
	if len(s.notes) == 0 {
		s.createLocked(ctx)
	} else {
		s.current = s.notes[0]
	}
	return s
}

func (s *notesService) persist(ctx context.Context) {
	_ = s.store.Save(ctx, s.notes)
}

func (s *notesService) find(id string) (int, *models.Note) {
	for i, n := range s.notes {
		if n.ID == id {
			return i, n
		}
	}
	return -1, nil
}

func (s *notesService) mustFind(id string) (int, *models.Note, error) {
	i, n := s.find(id)
	if n == nil {
		return -1, nil, fmt.Errorf("note %s: %w", id, common.ErrorNotFound)
	}
	return i, n, nil
}

// activate switches the active note. An unlocked outgoing note is locked
// again with its cached password before the switch becomes visible.
func (s *notesService) activate(ctx context.Context, next *models.Note) error {
	prev := s.current
	if prev != nil && prev != next && prev.State() == models.StateUnlocked {
		if err := prev.Relock(); err != nil {
			return fmt.Errorf("relock note %s: %w", prev.ID, err)
		}
		s.log.Debug(ctx, "note locked on navigation", "id", prev.ID)
		s.persist(ctx)
	}
	s.current = next
	return nil
}

func (s *notesService) Current() *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current.Clone()
}

func (s *notesService) Get(id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

func (s *notesService) List(opts ListOptions) []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.Matches(opts.Query) {
			matched = append(matched, n.Clone())
		}
	}
	return models.SortForDisplay(matched, opts.Sort)
}

func (s *notesService) Create(ctx context.Context) *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(ctx).Clone()
}

// createLocked expects s.mu to be held.
func (s *notesService) createLocked(ctx context.Context) *models.Note {
	n := models.NewNote(now())

	if err := s.activate(ctx, n); err != nil {
		s.log.Error(ctx, "failed to lock previous note", "error", err)
		s.current = n
	}
	s.notes = append([]*models.Note{n}, s.notes...)
	s.persist(ctx)

	s.log.Info(ctx, "note created", "id", n.ID)
	return n
}

func (s *notesService) Update(ctx context.Context, id string, patch Patch) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if patch.Content != nil && n.State() == models.StateLocked {
		return nil, fmt.Errorf("edit note %s: %w", id, common.ErrNoteLocked)
	}

	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Tags != nil {
		n.Tags = slices.Clone(patch.Tags)
	}
	if patch.Summary != nil {
		n.Summary = *patch.Summary
	}
	if patch.IsPinned != nil {
		n.IsPinned = *patch.IsPinned
	}
	n.UpdatedAt = now()

	s.persist(ctx)
	return n.Clone(), nil
}

func (s *notesService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, n, err := s.mustFind(id)
	if err != nil {
		return err
	}

	s.notes = slices.Delete(s.notes, i, i+1)
	s.log.Info(ctx, "note deleted", "id", id)

	if s.current == n {
		s.current = nil
		if len(s.notes) == 0 {
			s.createLocked(ctx)
			return nil
		}
		s.current = s.notes[0]
	}

	s.persist(ctx)
	return nil
}

func (s *notesService) Select(ctx context.Context, id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}
	if err := s.activate(ctx, n); err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

func (s *notesService) TogglePin(ctx context.Context, id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}

	n.IsPinned = !n.IsPinned
	n.UpdatedAt = now()
	s.persist(ctx)
	return n.Clone(), nil
}

// Encrypt locks a plain or unlocked note under password. An unlocked note
// may be locked under a different password than the one that opened it.
func (s *notesService) Encrypt(ctx context.Context, id, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n, err := s.mustFind(id)
	if err != nil {
		return err
	}
	if n.Content == "" {
		return fmt.Errorf("encrypt note %s: nothing to encrypt: %w", id, common.ErrorValidation)
	}

	if err := n.Lock(password); err != nil {
		return fmt.Errorf("encrypt note %s: %w", id, err)
	}
	n.UpdatedAt = now()

	s.persist(ctx)
	s.log.Info(ctx, "note encrypted", "id", id)
	return nil
}

// Decrypt makes the note active and unlocks it. With a wrong password the
// note stays locked and common.ErrIncorrectPassword is returned.
func (s *notesService) Decrypt(ctx context.Context, id, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n, err := s.mustFind(id)
	if err != nil {
		return err
	}
	if n.State() == models.StatePlain {
		return fmt.Errorf("decrypt note %s: %w", id, common.ErrNotEncrypted)
	}
	if err := s.activate(ctx, n); err != nil {
		return err
	}

	if err := n.Unlock(password); err != nil {
		s.log.Debug(ctx, "decrypt failed", "id", id, "error", err)
		return fmt.Errorf("decrypt note %s: %w", id, err)
	}

	s.persist(ctx)
	return nil
}

// RemoveEncryption turns the note into a plain note without checking any
// password. It is a no-op for plain notes.
func (s *notesService) RemoveEncryption(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n, err := s.mustFind(id)
	if err != nil {
		return err
	}
	if n.State() == models.StatePlain {
		return nil
	}

	n.RemoveEncryption()
	n.UpdatedAt = now()

	s.persist(ctx)
	s.log.Info(ctx, "note encryption removed", "id", id)
	return nil
}

// Reload replaces the collection with what the store holds, keeping the
// active note when it still exists. It is skipped while the active note is
// unlocked, since reloading would discard its plaintext.
func (s *notesService) Reload(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.State() == models.StateUnlocked {
		s.log.Info(ctx, "external change ignored while a note is unlocked", "id", s.current.ID)
		return false
	}

	if s.replaceLocked(ctx, s.store.Load(ctx)) {
		s.log.Info(ctx, "notes reloaded", "count", len(s.notes))
	}
	return true
}

// replaceLocked swaps in notes, keeping the active note when it is still
// present. An empty set gets a fresh note, which is persisted; the result
// reports whether notes were kept.
func (s *notesService) replaceLocked(ctx context.Context, notes []*models.Note) bool {
	var activeID string
	if s.current != nil {
		activeID = s.current.ID
	}

	s.notes = notes
	s.current = nil
	if len(s.notes) == 0 {
		s.createLocked(ctx)
		return false
	}

	if _, n := s.find(activeID); n != nil {
		s.current = n
	} else {
		s.current = s.notes[0]
	}
	return true
}

// Restore brings back the collection as it was before the latest save and
// persists it, so a second Restore undoes the first. An unlocked active note
// is replaced by its stored, locked version. Stores without history yield
// errors.ErrUnsupported.
func (s *notesService) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loader, ok := s.store.(PreviousLoader)
	if !ok {
		return fmt.Errorf("restore notes: %w", errors.ErrUnsupported)
	}

	prev, err := loader.LoadPrevious(ctx)
	if err != nil {
		return fmt.Errorf("restore notes: %w", err)
	}
	if len(prev) == 0 {
		return fmt.Errorf("restore notes: previous version is empty: %w", common.ErrorNotFound)
	}

	s.replaceLocked(ctx, prev)
	s.persist(ctx)

	s.log.Info(ctx, "notes restored", "count", len(s.notes))
	return nil
}

// Close locks the active note if it is unlocked and writes the collection.
func (s *notesService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.State() == models.StateUnlocked {
		if err := s.current.Relock(); err != nil {
			return err
		}
	}
	return s.store.Save(ctx, s.notes)
}
