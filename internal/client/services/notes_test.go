package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longText = "Hello world, this is a longer test note to exceed fifty characters."

// fakeStore keeps what the session would have written, in storage form.
type fakeStore struct {
	initial []*models.Note
	saved   []models.Record
	saves   int
	saveErr error
}

func (f *fakeStore) Load(ctx context.Context) []*models.Note {
	out := make([]*models.Note, 0, len(f.initial))
	if f.saved != nil {
		for _, r := range f.saved {
			out = append(out, models.FromRecord(r))
		}
		return out
	}
	return append(out, f.initial...)
}

func (f *fakeStore) Save(ctx context.Context, notes []*models.Note) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	records := make([]models.Record, 0, len(notes))
	for _, n := range notes {
		r, err := n.ToRecord()
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	f.saved = records
	return nil
}

func (f *fakeStore) savedByID(t *testing.T, id string) models.Record {
	t.Helper()
	for _, r := range f.saved {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("note %s not persisted", id)
	return models.Record{}
}

func withClock(t *testing.T) {
	t.Helper()
	orig := now
	tick := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	t.Cleanup(func() { now = orig })
}

func newSession(t *testing.T, store NoteStore) NotesService {
	t.Helper()
	withClock(t)
	return NewNotesService(context.Background(), store, logging.Nop())
}

func strPtr(s string) *string { return &s }

func TestNewNotesService_EmptyStoreCreatesNote(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)

	cur := s.Current()
	require.NotNil(t, cur)
	assert.Equal(t, models.StatePlain, cur.State())
	assert.Len(t, s.List(ListOptions{}), 1)
	assert.Equal(t, 1, store.saves, "fresh note must be persisted")
}

func TestNewNotesService_LoadsAndActivatesFirst(t *testing.T) {
	a := models.NewNote(time.Now())
	b := models.NewNote(time.Now())
	store := &fakeStore{initial: []*models.Note{a, b}}

	s := newSession(t, store)
	assert.Equal(t, a.ID, s.Current().ID)
	assert.Equal(t, 0, store.saves)
}

func TestCreate_InsertsAtFrontAndActivates(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	first := s.Current()

	created := s.Create(context.Background())

	assert.Equal(t, created.ID, s.Current().ID)
	require.Len(t, store.saved, 2)
	assert.Equal(t, created.ID, store.saved[0].ID)
	assert.Equal(t, first.ID, store.saved[1].ID)
}

func TestUpdate_MergesAndBumpsUpdatedAt(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	cur := s.Current()

	updated, err := s.Update(ctx, cur.ID, Patch{Title: strPtr("Title"), Tags: []string{"x"}})
	require.NoError(t, err)

	assert.Equal(t, "Title", updated.Title)
	assert.Equal(t, []string{"x"}, updated.Tags)
	assert.Equal(t, "", updated.Content, "unset fields untouched")
	assert.True(t, updated.UpdatedAt.After(cur.UpdatedAt))
	assert.Equal(t, "Title", store.savedByID(t, cur.ID).Title)

	_, err = s.Update(ctx, "missing", Patch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_ReturnsCopies(t *testing.T) {
	s := newSession(t, &fakeStore{})
	cur := s.Current()
	cur.Title = "mutated outside"

	assert.Equal(t, "", s.Current().Title)
}

func TestScenario_EncryptDecryptRoundTrip(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID

	_, err := s.Update(ctx, id, Patch{Content: strPtr(longText)})
	require.NoError(t, err)

	require.NoError(t, s.Encrypt(ctx, id, "secret123"))
	locked, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateLocked, locked.State())
	assert.NotEqual(t, longText, locked.Content)

	err = s.Decrypt(ctx, id, "wrongpass")
	assert.ErrorIs(t, err, common.ErrIncorrectPassword)
	still, _ := s.Get(id)
	assert.Equal(t, models.StateLocked, still.State())
	assert.Equal(t, locked.Content, still.Content)

	require.NoError(t, s.Decrypt(ctx, id, "secret123"))
	open, _ := s.Get(id)
	assert.Equal(t, models.StateUnlocked, open.State())
	assert.Equal(t, longText, open.Content)

	// storage never sees the plaintext of an encrypted note
	rec := store.savedByID(t, id)
	assert.True(t, rec.IsEncrypted)
	assert.False(t, rec.IsDecrypted)
	assert.Nil(t, rec.EncryptionPassword)
	assert.NotContains(t, rec.Content, "Hello world")
}

func TestSelect_RelocksOutgoingUnlockedNote(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()

	secret := s.Current().ID
	_, err := s.Update(ctx, secret, Patch{Content: strPtr(longText)})
	require.NoError(t, err)
	require.NoError(t, s.Encrypt(ctx, secret, "secret123"))

	other := s.Create(ctx).ID
	require.NoError(t, s.Decrypt(ctx, secret, "secret123"))
	assert.Equal(t, secret, s.Current().ID, "decrypt activates the note")

	savesBefore := store.saves
	selected, err := s.Select(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, other, selected.ID)

	prev, _ := s.Get(secret)
	assert.Equal(t, models.StateLocked, prev.State())
	assert.False(t, prev.HasCachedPassword())
	assert.Greater(t, store.saves, savesBefore, "relock must be persisted")

	pt, err := prev.DecryptContent("secret123")
	require.NoError(t, err)
	assert.Equal(t, longText, pt)
}

func TestSelect_LockedNoteStaysLocked(t *testing.T) {
	s := newSession(t, &fakeStore{})
	ctx := context.Background()

	locked := s.Current().ID
	_, _ = s.Update(ctx, locked, Patch{Content: strPtr(longText)})
	require.NoError(t, s.Encrypt(ctx, locked, "pw12"))
	s.Create(ctx)

	n, err := s.Select(ctx, locked)
	require.NoError(t, err)
	assert.Equal(t, models.StateLocked, n.State())

	_, err = s.Select(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, locked, s.Current().ID)
}

func TestCreate_RelocksOutgoingUnlockedNote(t *testing.T) {
	s := newSession(t, &fakeStore{})
	ctx := context.Background()

	id := s.Current().ID
	_, _ = s.Update(ctx, id, Patch{Content: strPtr(longText)})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))

	s.Create(ctx)

	n, _ := s.Get(id)
	assert.Equal(t, models.StateLocked, n.State())
}

func TestEncrypt_Rules(t *testing.T) {
	s := newSession(t, &fakeStore{})
	ctx := context.Background()
	id := s.Current().ID

	assert.ErrorIs(t, s.Encrypt(ctx, id, "pw12"), common.ErrorValidation, "empty note")

	_, _ = s.Update(ctx, id, Patch{Content: strPtr("body")})
	assert.ErrorIs(t, s.Encrypt(ctx, id, ""), common.ErrEmptyPassword)

	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	assert.ErrorIs(t, s.Encrypt(ctx, id, "pw34"), common.ErrNoteLocked)

	// unlocked note may be locked under a new password
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	require.NoError(t, s.Encrypt(ctx, id, "pw34"))
	assert.ErrorIs(t, s.Decrypt(ctx, id, "pw12"), common.ErrIncorrectPassword)
	require.NoError(t, s.Decrypt(ctx, id, "pw34"))
}

func TestDecrypt_PlainNote(t *testing.T) {
	s := newSession(t, &fakeStore{})
	err := s.Decrypt(context.Background(), s.Current().ID, "pw")
	assert.ErrorIs(t, err, common.ErrNotEncrypted)
}

func TestUpdate_ContentOfLockedNoteRejected(t *testing.T) {
	s := newSession(t, &fakeStore{})
	ctx := context.Background()
	id := s.Current().ID
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("body")})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))

	_, err := s.Update(ctx, id, Patch{Content: strPtr("overwrite")})
	assert.ErrorIs(t, err, common.ErrNoteLocked)

	n, err := s.Update(ctx, id, Patch{Title: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", n.Title)
	assert.Equal(t, models.StateLocked, n.State())
}

func TestUpdate_ContentOfUnlockedNoteEditsPlaintext(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("body")})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))

	n, err := s.Update(ctx, id, Patch{Content: strPtr("edited body")})
	require.NoError(t, err)
	assert.Equal(t, models.StateUnlocked, n.State())
	assert.Equal(t, "edited body", n.Content)

	rec := store.savedByID(t, id)
	assert.NotContains(t, rec.Content, "edited")
	pt, err := models.FromRecord(rec).DecryptContent("pw12")
	require.NoError(t, err)
	assert.Equal(t, "edited body", pt)
}

func TestRemoveEncryption(t *testing.T) {
	s := newSession(t, &fakeStore{})
	ctx := context.Background()
	id := s.Current().ID
	_, _ = s.Update(ctx, id, Patch{Content: strPtr(longText)})

	// plain: no-op
	before, _ := s.Get(id)
	require.NoError(t, s.RemoveEncryption(ctx, id))
	after, _ := s.Get(id)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)

	// unlocked: keeps plaintext, no password needed
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	require.NoError(t, s.RemoveEncryption(ctx, id))
	n, _ := s.Get(id)
	assert.Equal(t, models.StatePlain, n.State())
	assert.Equal(t, longText, n.Content)

	// locked: flags cleared, stored content kept verbatim
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	locked, _ := s.Get(id)
	require.NoError(t, s.RemoveEncryption(ctx, id))
	n, _ = s.Get(id)
	assert.Equal(t, models.StatePlain, n.State())
	assert.Equal(t, locked.Content, n.Content)

	// idempotent
	require.NoError(t, s.RemoveEncryption(ctx, id))
	assert.Equal(t, models.StatePlain, n.State())
}

func TestDelete(t *testing.T) {
	t.Run("only note yields a fresh plain active note", func(t *testing.T) {
		store := &fakeStore{}
		s := newSession(t, store)
		ctx := context.Background()
		old := s.Current().ID

		require.NoError(t, s.Delete(ctx, old))

		notes := s.List(ListOptions{})
		require.Len(t, notes, 1)
		assert.NotEqual(t, old, notes[0].ID)
		assert.Equal(t, notes[0].ID, s.Current().ID)
		assert.Equal(t, models.StatePlain, notes[0].State())
		require.Len(t, store.saved, 1)
		assert.Equal(t, notes[0].ID, store.saved[0].ID)
	})

	t.Run("active note promotes the next one", func(t *testing.T) {
		s := newSession(t, &fakeStore{})
		ctx := context.Background()
		older := s.Current().ID
		newer := s.Create(ctx).ID

		require.NoError(t, s.Delete(ctx, newer))
		assert.Equal(t, older, s.Current().ID)
	})

	t.Run("inactive note keeps selection", func(t *testing.T) {
		s := newSession(t, &fakeStore{})
		ctx := context.Background()
		older := s.Current().ID
		newer := s.Create(ctx).ID

		require.NoError(t, s.Delete(ctx, older))
		assert.Equal(t, newer, s.Current().ID)
		assert.ErrorIs(t, s.Delete(ctx, older), common.ErrorNotFound)
	})
}

func TestTogglePinAndList(t *testing.T) {
	s := newSession(t, &fakeStore{})
	ctx := context.Background()

	a := s.Current().ID
	_, _ = s.Update(ctx, a, Patch{Title: strPtr("alpha")})
	b := s.Create(ctx).ID
	_, _ = s.Update(ctx, b, Patch{Title: strPtr("beta"), Content: strPtr("milk and eggs")})

	n, err := s.TogglePin(ctx, a)
	require.NoError(t, err)
	assert.True(t, n.IsPinned)

	listed := s.List(ListOptions{Sort: models.SortRecent})
	require.Len(t, listed, 2)
	assert.Equal(t, a, listed[0].ID, "pinned first")

	found := s.List(ListOptions{Query: "MILK"})
	require.Len(t, found, 1)
	assert.Equal(t, b, found[0].ID)

	n, err = s.TogglePin(ctx, a)
	require.NoError(t, err)
	assert.False(t, n.IsPinned)
}

func TestSaveFailureDoesNotFailOperations(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	store.saveErr = errors.New("disk full")

	_, err := s.Update(context.Background(), s.Current().ID, Patch{Title: strPtr("still works")})
	require.NoError(t, err)
	assert.Equal(t, "still works", s.Current().Title)
}

func TestReload(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID

	// someone else rewrote the storage
	r := store.saved[0]
	r.Title = "changed elsewhere"
	other := models.Record{ID: "external", Title: "new"}
	store.saved = []models.Record{other, r}

	require.True(t, s.Reload(ctx))
	assert.Equal(t, id, s.Current().ID, "active note kept")
	assert.Equal(t, "changed elsewhere", s.Current().Title)
	assert.Len(t, s.List(ListOptions{}), 2)

	// skipped while unlocked
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("body")})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	store.saved = []models.Record{}
	assert.False(t, s.Reload(ctx))
	assert.Len(t, s.List(ListOptions{}), 2)
}

func TestReload_EmptyStorageCreatesNote(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	store.saved = []models.Record{}

	require.True(t, s.Reload(context.Background()))
	assert.Len(t, s.List(ListOptions{}), 1)
}

func TestClose_RelocksActiveNote(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("body")})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, models.StateLocked, s.Current().State())
	assert.False(t, store.savedByID(t, id).IsDecrypted)
}

// TestInvariantsHoldUnderRandomOperations drives the session with a random
// operation mix and checks the state invariants after every step.
func TestInvariantsHoldUnderRandomOperations(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	passwords := []string{"pw12", "other-pass"}

	pick := func() string {
		notes := s.List(ListOptions{})
		return notes[rng.Intn(len(notes))].ID
	}

	for step := 0; step < 60; step++ {
		id := pick()
		pw := passwords[rng.Intn(len(passwords))]

		switch rng.Intn(8) {
		case 0:
			s.Create(ctx)
		case 1:
			_, _ = s.Update(ctx, id, Patch{Content: strPtr("content " + strings.Repeat("x", step))})
		case 2:
			_ = s.Delete(ctx, id)
		case 3:
			_, _ = s.Select(ctx, id)
		case 4:
			_ = s.Encrypt(ctx, id, pw)
		case 5:
			_ = s.Decrypt(ctx, id, pw)
		case 6:
			_ = s.RemoveEncryption(ctx, id)
		case 7:
			_, _ = s.TogglePin(ctx, id)
		}

		notes := s.List(ListOptions{})
		require.NotEmpty(t, notes, "step %d", step)

		cur := s.Current()
		seen := map[string]bool{}
		for _, n := range notes {
			require.NoError(t, n.Validate(), "step %d", step)
			require.False(t, seen[n.ID], "duplicate id at step %d", step)
			seen[n.ID] = true
			if n.State() == models.StateUnlocked {
				require.Equal(t, cur.ID, n.ID, "only the active note may be unlocked (step %d)", step)
			}
		}

		for _, r := range store.saved {
			require.False(t, r.IsDecrypted, "step %d", step)
			require.Nil(t, r.EncryptionPassword, "step %d", step)
		}
	}
}

func TestClearedUnlockedNote_BecomesPlainOnNavigate(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID

	_, err := s.Update(ctx, id, Patch{Content: strPtr(longText)})
	require.NoError(t, err)
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))

	_, err = s.Update(ctx, id, Patch{Content: strPtr("")})
	require.NoError(t, err)
	assert.False(t, store.savedByID(t, id).IsEncrypted, "empty content is never sealed")

	s.Create(ctx)

	n, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatePlain, n.State())
	assert.Equal(t, "", n.Content)
	assert.NoError(t, n.Validate())

	// nothing is left that a correct password would fail to open
	assert.ErrorIs(t, s.Decrypt(ctx, id, "pw12"), common.ErrNotEncrypted)

	reloaded := newSession(t, &fakeStore{saved: store.saved})
	got, err := reloaded.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatePlain, got.State())
}

func TestClearedThenRefilledUnlockedNote_StillOpens(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID

	_, _ = s.Update(ctx, id, Patch{Content: strPtr(longText)})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("")})
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("new body")})

	s.Create(ctx)

	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	n, _ := s.Get(id)
	assert.Equal(t, "new body", n.Content)
}

func TestClose_ClearedUnlockedNoteSavedAsPlain(t *testing.T) {
	store := &fakeStore{}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID

	_, _ = s.Update(ctx, id, Patch{Content: strPtr("body")})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("")})

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, models.StatePlain, s.Current().State())
	assert.False(t, store.savedByID(t, id).IsEncrypted)
}

// historyStore remembers the collection each save replaced.
type historyStore struct {
	*fakeStore
	previous []models.Record
}

func (h *historyStore) Save(ctx context.Context, notes []*models.Note) error {
	prev := h.saved
	if err := h.fakeStore.Save(ctx, notes); err != nil {
		return err
	}
	h.previous = prev
	return nil
}

func (h *historyStore) LoadPrevious(ctx context.Context) ([]*models.Note, error) {
	if h.previous == nil {
		return nil, common.ErrorNotFound
	}
	out := make([]*models.Note, 0, len(h.previous))
	for _, r := range h.previous {
		out = append(out, models.FromRecord(r))
	}
	return out, nil
}

func TestRestore_UndoesLastChange(t *testing.T) {
	store := &historyStore{fakeStore: &fakeStore{}}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID

	_, err := s.Update(ctx, id, Patch{Title: strPtr("before")})
	require.NoError(t, err)
	_, err = s.Update(ctx, id, Patch{Title: strPtr("after")})
	require.NoError(t, err)

	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, id, s.Current().ID)
	assert.Equal(t, "before", s.Current().Title)
	assert.Equal(t, "before", store.savedByID(t, id).Title, "restored collection is persisted")

	// restoring again brings the undone change back
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, "after", s.Current().Title)
}

func TestRestore_UnlockedNoteComesBackLocked(t *testing.T) {
	store := &historyStore{fakeStore: &fakeStore{}}
	s := newSession(t, store)
	ctx := context.Background()
	id := s.Current().ID

	_, _ = s.Update(ctx, id, Patch{Content: strPtr(longText)})
	require.NoError(t, s.Encrypt(ctx, id, "pw12"))
	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	_, _ = s.Update(ctx, id, Patch{Content: strPtr("edited")})

	require.NoError(t, s.Restore(ctx))
	n := s.Current()
	assert.Equal(t, models.StateLocked, n.State())

	require.NoError(t, s.Decrypt(ctx, id, "pw12"))
	assert.Equal(t, longText, s.Current().Content)
}

func TestRestore_Errors(t *testing.T) {
	ctx := context.Background()

	plain := newSession(t, &fakeStore{})
	assert.ErrorIs(t, plain.Restore(ctx), errors.ErrUnsupported)

	fresh := newSession(t, &historyStore{fakeStore: &fakeStore{}})
	assert.ErrorIs(t, fresh.Restore(ctx), common.ErrorNotFound)
	assert.Len(t, fresh.List(ListOptions{}), 1)
}
