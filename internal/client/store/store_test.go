package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/client/repositories/kv"
	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory kv.Repository with switchable failures.
type memRepo struct {
	data     map[string][]byte
	getErr   error
	setErr   error
	setCalls int
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memRepo) Set(ctx context.Context, key string, value []byte) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memRepo) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memRepo) Close() error { return nil }

func newStore(t *testing.T, repo kv.Repository) (*NoteStore, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewNoteStore(repo, logging.New(&buf, "text", "debug")), &buf
}

func note(id, content string) *models.Note {
	n := models.NewNote(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	n.ID = id
	n.Content = content
	return n
}

func TestLoad_AbsentKeyIsEmpty(t *testing.T) {
	s, _ := newStore(t, newMemRepo())

	notes := s.Load(context.Background())
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestLoad_CorruptPayloadIsLoggedAndEmpty(t *testing.T) {
	repo := newMemRepo()
	repo.data[NotesKey] = []byte("{definitely not json")
	s, logs := newStore(t, repo)

	assert.Empty(t, s.Load(context.Background()))
	assert.Contains(t, logs.String(), "stored notes are corrupt")
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestLoad_ReadErrorIsLoggedAndEmpty(t *testing.T) {
	repo := newMemRepo()
	repo.getErr = errors.New("disk on fire")
	s, logs := newStore(t, repo)

	assert.Empty(t, s.Load(context.Background()))
	assert.Contains(t, logs.String(), "disk on fire")
}

func TestLoad_DropsDuplicateIDs(t *testing.T) {
	repo := newMemRepo()
	repo.data[NotesKey] = []byte(`{"notes":[{"id":"1","title":"first"},{"id":"1","title":"dup"},{"id":"2"}]}`)
	s, _ := newStore(t, repo)

	notes := s.Load(context.Background())
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Title)
	assert.Equal(t, "2", notes[1].ID)
}

func TestLoad_AcceptsBareArray(t *testing.T) {
	repo := newMemRepo()
	repo.data[NotesKey] = []byte(`[{"id":"legacy","title":"old client"}]`)
	s, _ := newStore(t, repo)

	notes := s.Load(context.Background())
	require.Len(t, notes, 1)
	assert.Equal(t, "old client", notes[0].Title)
}

func TestSaveLoad_RoundTripAndUnlockedIsSealed(t *testing.T) {
	repo := newMemRepo()
	s, _ := newStore(t, repo)
	ctx := context.Background()

	plain := note("p", "plain body")
	secret := note("s", "Hello world, this is a longer test note to exceed fifty characters.")
	require.NoError(t, secret.Lock("secret123"))
	require.NoError(t, secret.Unlock("secret123"))

	require.NoError(t, s.Save(ctx, []*models.Note{secret, plain}))

	raw := string(repo.data[NotesKey])
	assert.True(t, strings.HasPrefix(raw, `{"notes":[`))
	assert.NotContains(t, raw, "Hello world")
	assert.NotContains(t, raw, "secret123")

	loaded := s.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, "s", loaded[0].ID)
	assert.Equal(t, models.StateLocked, loaded[0].State())
	assert.Equal(t, "plain body", loaded[1].Content)

	pt, err := loaded[0].DecryptContent("secret123")
	require.NoError(t, err)
	assert.Equal(t, secret.Content, pt)
}

func TestSave_BackendErrorIsLoggedAndReturned(t *testing.T) {
	repo := newMemRepo()
	repo.setErr = errors.New("quota exceeded")
	s, logs := newStore(t, repo)

	err := s.Save(context.Background(), []*models.Note{note("1", "x")})
	require.Error(t, err)
	assert.Contains(t, logs.String(), "failed to save notes")
}

func TestSave_UnsealableNoteWritesNothing(t *testing.T) {
	repo := newMemRepo()
	s, _ := newStore(t, repo)

	broken := note("b", "plaintext")
	broken.IsEncrypted = true
	broken.IsDecrypted = true

	require.Error(t, s.Save(context.Background(), []*models.Note{note("ok", "x"), broken}))
	assert.Equal(t, 0, repo.setCalls)
	assert.Nil(t, repo.data[NotesKey])
}

func TestSaveLoad_OverRealBackends(t *testing.T) {
	for _, driver := range []string{kv.DriverSQLite, kv.DriverPebble, kv.DriverFile} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			repo, err := kv.Open(ctx, driver, t.TempDir())
			require.NoError(t, err)
			s := NewNoteStore(repo, logging.Nop())
			defer s.Close()

			require.NoError(t, s.Save(ctx, []*models.Note{note("a", "alpha"), note("b", "beta")}))

			loaded := s.Load(ctx)
			require.Len(t, loaded, 2)
			assert.Equal(t, "alpha", loaded[0].Content)
			assert.Equal(t, "beta", loaded[1].Content)
		})
	}
}

func TestWatch_OnlyForWatchingBackends(t *testing.T) {
	s, _ := newStore(t, newMemRepo())
	ok, err := s.Watch(context.Background(), func() {})
	require.NoError(t, err)
	assert.False(t, ok)

	repo, err := kv.NewFileRepository(t.TempDir())
	require.NoError(t, err)
	fs := NewNoteStore(repo, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ok, err = fs.Watch(ctx, func() {})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadPrevious_SQLiteReturnsReplacedCollection(t *testing.T) {
	ctx := context.Background()
	repo, err := kv.Open(ctx, kv.DriverSQLite, t.TempDir())
	require.NoError(t, err)
	s := NewNoteStore(repo, logging.Nop())
	defer s.Close()

	_, err = s.LoadPrevious(ctx)
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.Save(ctx, []*models.Note{note("a", "first")}))
	require.NoError(t, s.Save(ctx, []*models.Note{note("a", "second"), note("b", "new")}))

	prev, err := s.LoadPrevious(ctx)
	require.NoError(t, err)
	require.Len(t, prev, 1)
	assert.Equal(t, "first", prev[0].Content)

	assert.Len(t, s.Load(ctx), 2, "the current collection is untouched")
}

func TestLoadPrevious_UnsupportedBackend(t *testing.T) {
	s, _ := newStore(t, newMemRepo())

	_, err := s.LoadPrevious(context.Background())
	require.ErrorIs(t, err, errors.ErrUnsupported)
}
