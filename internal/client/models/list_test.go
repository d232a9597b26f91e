package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkNote(id, title string, pinned bool, updated time.Time) *Note {
	n := NewNote(updated)
	n.ID = id
	n.Title = title
	n.IsPinned = pinned
	return n
}

func ids(notes []*Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestSortForDisplay(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	notes := []*Note{
		mkNote("a", "banana", false, base.Add(1*time.Hour)),
		mkNote("b", "Apple", true, base.Add(2*time.Hour)),
		mkNote("c", "cherry", false, base.Add(3*time.Hour)),
		mkNote("d", "date", true, base),
	}

	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(SortForDisplay(notes, SortRecent)))
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(SortForDisplay(notes, SortOldest)))
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(SortForDisplay(notes, SortTitle)))

	// input order untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(notes))
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortRecent, o)

	o, err = ParseSortOrder(" Title ")
	require.NoError(t, err)
	assert.Equal(t, SortTitle, o)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	n := newTestNote(t, "<p>Buy milk</p>")
	n.Title = "Shopping"

	assert.True(t, n.Matches(""))
	assert.True(t, n.Matches("shop"))
	assert.True(t, n.Matches("MILK"))
	assert.False(t, n.Matches("bread"))

	require.NoError(t, n.Lock("pw12"))
	assert.True(t, n.Matches("shop"))
	assert.False(t, n.Matches("milk"))
}

func TestPreviewAndDisplayTitle(t *testing.T) {
	n := newTestNote(t, "<p>Hello&nbsp;<b>world</b></p>")
	assert.Equal(t, "Hello world", n.Preview())
	assert.Equal(t, "Untitled", n.DisplayTitle())

	n.Title = "Greeting"
	assert.Equal(t, "Greeting", n.DisplayTitle())

	require.NoError(t, n.Lock("pw12"))
	assert.Equal(t, lockedPreview, n.Preview())
}
