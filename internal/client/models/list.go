package models

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/noteflow/internal/textx"
)

// SortOrder selects how notes are ordered inside the pinned and unpinned
// groups of a listing.
type SortOrder string

const (
	SortRecent SortOrder = "recent"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
)

const (
	previewLength = 50
	lockedPreview = "🔒 Locked, decrypt to read"
	untitledTitle = "Untitled"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortRecent, nil
	case SortRecent, SortOldest, SortTitle:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// SortForDisplay returns a new slice with pinned notes first; each group is
// ordered by order. The input slice is not modified.
func SortForDisplay(notes []*Note, order SortOrder) []*Note {
	out := slices.Clone(notes)

	slices.SortStableFunc(out, func(a, b *Note) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}

		switch order {
		case SortOldest:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		case SortTitle:
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		default:
			return b.UpdatedAt.Compare(a.UpdatedAt)
		}
	})

	return out
}

// Matches reports whether query occurs in the title or the content, ignoring
// case. Content of a locked note is ciphertext and is not searched.
func (n *Note) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if n.State() == StateLocked {
		return false
	}
	return strings.Contains(strings.ToLower(n.Content), q)
}

// DisplayTitle falls back to "Untitled" for notes without a title.
func (n *Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return untitledTitle
	}
	return n.Title
}

// Preview is the short plain-text excerpt shown in listings.
func (n *Note) Preview() string {
	if n.State() == StateLocked {
		return lockedPreview
	}
	return textx.Preview(n.Content, previewLength)
}
