package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Record is the storage shape of a note. Field names follow the JSON layout
// written by earlier NoteFlow clients.
type Record struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	Tags               []string  `json:"tags"`
	Summary            string    `json:"summary"`
	IsPinned           bool      `json:"isPinned"`
	IsEncrypted        bool      `json:"isEncrypted"`
	IsDecrypted        bool      `json:"isDecrypted"`
	EncryptionPassword *string   `json:"encryptionPassword"`
}

// Collection is the single value persisted for the whole note set.
type Collection struct {
	Notes []Record `json:"notes"`
}

// ToRecord is the only conversion from a note to its storage shape.
//
// The cached password is never emitted. An unlocked note is sealed with its
// cached password and written as locked, so plaintext of an encrypted note
// cannot reach storage; an unlocked note with empty content is written as
// plain. Plain and locked notes round-trip through FromRecord unchanged.
func (n *Note) ToRecord() (Record, error) {
	r := Record{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
		Tags:        slices.Clone(n.Tags),
		Summary:     n.Summary,
		IsPinned:    n.IsPinned,
		IsEncrypted: n.IsEncrypted,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}

	if n.State() == StateUnlocked {
		// cleared content cannot be sealed; it is stored as a plain note,
		// which is what Relock turns it into
		if n.Content == "" {
			r.IsEncrypted = false
			return r, nil
		}
		if !n.HasCachedPassword() {
			return Record{}, fmt.Errorf("seal note %s: no cached password", n.ID)
		}
		ct, err := n.EncryptContent(n.encryptionPassword)
		if err != nil {
			return Record{}, fmt.Errorf("seal note %s: %w", n.ID, err)
		}
		r.Content = ct
	}

	return r, nil
}

// FromRecord builds a note from a stored record, filling defaults for
// missing fields. Every encrypted note comes back locked. A record that was
// stored unlocked (plaintext plus password, as older clients did) is sealed
// with that password; without a password, or with empty content, its
// plaintext is kept and the note becomes plain.
func FromRecord(r Record) *Note {
	n := &Note{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Tags:        slices.Clone(r.Tags),
		Summary:     r.Summary,
		IsPinned:    r.IsPinned,
		IsEncrypted: r.IsEncrypted,
		IsDecrypted: r.IsEncrypted && r.IsDecrypted,
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}

	if n.IsDecrypted {
		var password string
		if r.EncryptionPassword != nil {
			password = *r.EncryptionPassword
		}
		n.encryptionPassword = password
		if password == "" || n.Lock(password) != nil {
			n.RemoveEncryption()
		}
	}

	return n
}

// DecodeCollection parses a persisted payload. Besides the Collection object
// it accepts a bare JSON array of records.
func DecodeCollection(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	if trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var c Collection
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, err
	}
	if c.Notes == nil {
		return nil, fmt.Errorf("payload has no notes field")
	}
	return c.Notes, nil
}
