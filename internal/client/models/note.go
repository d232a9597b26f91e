// Package models defines the client-side note entity, its storage record and
// the ordering used by note listings.
package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/cryptox"
	"github.com/google/uuid"
)

// State is the encryption state of a note, derived from its flags.
type State string

const (
	// StatePlain: content is plaintext and no password is involved.
	StatePlain State = "plain"
	// StateLocked: content is ciphertext.
	StateLocked State = "locked"
	// StateUnlocked: content is plaintext held in memory only; the password
	// that produced it is cached so the note can be locked again.
	StateUnlocked State = "unlocked"
)

// Note is a single note as held by the session.
//
// The cached password never leaves the process: it is unexported and
// ToRecord does not emit it.
type Note struct {
	ID          string
	Title       string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tags        []string
	Summary     string
	IsPinned    bool
	IsEncrypted bool
	IsDecrypted bool

	encryptionPassword string
}

// NewNote returns an empty plain note stamped with now.
func NewNote(now time.Time) *Note {
	return &Note{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{},
	}
}

func (n *Note) State() State {
	switch {
	case !n.IsEncrypted:
		return StatePlain
	case n.IsDecrypted:
		return StateUnlocked
	default:
		return StateLocked
	}
}

// Clone returns a deep copy, including the cached password.
func (n *Note) Clone() *Note {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c
}

// HasCachedPassword reports whether the note can be re-locked without asking
// the user again.
func (n *Note) HasCachedPassword() bool {
	return n.encryptionPassword != ""
}

// EncryptContent returns the ciphertext of the current content under
// password. The note itself is not modified.
func (n *Note) EncryptContent(password string) (string, error) {
	return cryptox.Encrypt(n.Content, password)
}

// DecryptContent returns the plaintext of the stored ciphertext. It fails with
// common.ErrNotEncrypted for a plain note and common.ErrIncorrectPassword when
// the password does not open the content.
func (n *Note) DecryptContent(password string) (string, error) {
	if !n.IsEncrypted {
		return "", common.ErrNotEncrypted
	}
	return cryptox.Decrypt(n.Content, password)
}

// Lock encrypts the plaintext content under password and moves the note to
// StateLocked, dropping any cached password. A locked note is rejected with
// common.ErrNoteLocked since its content is already ciphertext. Empty
// content is rejected with common.ErrorValidation: the cipher never opens an
// empty plaintext, so such a note could not be unlocked again.
func (n *Note) Lock(password string) error {
	if n.State() == StateLocked {
		return common.ErrNoteLocked
	}
	if n.Content == "" {
		return fmt.Errorf("lock note %s: nothing to encrypt: %w", n.ID, common.ErrorValidation)
	}

	ct, err := n.EncryptContent(password)
	if err != nil {
		return err
	}

	n.Content = ct
	n.IsEncrypted = true
	n.IsDecrypted = false
	n.encryptionPassword = ""
	return nil
}

// Unlock decrypts a locked note in place and caches password. On failure the
// note is left untouched.
func (n *Note) Unlock(password string) error {
	if n.State() != StateLocked {
		if n.State() == StatePlain {
			return common.ErrNotEncrypted
		}
		return nil
	}

	pt, err := n.DecryptContent(password)
	if err != nil {
		return err
	}

	n.Content = pt
	n.IsDecrypted = true
	n.encryptionPassword = password
	return nil
}

// Relock locks an unlocked note again with its cached password. An unlocked
// note whose content was cleared becomes plain instead. Other states are
// left as they are.
func (n *Note) Relock() error {
	if n.State() != StateUnlocked {
		return nil
	}
	if n.Content == "" {
		n.RemoveEncryption()
		return nil
	}
	if !n.HasCachedPassword() {
		return fmt.Errorf("relock note %s: %w", n.ID, common.ErrEmptyPassword)
	}
	return n.Lock(n.encryptionPassword)
}

// RemoveEncryption turns the note back into a plain note without asking for
// a password. An unlocked note keeps its plaintext. A locked note keeps its
// stored ciphertext as content, because no plaintext is available for it;
// the result is plain by its flags only and Validate cannot tell it apart.
func (n *Note) RemoveEncryption() {
	n.IsEncrypted = false
	n.IsDecrypted = false
	n.encryptionPassword = ""
}

// Validate checks the state invariants tying the flags and the cached
// password together. Content is opaque here: a plain note that was made from
// a locked one by RemoveEncryption still carries ciphertext and passes.
func (n *Note) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("note without id: %w", common.ErrorValidation)
	}
	switch n.State() {
	case StatePlain:
		if n.IsDecrypted || n.encryptionPassword != "" {
			return fmt.Errorf("plain note %s carries decryption state: %w", n.ID, common.ErrorValidation)
		}
	case StateLocked:
		if n.encryptionPassword != "" {
			return fmt.Errorf("locked note %s caches a password: %w", n.ID, common.ErrorValidation)
		}
	case StateUnlocked:
		if n.encryptionPassword == "" {
			return fmt.Errorf("unlocked note %s has no cached password: %w", n.ID, common.ErrorValidation)
		}
	}
	return nil
}
