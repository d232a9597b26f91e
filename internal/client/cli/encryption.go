package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/common"
)

// maxPasswordAttempts bounds the decrypt prompt loop.
const maxPasswordAttempts = 3

var (
	getPassword    = GetPassword
	getNewPassword = GetNewPassword
)

// Encrypt locks the selected note under a new password. An unlocked note
// may be given a different password than the one that opened it.
func (a *App) Encrypt(ctx context.Context) error {
	n := a.notes.Current()
	if n.State() == models.StateLocked {
		printlnFn("Note is already encrypted")
		return nil
	}

	pw, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	if err := a.notes.Encrypt(ctx, n.ID, pw); err != nil {
		return err
	}
	printlnFn("Note encrypted")
	return nil
}

// Decrypt unlocks the selected note, asking again after a wrong password.
// The note is locked again when another note is selected or on exit.
func (a *App) Decrypt(ctx context.Context) error {
	n := a.notes.Current()
	switch n.State() {
	case models.StatePlain:
		return common.ErrNotEncrypted
	case models.StateUnlocked:
		printlnFn("Note is already decrypted")
		return nil
	}

	for attempt := 1; ; attempt++ {
		pw, err := getPassword(a.out, "Enter password")
		if err != nil {
			return err
		}

		err = a.notes.Decrypt(ctx, n.ID, pw)
		if err == nil {
			printlnFn("Note decrypted")
			return nil
		}
		if !errors.Is(err, common.ErrIncorrectPassword) || attempt == maxPasswordAttempts {
			return err
		}
		printlnFn("Incorrect password, try again")
	}
}

// Unencrypt turns the selected note into a plain note. No password is
// asked; a locked note keeps its unreadable content, so that case needs
// confirmation.
func (a *App) Unencrypt(ctx context.Context) error {
	n := a.notes.Current()
	switch n.State() {
	case models.StatePlain:
		printlnFn("Note is not encrypted")
		return nil
	case models.StateLocked:
		if !a.confirm("The note is locked, its content will stay unreadable. Remove encryption anyway?") {
			printlnFn("Cancelled")
			return nil
		}
	}

	if err := a.notes.RemoveEncryption(ctx, n.ID); err != nil {
		return err
	}
	printlnFn("Encryption removed")
	return nil
}
