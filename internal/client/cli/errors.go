package cli

import (
	"errors"

	"github.com/dmitrijs2005/noteflow/internal/common"
)

// userMessage turns service errors into short REPL messages.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrIncorrectPassword):
		return "incorrect password"
	case errors.Is(err, common.ErrNoteLocked):
		return "the note is locked, use 'decrypt' first"
	case errors.Is(err, common.ErrNotEncrypted):
		return "the note is not encrypted"
	case errors.Is(err, common.ErrorUnavailable):
		return "AI server unavailable (" + err.Error() + ")"
	case errors.Is(err, errors.ErrUnsupported):
		return "this store keeps no history, use the sqlite store driver"
	case errors.Is(err, common.ErrorUnauthorized):
		return "AI server rejected the credentials, check ai_secret"
	default:
		return err.Error()
	}
}
