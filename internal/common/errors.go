// Package common defines shared constants and sentinel errors used across
// client and server layers of NoteFlow. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorUnavailable  = errors.New("service unavailable")

	// Note encryption errors. A wrong password and a damaged ciphertext
	// are reported the same way.
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrNotEncrypted      = errors.New("note is not encrypted")
	ErrEmptyPassword     = errors.New("password must not be empty")
	ErrNoteLocked        = errors.New("note is locked")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
