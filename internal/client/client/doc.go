// Package client talks to the NoteFlow AI server on behalf of the CLI.
//
// # Overview
//
// Client is the transport-agnostic contract: Ping plus the three AI helpers
// (Summarize, Tags, Translate). HTTPClient implements it with JSON over
// HTTP using the types in package aiapi.
//
// # Authentication
//
// When a shared secret is configured, every request carries a short-lived
// HS256 bearer token minted locally with package auth. Tokens are cached and
// reissued shortly before expiry; a 401 triggers one retry with a fresh one.
//
// # Error Handling
//
// Failures are mapped onto the sentinels in package common so callers can
// use errors.Is: transport failures, 429 and 5xx become ErrorUnavailable,
// 401/403 become ErrorUnauthorized, 400 becomes ErrorValidation.
package client
