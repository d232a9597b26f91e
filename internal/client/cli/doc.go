// Package cli provides the interactive NoteFlow command-line client.
//
// It wires configuration, the local note store, the note session and the AI
// server client, and runs a REPL over them. Commands act on the selected
// note unless an id prefix is given. A background watcher probes the AI
// server so the prompt can show when it is offline; another one reloads the
// session when the store is changed by a different process.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
