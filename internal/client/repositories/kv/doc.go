// Package kv provides the single-slot key/value storage that backs the note
// store. Three interchangeable backends implement Repository:
//
//   - sqlite: a goose-migrated SQLite file (modernc.org/sqlite); the value
//     being replaced is copied to a backup table in the same transaction.
//   - pebble: a Pebble LSM directory; writes are synced.
//   - file:   one JSON file per key written atomically; it can also watch
//     for changes made by other processes.
//
// Get returns (nil, nil) when the key is absent.
package kv
