// Package store provides the flat key-value persistence substrate backing
// all Anglers Hub collections.
//
// # Architecture
//
// The store is deliberately primitive: five named keys, each holding one
// whole JSON-encoded collection. There is no partial update. Every mutation
// anywhere in the system loads a full collection, modifies it in memory, and
// saves it back whole.
//
//   - users: the full user aggregates (profile, friends, requests, posts)
//   - currentUser: the session projection {name, email}
//   - notifications: one global newest-first list, filtered per recipient
//   - activities: one global newest-first feed
//   - conversations: pair-key -> ordered message list
//
// # Substrates
//
// Two KV implementations exist:
//
//   - SQLiteKV: durable substrate (modernc.org/sqlite, WAL mode). This is
//     the persistent scope; it survives restarts.
//   - MemoryKV: process-lifetime substrate. Backs the ephemeral session
//     scope and all tests.
//
// # Revisions
//
// Whole-collection overwrites are last-writer-wins by construction, so each
// key carries a revision counter. Collections returns the revision with every
// load, and the matching save presents it back; a mismatch fails with
// ErrConflict instead of silently dropping the other writer's update. Callers
// surface the conflict; nothing in the system retries.
//
// # Error Handling
//
//   - ErrNotFound: key or entity absent
//   - ErrUserNotFound: operation referenced an unknown user
//   - ErrConflict: optimistic revision check failed
//   - ErrCorruptData: stored value present but undecodable. A malformed
//     collection is reported, never treated as empty.
//
// # Testing
//
// Use NewMemoryKV for unit tests and NewSQLiteKV(":memory:") when SQLite
// behavior itself is under test.
package store
