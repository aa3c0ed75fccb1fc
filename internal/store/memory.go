// ABOUTME: In-memory KV implementation for the ephemeral session scope and tests
// ABOUTME: Mirrors SQLiteKV semantics including revision checks

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryEntry struct {
	value string
	rev   int64
}

// MemoryKV is a mutex-guarded in-memory KV. It backs the ephemeral session
// scope (contents vanish with the process, like sessionStorage) and is the
// substrate of choice in tests.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]*memoryEntry)}
}

// Get returns the value and revision stored under key.
func (m *MemoryKV) Get(ctx context.Context, key string) (string, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return "", 0, ErrNotFound
	}
	return e.value, e.rev, nil
}

// Put writes value under key, enforcing the optimistic revision check.
func (m *MemoryKV) Put(ctx context.Context, key, value string, expectRev int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current int64
	if e, ok := m.entries[key]; ok {
		current = e.rev
	}

	if expectRev != RevAny && expectRev != current {
		return 0, fmt.Errorf("key %q: expected revision %d, have %d: %w",
			key, expectRev, current, ErrConflict)
	}

	next := current + 1
	m.entries[key] = &memoryEntry{value: value, rev: next}
	return next, nil
}

// Delete removes key from the store.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok {
		return ErrNotFound
	}
	delete(m.entries, key)
	return nil
}

// Keys lists all keys currently present, sorted.
func (m *MemoryKV) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryKV) Close() error {
	return nil
}

// Ensure MemoryKV implements KV.
var _ KV = (*MemoryKV)(nil)
