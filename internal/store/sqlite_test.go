// ABOUTME: Tests for the SQLite KV substrate.
// ABOUTME: Uses a real in-memory SQLite database.

package store

import (
	"context"
	"errors"
	"testing"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestSQLiteKVGetMissing(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	_, _, err := kv.Get(ctx, "users")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteKVPutGet(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	rev, err := kv.Put(ctx, "users", `[]`, 0)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rev != 1 {
		t.Errorf("expected revision 1, got %d", rev)
	}

	value, gotRev, err := kv.Get(ctx, "users")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != `[]` {
		t.Errorf("unexpected value: %s", value)
	}
	if gotRev != rev {
		t.Errorf("expected revision %d, got %d", rev, gotRev)
	}
}

func TestSQLiteKVRevisionConflict(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	rev, err := kv.Put(ctx, "users", `[1]`, 0)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Simulate a second writer saving on the same base revision.
	if _, err := kv.Put(ctx, "users", `[2]`, rev); err != nil {
		t.Fatalf("Put on current revision: %v", err)
	}
	if _, err := kv.Put(ctx, "users", `[3]`, rev); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on stale revision, got %v", err)
	}

	// The first writer's value survives.
	value, _, err := kv.Get(ctx, "users")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != `[2]` {
		t.Errorf("expected [2], got %s", value)
	}
}

func TestSQLiteKVPutUnconditional(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if _, err := kv.Put(ctx, "currentUser", `{}`, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rev, err := kv.Put(ctx, "currentUser", `{"email":"x"}`, RevAny)
	if err != nil {
		t.Fatalf("unconditional Put: %v", err)
	}
	if rev != 2 {
		t.Errorf("expected revision 2, got %d", rev)
	}
}

func TestSQLiteKVCreateOnExistingKey(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if _, err := kv.Put(ctx, "users", `[]`, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := kv.Put(ctx, "users", `[]`, 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict creating existing key, got %v", err)
	}
}

func TestSQLiteKVDelete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Delete(ctx, "users"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting missing key, got %v", err)
	}

	if _, err := kv.Put(ctx, "users", `[]`, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Delete(ctx, "users"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := kv.Get(ctx, "users"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteKVKeys(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	for _, k := range []string{"users", "activities", "conversations"} {
		if _, err := kv.Put(ctx, k, `[]`, 0); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"activities", "conversations", "users"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], k)
		}
	}
}
