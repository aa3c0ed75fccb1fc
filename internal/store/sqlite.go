// ABOUTME: SQLite implementation of the KV substrate using modernc.org/sqlite
// ABOUTME: One kv table with per-key revision counters for optimistic saves

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteKV implements KV on a single SQLite table. Each key holds one JSON
// document and a revision counter that increments on every write.
type SQLiteKV struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteKV opens (or creates) the store at the given path. Parent
// directories are created if needed. Use ":memory:" for tests.
func NewSQLiteKV(path string) (*SQLiteKV, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteKV{db: db, logger: logger}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the kv table if it doesn't exist.
func (s *SQLiteKV) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			revision   INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value and revision stored under key.
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, int64, error) {
	var value string
	var rev int64

	err := s.db.QueryRowContext(ctx,
		`SELECT value, revision FROM kv WHERE key = ?`, key,
	).Scan(&value, &rev)

	if err == sql.ErrNoRows {
		return "", 0, ErrNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("reading key %q: %w", key, err)
	}

	return value, rev, nil
}

// Put writes value under key, enforcing the optimistic revision check.
func (s *SQLiteKV) Put(ctx context.Context, key, value string, expectRev int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT revision FROM kv WHERE key = ?`, key,
	).Scan(&current)

	exists := true
	if err == sql.ErrNoRows {
		exists = false
		current = 0
	} else if err != nil {
		return 0, fmt.Errorf("reading revision for %q: %w", key, err)
	}

	if expectRev != RevAny && expectRev != current {
		return 0, fmt.Errorf("key %q: expected revision %d, have %d: %w",
			key, expectRev, current, ErrConflict)
	}

	next := current + 1
	now := time.Now().UTC().Format(time.RFC3339)

	if exists {
		_, err = tx.ExecContext(ctx,
			`UPDATE kv SET value = ?, revision = ?, updated_at = ? WHERE key = ?`,
			value, next, now, key)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO kv (key, value, revision, updated_at) VALUES (?, ?, ?, ?)`,
			key, value, next, now)
	}
	if err != nil {
		return 0, fmt.Errorf("writing key %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing write for %q: %w", key, err)
	}

	return next, nil
}

// Delete removes key from the store.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Keys lists all keys currently present, sorted.
func (s *SQLiteKV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// Ensure SQLiteKV implements KV.
var _ KV = (*SQLiteKV)(nil)
