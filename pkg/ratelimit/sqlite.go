package ratelimit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists window state in a SQLite database so quotas survive
// process restarts. When the database file lives on shared storage it also
// lets multiple instances approximate a common quota, at the cost of the
// same read-then-write race the in-memory store has across processes.
type SQLiteStore struct {
	db *sql.DB
}

const createWindowsTable = `
CREATE TABLE IF NOT EXISTS rate_windows (
	key        TEXT PRIMARY KEY,
	count      INTEGER NOT NULL,
	reset_unix INTEGER NOT NULL
)`

// NewSQLiteStore opens (creating if needed) a SQLite-backed store at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %q: %w", path, err)
	}

	// SQLite handles one writer at a time; cap the pool to avoid
	// SQLITE_BUSY churn under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createWindowsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating rate_windows table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the entry for a key, or nil when none exists.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	var count int
	var resetUnix int64

	row := s.db.QueryRowContext(ctx,
		`SELECT count, reset_unix FROM rate_windows WHERE key = ?`, key)
	if err := row.Scan(&count, &resetUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying window: %w", err)
	}

	return &Entry{Count: count, Reset: time.Unix(resetUnix, 0)}, nil
}

// Put stores the entry for a key, replacing any existing row.
func (s *SQLiteStore) Put(ctx context.Context, key string, entry *Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_windows (key, count, reset_unix) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET count = excluded.count, reset_unix = excluded.reset_unix`,
		key, entry.Count, entry.Reset.Unix())
	if err != nil {
		return fmt.Errorf("upserting window: %w", err)
	}
	return nil
}

// Delete removes the entry for a key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM rate_windows WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting window: %w", err)
	}
	return nil
}

// Keys returns all stored keys.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM rate_windows`)
	if err != nil {
		return nil, fmt.Errorf("listing windows: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning window key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating window keys: %w", err)
	}

	return keys, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
