// Package store persists the dashboard's local state: visit history for
// recent deep links, saved filter presets, and small bits of UI state.
// Everything lives in one SQLite file. The store is best-effort by nature;
// callers treat failures as absent data, never as fatal.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite file at path, applying
// pragmas and migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid
	// "database is locked" flakiness when a second instance is up.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recent_locations (
			uri TEXT PRIMARY KEY,
			visits INTEGER NOT NULL,
			last_visited_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recent_last ON recent_locations(last_visited_unixms);`,
		`CREATE TABLE IF NOT EXISTS filter_presets (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			query TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ui_state (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// SetUIState stores one key of UI state (last location, last namespace).
func (s *Store) SetUIState(ctx context.Context, k, v string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO ui_state(k, v) VALUES(?, ?)`, k, v)
	return err
}

// UIState reads one key of UI state; ok is false when the key was never
// written.
func (s *Store) UIState(ctx context.Context, k string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM ui_state WHERE k = ?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

const keyLastLocation = "last_location"

// SetLastLocation remembers the most recently visited deep link so a later
// run can resume there.
func (s *Store) SetLastLocation(ctx context.Context, uri string) error {
	return s.SetUIState(ctx, keyLastLocation, uri)
}

// LastLocation returns the deep link of the previous session's final visit.
func (s *Store) LastLocation(ctx context.Context) (string, bool, error) {
	return s.UIState(ctx, keyLastLocation)
}
