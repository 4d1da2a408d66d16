// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docinfo

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS document_info (
	key        TEXT PRIMARY KEY,
	uri        TEXT NOT NULL,
	encoding   TEXT NOT NULL,
	eol        TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
`

// SQLiteStore persists document info across sessions.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:" gives
// a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create document info directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open document info database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure document info database (%s): %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create document info schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get implements Store. Read failures are logged and reported as a miss, which
// makes a later Save fall back to asking for a location.
func (s *SQLiteStore) Get(key string) (Info, bool) {
	var info Info
	var eol string
	err := s.db.QueryRow(
		"SELECT uri, encoding, eol FROM document_info WHERE key = ?", key,
	).Scan(&info.URI, &info.Encoding, &eol)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			glog.Warningf("docinfo: lookup %q: %v", key, err)
		}
		return Info{}, false
	}

	style, err := ParseEOLStyle(eol)
	if err != nil {
		glog.Warningf("docinfo: entry %q: %v", key, err)
	}
	info.EOL = style
	return info, true
}

// Set implements Store.
func (s *SQLiteStore) Set(key string, info Info) error {
	_, err := s.db.Exec(`
		INSERT INTO document_info (key, uri, encoding, eol, updated_at)
		VALUES (?, ?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			uri = excluded.uri,
			encoding = excluded.encoding,
			eol = excluded.eol,
			updated_at = excluded.updated_at`,
		key, info.URI, info.Encoding, info.EOL.String())
	if err != nil {
		return fmt.Errorf("store document info for %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM document_info WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete document info for %q: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
