// Copyright (c) 2024-2025 Christian Leiva / chrisgenai
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package token persists OAuth tokens between client runs.
package token

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a token key has no stored value.
	ErrNotFound = errors.New("token not found")
)

// Store keys. The session holds exactly these two entries.
const (
	KeyIDToken      = "id_token"
	KeyRefreshToken = "refresh_token"
)

// =============================================================================
// STORE
// =============================================================================

// Store is a small SQLite-backed key/value store for session tokens, the
// client-side analog of the browser session storage the hosted UI uses.
// SQLite gives atomic writes for free and survives interrupted runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the token store at the given path. The parent
// directory is created with 0700 so other local users cannot read tokens.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS tokens (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, path: path}
	s.tightenPermissions()
	return s, nil
}

// OpenInMemory opens an ephemeral store. Used by tests and by runs that
// should not persist a session.
func OpenInMemory() (*Store, error) {
	return Open(":memory:")
}

// tightenPermissions chmods the database file to 0600. SECURITY: the file
// holds bearer tokens in the clear; filesystem permissions are the only
// guard (at-rest encryption is deliberately out of scope).
func (s *Store) tightenPermissions() {
	if runtime.GOOS == "windows" || s.path == ":memory:" {
		return
	}
	if info, err := os.Stat(s.path); err == nil && info.Mode().Perm()&0077 != 0 {
		os.Chmod(s.path, 0600)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Get returns the stored value for key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM tokens WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO tokens (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to store token %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM tokens WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete token %q: %w", key, err)
	}
	return nil
}

// Clear removes every stored token in one statement, so a logout can never
// leave a half-cleared session behind.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM tokens"); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// IDToken returns the stored id token, or "" when absent.
func (s *Store) IDToken() string {
	v, err := s.Get(KeyIDToken)
	if err != nil {
		return ""
	}
	return v
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	v, err := s.Get(KeyRefreshToken)
	if err != nil {
		return ""
	}
	return v
}
