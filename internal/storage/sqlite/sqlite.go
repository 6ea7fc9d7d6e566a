// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. One small table of named slots is all the directory needs.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aanand-mishra/employees-api/internal/storage"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the slots table if it
// does not already exist, and returns a ready-to-use *SQLite.
//
// The parent directory is created when missing so a fresh checkout can
// start with the default storage_path.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Every command writes the whole document; one connection keeps
	// writes strictly ordered and avoids SQLITE_BUSY between pool members.
	db.SetMaxOpenConns(1)

	// Schema:
	//   key        — slot name, e.g. "employees"
	//   value      — the serialized document
	//   updated_at — last write, for humans poking at the file
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key        TEXT PRIMARY KEY,
			value      BLOB     NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Read fetches the document stored under key.
// sql.ErrNoRows is translated to storage.ErrNotFound so callers never
// depend on database/sql directly.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Read(key string) ([]byte, error) {
	var doc []byte

	err := s.Db.QueryRow(
		"SELECT value FROM slots WHERE key = ? LIMIT 1", key,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("Read: scan: %w", err)
	}

	return doc, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Write upserts the document under key. A single statement, so the slot
// is replaced atomically.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Write(key string, doc []byte) error {
	stmt, err := s.Db.Prepare(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("Write: prepare: %w", err)
	}
	defer stmt.Close()

	if doc == nil {
		doc = []byte{}
	}

	if _, err := stmt.Exec(key, doc, time.Now().UTC()); err != nil {
		return fmt.Errorf("Write: exec: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

var _ storage.Storage = (*SQLite)(nil)
