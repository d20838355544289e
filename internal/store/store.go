// Package store persists a built stub index to SQLite so the CLI can scan a
// stub repository once and answer lookups repeatedly.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for persisted stub indexes.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS entries (
  id              INTEGER PRIMARY KEY,
  version         TEXT NOT NULL,
  name            TEXT NOT NULL,
  path            TEXT NOT NULL,
  UNIQUE(version, name)
);

CREATE TABLE IF NOT EXISTS declarations (
  id              INTEGER PRIMARY KEY,
  entry_id        INTEGER NOT NULL REFERENCES entries(id),
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  line            INTEGER,
  col             INTEGER,
  aliased         BOOLEAN DEFAULT FALSE,
  parent_name     TEXT
);

CREATE TABLE IF NOT EXISTS index_runs (
  version         TEXT PRIMARY KEY,
  root            TEXT NOT NULL,
  entries         INTEGER NOT NULL,
  indexed_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT
);

CREATE INDEX IF NOT EXISTS idx_entries_version ON entries(version);
CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(name);
CREATE INDEX IF NOT EXISTS idx_declarations_entry ON declarations(entry_id);
CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name);
`

// InsertEntry inserts an entry and returns its assigned ID.
func (s *Store) InsertEntry(e *Entry) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO entries (version, name, path) VALUES (?, ?, ?)",
		e.Version, e.Name, e.Path,
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert entry id: %w", err)
	}
	e.ID = id
	return id, nil
}

// InsertDecl inserts a declaration row for an entry.
func (s *Store) InsertDecl(d *Decl) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO declarations (entry_id, name, kind, line, col, aliased, parent_name) VALUES (?, ?, ?, ?, ?, ?, ?)",
		d.EntryID, d.Name, d.Kind, d.Line, d.Col, d.Aliased, d.ParentName,
	)
	if err != nil {
		return 0, fmt.Errorf("insert declaration: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert declaration id: %w", err)
	}
	d.ID = id
	return id, nil
}

// DeleteVersion transactionally removes a version's entries, their
// declarations, and the run record, so a re-index starts clean.
func (s *Store) DeleteVersion(version string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM declarations WHERE entry_id IN (SELECT id FROM entries WHERE version = ?)",
		version,
	); err != nil {
		return fmt.Errorf("delete declarations: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entries WHERE version = ?", version); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM index_runs WHERE version = ?", version); err != nil {
		return fmt.Errorf("delete index run: %w", err)
	}
	return tx.Commit()
}

// EntryByName returns the entry for an importable name under a version, or
// nil when absent.
func (s *Store) EntryByName(version, name string) (*Entry, error) {
	e := &Entry{}
	err := s.db.QueryRow(
		"SELECT id, version, name, path FROM entries WHERE version = ? AND name = ?",
		version, name,
	).Scan(&e.ID, &e.Version, &e.Name, &e.Path)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("entry by name: %w", err)
	}
	return e, nil
}

// EntriesByVersion returns all entries for a version, name-ordered.
func (s *Store) EntriesByVersion(version string) ([]*Entry, error) {
	rows, err := s.db.Query(
		"SELECT id, version, name, path FROM entries WHERE version = ? ORDER BY name",
		version,
	)
	if err != nil {
		return nil, fmt.Errorf("entries by version: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Version, &e.Name, &e.Path); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeclsByEntry returns an entry's declarations in insertion order.
func (s *Store) DeclsByEntry(entryID int64) ([]*Decl, error) {
	rows, err := s.db.Query(
		"SELECT id, entry_id, name, kind, line, col, aliased, parent_name FROM declarations WHERE entry_id = ? ORDER BY id",
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("declarations by entry: %w", err)
	}
	defer rows.Close()

	var decls []*Decl
	for rows.Next() {
		d := &Decl{}
		if err := rows.Scan(&d.ID, &d.EntryID, &d.Name, &d.Kind, &d.Line, &d.Col, &d.Aliased, &d.ParentName); err != nil {
			return nil, fmt.Errorf("scan declaration: %w", err)
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// RecordIndexRun upserts the run record for a version.
func (s *Store) RecordIndexRun(run *IndexRun) error {
	_, err := s.db.Exec(
		`INSERT INTO index_runs (version, root, entries, indexed_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(version) DO UPDATE SET root = excluded.root, entries = excluded.entries, indexed_at = excluded.indexed_at`,
		run.Version, run.Root, run.Entries, run.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("record index run: %w", err)
	}
	return nil
}

// IndexRunByVersion returns the run record for a version, or nil.
func (s *Store) IndexRunByVersion(version string) (*IndexRun, error) {
	run := &IndexRun{}
	var at time.Time
	err := s.db.QueryRow(
		"SELECT version, root, entries, indexed_at FROM index_runs WHERE version = ?",
		version,
	).Scan(&run.Version, &run.Root, &run.Entries, &at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index run by version: %w", err)
	}
	run.IndexedAt = at
	return run, nil
}

// GetMetadata returns the value for a metadata key, or "" when absent.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata upserts a metadata key.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}
