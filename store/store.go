// Package store persists type and method references in SQLite, keyed by
// the reference's content digest.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/metaref/metadata"
	"github.com/chazu/metaref/name"
	"github.com/chazu/metaref/ref"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested reference is not stored.
var ErrNotFound = errors.New("reference not found")

// ErrNotRoundTrippable is returned by Put for a type or method whose
// canonical text does not parse back to an equal reference, such as one
// with a nested generic placeholder or a bracket inside a name.
var ErrNotRoundTrippable = errors.New("reference does not survive a canonical round trip")

const schema = `
CREATE TABLE IF NOT EXISTS type_refs (
	digest    BLOB PRIMARY KEY,
	canonical TEXT NOT NULL,
	kind      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS type_refs_canonical ON type_refs(canonical);
CREATE TABLE IF NOT EXISTS method_refs (
	type_digest BLOB NOT NULL,
	position    INTEGER NOT NULL,
	canonical   TEXT NOT NULL,
	PRIMARY KEY (type_digest, position)
);
`

// Store is a SQLite-backed reference index.
type Store struct {
	db     *sql.DB
	path   string
	parser *ref.Parser
	mu     sync.Mutex
}

// Open opens (creating if needed) the index database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{
		db:     db,
		path:   path,
		parser: ref.NewParser(name.NewTable()),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Put stores e, replacing any entry with the same type digest.
func (s *Store) Put(e metadata.Entry) error {
	canonical := ref.Encode(e.Type)
	if !e.Type.IsGeneric() {
		if t, err := ref.ParseType(canonical); err != nil || !t.Equal(e.Type) {
			return fmt.Errorf("storing %s: %w", canonical, ErrNotRoundTrippable)
		}
	}
	methods := make([]string, len(e.Methods))
	for i, m := range e.Methods {
		methods[i] = ref.EncodeMethod(m)
		if parsed, err := ref.ParseMethod(methods[i]); err != nil || !parsed.Equal(m) {
			return fmt.Errorf("storing %s method %s: %w", canonical, methods[i], ErrNotRoundTrippable)
		}
	}
	digest := e.Type.Digest()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO type_refs (digest, canonical, kind) VALUES (?, ?, ?)",
		digest[:], canonical, int(e.Type.Kind()),
	); err != nil {
		return fmt.Errorf("saving type: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM method_refs WHERE type_digest = ?", digest[:]); err != nil {
		return fmt.Errorf("clearing methods: %w", err)
	}
	for i, text := range methods {
		if _, err := tx.Exec(
			"INSERT INTO method_refs (type_digest, position, canonical) VALUES (?, ?, ?)",
			digest[:], i, text,
		); err != nil {
			return fmt.Errorf("saving method: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// PutAll stores every entry.
func (s *Store) PutAll(entries []metadata.Entry) error {
	for _, e := range entries {
		if err := s.Put(e); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves the entry with the given type digest.
func (s *Store) Get(digest [32]byte) (metadata.Entry, error) {
	var canonical string
	var kind int
	err := s.db.QueryRow(
		"SELECT canonical, kind FROM type_refs WHERE digest = ?", digest[:],
	).Scan(&canonical, &kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return metadata.Entry{}, ErrNotFound
		}
		return metadata.Entry{}, fmt.Errorf("querying type: %w", err)
	}
	return s.load(digest, canonical, ref.Kind(kind))
}

// Find retrieves the entry whose type has the given canonical text.
func (s *Store) Find(canonical string) (metadata.Entry, error) {
	var digest []byte
	var kind int
	err := s.db.QueryRow(
		"SELECT digest, kind FROM type_refs WHERE canonical = ? LIMIT 1", canonical,
	).Scan(&digest, &kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return metadata.Entry{}, ErrNotFound
		}
		return metadata.Entry{}, fmt.Errorf("querying type: %w", err)
	}
	var d [32]byte
	copy(d[:], digest)
	return s.load(d, canonical, ref.Kind(kind))
}

// Count returns the number of stored types.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM type_refs").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting types: %w", err)
	}
	return n, nil
}

// Delete removes the entry with the given type digest.
func (s *Store) Delete(digest [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM type_refs WHERE digest = ?", digest[:])
	if err != nil {
		return fmt.Errorf("deleting type: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting type: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec("DELETE FROM method_refs WHERE type_digest = ?", digest[:]); err != nil {
		return fmt.Errorf("deleting methods: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func (s *Store) load(digest [32]byte, canonical string, kind ref.Kind) (metadata.Entry, error) {
	var e metadata.Entry
	if kind == ref.KindGeneric {
		// Placeholders are stored in their canonical form, which lacks '@'.
		e.Type = ref.Generic(name.New(canonical))
	} else {
		t, err := s.parser.ParseType(canonical)
		if err != nil {
			return metadata.Entry{}, fmt.Errorf("decoding stored type: %w", err)
		}
		e.Type = t
	}

	rows, err := s.db.Query(
		"SELECT canonical FROM method_refs WHERE type_digest = ? ORDER BY position", digest[:],
	)
	if err != nil {
		return metadata.Entry{}, fmt.Errorf("querying methods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return metadata.Entry{}, fmt.Errorf("scanning method: %w", err)
		}
		m, err := s.parser.ParseMethod(text)
		if err != nil {
			return metadata.Entry{}, fmt.Errorf("decoding stored method: %w", err)
		}
		e.Methods = append(e.Methods, m)
	}
	if err := rows.Err(); err != nil {
		return metadata.Entry{}, fmt.Errorf("iterating methods: %w", err)
	}
	return e, nil
}
