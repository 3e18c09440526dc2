// Package store owns the single SQLite write connection: schema, session
// pragmas, and the Worker that serializes every mutation through a command
// queue. Grounded on canopy's internal/store database-access style (one
// *sql.DB behind a small Store type, schema as a DDL constant, idempotent
// migration) and on
// the original engine's storage/mod.rs for pragma names/values and on
// entities/container.rs for the upsert idiom.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Pragmas holds the four session-level SQLite pragmas the store applies on
// open. Each is issued as its own PRAGMA statement (not a DSN query
// parameter) so that a failure to apply one is individually attributable,
// matching the original's per-pragma logging.
type Pragmas struct {
	JournalMode string
	CacheSize   string
	TempStore   string
	LockingMode string
}

// DefaultPragmas matches the defaults in the recognized configuration keys.
func DefaultPragmas() Pragmas {
	return Pragmas{
		JournalMode: "WAL",
		CacheSize:   "-2000",
		TempStore:   "MEMORY",
		LockingMode: "EXCLUSIVE",
	}
}

// Store owns the single SQLite connection. No other package may hold a
// *sql.DB for this file; all mutation goes through Worker's command queue.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite file at path, applies the
// session pragmas, and runs the idempotent schema migration. Any failure
// here is an InitializationError: the caller must treat it as fatal and
// must not start the storage worker.
func Open(path string, pragmas Pragmas) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &InitializationError{Err: fmt.Errorf("open %s: %w", path, err)}
	}
	// The storage worker is the sole writer; one connection avoids sqlite's
	// "database is locked" surprises under concurrent access from this process.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &InitializationError{Err: fmt.Errorf("ping %s: %w", path, err)}
	}

	s := &Store{db: db}
	if err := s.applyPragmas(pragmas); err != nil {
		db.Close()
		return nil, &InitializationError{Err: err}
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &InitializationError{Err: err}
	}
	return s, nil
}

func (s *Store) applyPragmas(p Pragmas) error {
	statements := []string{
		fmt.Sprintf("PRAGMA journal_mode = %s", p.JournalMode),
		fmt.Sprintf("PRAGMA cache_size = %s", p.CacheSize),
		fmt.Sprintf("PRAGMA temp_store = %s", p.TempStore),
		fmt.Sprintf("PRAGMA locking_mode = %s", p.LockingMode),
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}
	return nil
}

// DB returns the underlying *sql.DB. Only the storage Worker should call
// this; every other package talks to the store through StorageCommand.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// schemaDDL is purely additive and safe to re-run: every statement is
// CREATE ... IF NOT EXISTS. The schema is container-keyed, not path-keyed —
// documents never carry a top-level path column; documents_view synthesizes
// one for read access.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS containers (
	id   INTEGER PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_containers_path ON containers(path);

CREATE TABLE IF NOT EXISTS documents (
	id           INTEGER PRIMARY KEY,
	filename     TEXT NOT NULL,
	extension    TEXT,
	status       TEXT NOT NULL DEFAULT 'New',
	container_id INTEGER NOT NULL REFERENCES containers(id),
	UNIQUE(filename, container_id)
);

CREATE VIRTUAL TABLE IF NOT EXISTS index_documents USING fts5 (
	document_id UNINDEXED,
	content,
	description
);

CREATE VIEW IF NOT EXISTS documents_view AS
SELECT
	d.id          AS id,
	d.filename    AS filename,
	d.extension   AS extension,
	d.status      AS status,
	d.container_id AS container_id,
	c.path || '/' || d.filename AS path
FROM documents d
JOIN containers c ON c.id = d.container_id
ORDER BY d.container_id, d.id;
`
