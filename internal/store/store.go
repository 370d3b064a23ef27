package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z"

// Store wraps the SQLite database holding projects, sessions and app state.
// All access is serialized through an internal mutex; the single-process,
// single-writer model makes finer-grained locking unnecessary.
type Store struct {
	db    *sql.DB
	mu    sync.Mutex
	clock clockwork.Clock
}

// Open opens (or creates) the database at path and initializes the schema.
// Use ":memory:" for an in-memory database in tests.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, clockwork.NewRealClock())
}

// OpenWithClock is Open with an injectable clock for tests.
func OpenWithClock(path string, clock clockwork.Clock) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: the store is single-writer, and a second pooled
	// connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	// Keep sqlite responsive under contention.
	_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
	_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	_, _ = db.Exec("PRAGMA foreign_keys = ON;")

	s := &Store{db: db, clock: clock}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL UNIQUE,
		color       TEXT    NOT NULL DEFAULT '#4A9EFF',
		created_at  TEXT    NOT NULL,
		archived    INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS sessions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id  INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start_time  TEXT    NOT NULL,
		end_time    TEXT,
		duration    INTEGER NOT NULL DEFAULT 0,
		note        TEXT
	);
	CREATE TABLE IF NOT EXISTS app_state (
		key   TEXT PRIMARY KEY,
		value TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_start   ON sessions(start_time);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection. A running session is intentionally
// left open on disk so the next startup can recover it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// now returns the current wall-clock time in UTC at second precision.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	return t.UTC(), nil
}
