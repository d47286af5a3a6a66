package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the embedded SQLite store behind every repository. All query
// methods live on it, split by entity across files in this package.
type Store struct {
	db       *sql.DB
	notifier *Notifier
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single writer keeps sqlite happy under concurrent handlers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, notifier: newNotifier()}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS teachers (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		surname     TEXT NOT NULL,
		email       TEXT NOT NULL DEFAULT '',
		password    TEXT NOT NULL DEFAULT '',
		phone       TEXT,
		photo       TEXT,
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS groups (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		subject     TEXT NOT NULL,
		schedule    TEXT,
		description TEXT,
		teacher_id  INTEGER NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS students (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		surname     TEXT NOT NULL,
		code        TEXT NOT NULL UNIQUE,
		email       TEXT,
		photo       TEXT,
		group_id    INTEGER NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id  INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		group_id    INTEGER NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		date        INTEGER NOT NULL,
		status      TEXT NOT NULL,
		notes       TEXT,
		recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(student_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_groups_teacher      ON groups(teacher_id);
	CREATE INDEX IF NOT EXISTS idx_students_group      ON students(group_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_student  ON attendance_records(student_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_group    ON attendance_records(group_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_date     ON attendance_records(date);
	`
	_, err := db.Exec(schema)
	return err
}

// Changes exposes the live-query notifier.
func (s *Store) Changes() *Notifier { return s.notifier }

// Close closes the underlying connection and drops all subscribers.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.notifier.closeAll()
	return s.db.Close()
}
