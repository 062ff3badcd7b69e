package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		logrus.Debugf("store: migrating schema from v%d to v1", version)
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS exercises (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		section     TEXT NOT NULL DEFAULT 'Unknown',
		hidden      INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		UNIQUE(name, section)
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		exercise_id INTEGER REFERENCES exercises(id) ON DELETE SET NULL,
		reps        INTEGER NOT NULL DEFAULT 0,
		weight      REAL NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_user_created ON workouts(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_workouts_exercise     ON workouts(exercise_id);

	CREATE TABLE IF NOT EXISTS muscle_targets (
		user_id   TEXT NOT NULL,
		section   TEXT NOT NULL,
		ratio     REAL NOT NULL,
		position  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, section)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('unit',              'kg'),
		('balance_tolerance', '0.05'),
		('show_tips',         'on');

	INSERT OR IGNORE INTO exercises (name, section) VALUES
		('Squat',          'Legs'),
		('Romanian Deadlift', 'Legs'),
		('Deadlift',       'Back'),
		('Barbell Row',    'Back'),
		('Bench Press',    'Chest'),
		('Overhead Press', 'Shoulders'),
		('Barbell Curl',   'Arms');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/liftr/liftr.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "liftr", "liftr.db"), nil
}
