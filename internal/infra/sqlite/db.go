// Package sqlite persists the time-bank state: users, services, projects,
// contributions, id counters, and the operation journal.
//
// The database is a single file under the data directory. Migrations are
// plain statement slices executed one at a time (SQLite runs one statement
// per Exec).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo
)

// DB wraps the SQLite handle for the time-bank store.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database under dir and applies migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, "hourbank.db")

	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// The ledger core is single-writer; one connection keeps SQLite's
	// locking out of the picture entirely.
	sqldb.SetMaxOpenConns(1)

	db := &DB{db: sqldb, path: path}
	if err := db.migrate(); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database.
func (db *DB) Close() error { return db.db.Close() }

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema migration statements.
// Each string is a single SQL statement.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id           INTEGER PRIMARY KEY,
			time_balance INTEGER NOT NULL DEFAULT 0,
			reputation   INTEGER NOT NULL DEFAULT 100,
			skills_json  TEXT NOT NULL DEFAULT '[]'
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id          INTEGER PRIMARY KEY,
			provider    INTEGER NOT NULL,
			seeker      INTEGER NOT NULL DEFAULT 0,
			duration    INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'OFFERED'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_services_provider ON services(provider)`,
		`CREATE INDEX IF NOT EXISTS idx_services_status ON services(status)`,

		`CREATE TABLE IF NOT EXISTS projects (
			id              INTEGER PRIMARY KEY,
			name            TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			req_skills_json TEXT NOT NULL DEFAULT '[]',
			total_hours     INTEGER NOT NULL,
			status          TEXT NOT NULL DEFAULT 'OPEN'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,

		// Composite primary key — one running total per (project, user).
		`CREATE TABLE IF NOT EXISTS contributions (
			project_id INTEGER NOT NULL,
			user_id    INTEGER NOT NULL,
			hours      INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (project_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contrib_project ON contributions(project_id)`,

		// Monotonic id counters, one row per counter name.
		`CREATE TABLE IF NOT EXISTS counters (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)`,

		// Append-only operation journal.
		`CREATE TABLE IF NOT EXISTS journal (
			id         TEXT PRIMARY KEY,
			op         TEXT NOT NULL,
			caller     INTEGER NOT NULL DEFAULT 0,
			entity     INTEGER NOT NULL DEFAULT 0,
			amount     INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_op ON journal(op)`,
	}
}
