// Package sqlite implements the repository interfaces on an embedded
// SQLite database (modernc.org/sqlite — pure Go, no CGo), so the
// server ships as a single binary with a single data file.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/link-collector/internal/apperror"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests), applies the
// runtime pragmas, and runs migrations. Callers own Close.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One writer connection: SQLite serializes writes anyway, and a
	// single connection keeps ":memory:" databases from splitting into
	// one empty database per pooled connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed during writes; foreign keys are off by
	// default in SQLite and membership cascade deletes depend on them.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. Every statement is idempotent, so this
// is safe to run on an existing database.
//
// Two uniqueness constraints carry invariants rather than mere
// hygiene: collections.user_id UNIQUE enforces at-most-one collection
// per owner even under concurrent first-share requests, and
// collections.share_id UNIQUE turns a random share-id collision into
// an insert failure the sync engine retries.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			login         TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS links (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			url         TEXT NOT NULL,
			title       TEXT NOT NULL DEFAULT 'Untitled',
			description TEXT NOT NULL DEFAULT '',
			favicon     TEXT NOT NULL DEFAULT '',
			site_name   TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT 'General',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_links_user_id ON links(user_id);
		CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating links table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL UNIQUE REFERENCES users(id),
			share_id   TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL DEFAULT 'My Collection',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating collections table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS collection_links (
			collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			link_id       TEXT NOT NULL REFERENCES links(id) ON DELETE CASCADE,
			PRIMARY KEY (collection_id, link_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating collection_links table: %w", err)
	}

	return nil
}

// constraintConflict translates a SQLite unique-violation error into
// an apperror.Conflict naming the constrained column, or returns nil
// if err is not a uniqueness failure. The modernc driver surfaces
// these as "UNIQUE constraint failed: table.column" messages.
func constraintConflict(err error) *apperror.AppError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	idx := strings.Index(msg, "UNIQUE constraint failed: ")
	if idx < 0 {
		return nil
	}
	qualified := strings.TrimSpace(msg[idx+len("UNIQUE constraint failed: "):])
	column := qualified
	if dot := strings.LastIndex(qualified, "."); dot >= 0 {
		column = qualified[dot+1:]
	}
	if end := strings.IndexAny(column, " ,;("); end >= 0 {
		column = column[:end]
	}
	return apperror.Conflict(column, fmt.Sprintf("%s already exists", column))
}
