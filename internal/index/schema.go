// Package index provides the SQLite-backed event snapshot used to restore
// the in-memory store across restarts.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	id             TEXT PRIMARY KEY,
	series_id      TEXT NOT NULL DEFAULT '',
	title          TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	start_at       DATETIME NOT NULL,
	end_at         DATETIME NOT NULL,
	category_id    TEXT NOT NULL DEFAULT '',
	all_day        INTEGER NOT NULL DEFAULT 0,
	recurring      INTEGER NOT NULL DEFAULT 0,
	pattern        TEXT NOT NULL DEFAULT '',
	interval       INTEGER NOT NULL DEFAULT 0,
	recurrence_end DATETIME,
	type           TEXT NOT NULL DEFAULT 'event',
	completed      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_events_series ON events(series_id);
CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_at);
`

// DB wraps a sql.DB with snapshot-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
