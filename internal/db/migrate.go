package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id         TEXT PRIMARY KEY,
		channel    TEXT NOT NULL DEFAULT 'cli'
		           CHECK(channel IN ('cli','http')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		role       TEXT NOT NULL CHECK(role IN ('user','assistant')),
		text       TEXT NOT NULL,
		label      TEXT NOT NULL DEFAULT '',
		score      REAL NOT NULL DEFAULT 0,
		is_crisis  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE(session_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, seq)`,

	`CREATE TABLE IF NOT EXISTS screening_results (
		id           TEXT PRIMARY KEY,
		channel      TEXT NOT NULL DEFAULT 'cli'
		             CHECK(channel IN ('cli','http')),
		total        INTEGER NOT NULL CHECK(total BETWEEN 0 AND 27),
		band         TEXT NOT NULL,
		answers      TEXT NOT NULL,
		completed_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_screening_results_completed ON screening_results(completed_at)`,
}
