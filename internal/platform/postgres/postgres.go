// Package postgres opens the shared database handle and owns the schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// Schema is executed at startup and by integration tests. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL,
	points        INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
	password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS reports (
	id               TEXT PRIMARY KEY,
	type             TEXT NOT NULL,
	status           TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	lat              DOUBLE PRECISION,
	lng              DOUBLE PRECISION,
	photo            TEXT NOT NULL DEFAULT '',
	priority         TEXT NOT NULL DEFAULT '',
	reported_by      TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	resolved_at      TIMESTAMPTZ,
	resolved_by      TEXT NOT NULL DEFAULT '',
	resolution_notes TEXT NOT NULL DEFAULT '',
	resolution_type  TEXT NOT NULL DEFAULT '',
	points_awarded   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS reports_status_idx ON reports (status);
CREATE INDEX IF NOT EXISTS reports_reported_by_idx ON reports (reported_by);

CREATE TABLE IF NOT EXISTS audit_entries (
	id           UUID PRIMARY KEY,
	action_type  TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	performed_by TEXT NOT NULL,
	actor_role   TEXT NOT NULL DEFAULT '',
	target_type  TEXT NOT NULL DEFAULT '',
	target_id    TEXT NOT NULL DEFAULT '',
	status_from  TEXT NOT NULL DEFAULT '',
	status_to    TEXT NOT NULL DEFAULT '',
	user_id      TEXT NOT NULL DEFAULT '',
	payload      JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS audit_entries_user_idx ON audit_entries (user_id);

CREATE TABLE IF NOT EXISTS audit_outbox (
	id           UUID PRIMARY KEY,
	event_type   TEXT NOT NULL,
	payload      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);
`

// Migrate applies the embedded schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
