// Package sqlite persists the terminal's local state: identity, trust,
// converged entities, the offline payment queue and the forward set.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite handle shared by the store types.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the terminal database and applies the
// schema. Path ":memory:" is valid for tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A POS terminal is a single process; one writer avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, stmt := range migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	return &DB{db: db}, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS identity (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS devices (
			terminal_id TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			pubkey      TEXT NOT NULL,
			role        TEXT NOT NULL,
			approved_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sync_records (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			version    INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			updated_by TEXT NOT NULL,
			deleted    INTEGER NOT NULL DEFAULT 0,
			payload    BLOB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_records_kind ON sync_records(kind)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			terminal_id TEXT NOT NULL,
			merchant_id TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			mint_url    TEXT NOT NULL,
			status      TEXT NOT NULL,
			memo        TEXT NOT NULL DEFAULT '',
			created_at  INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS checkpoints (
			terminal_id  TEXT PRIMARY KEY,
			last_sync_ts INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS outbox (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			payload    BLOB NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (unixepoch())
		)`,

		`CREATE TABLE IF NOT EXISTS payment_queue (
			id             TEXT PRIMARY KEY,
			token_hash     TEXT NOT NULL,
			token          TEXT NOT NULL,
			amount         INTEGER NOT NULL,
			mint_url       TEXT NOT NULL,
			received_at    INTEGER NOT NULL,
			status         TEXT NOT NULL,
			error          TEXT NOT NULL DEFAULT '',
			transaction_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_queue_status ON payment_queue(status)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_queue_hash ON payment_queue(token_hash)`,

		`CREATE TABLE IF NOT EXISTS processed_hashes (
			rowid_seq    INTEGER PRIMARY KEY AUTOINCREMENT,
			hash         TEXT NOT NULL UNIQUE,
			processed_at INTEGER NOT NULL DEFAULT (unixepoch())
		)`,

		`CREATE TABLE IF NOT EXISTS forwards (
			id             TEXT PRIMARY KEY,
			transaction_id TEXT NOT NULL,
			terminal_id    TEXT NOT NULL,
			amount         INTEGER NOT NULL,
			token          TEXT NOT NULL,
			mint_url       TEXT NOT NULL,
			created_at     INTEGER NOT NULL,
			status         TEXT NOT NULL,
			error          TEXT NOT NULL DEFAULT '',
			sent_at        INTEGER NOT NULL,
			resolved_at    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forwards_status ON forwards(status)`,
	}
}

// HealthCheck implements ports.HealthChecker against the local database.
type HealthCheck struct {
	db *DB
}

// NewHealthCheck creates a sqlite health checker.
func NewHealthCheck(db *DB) *HealthCheck {
	return &HealthCheck{db: db}
}

// Ping verifies the database answers.
func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.db.db.PingContext(ctx)
}

// Name returns "sqlite".
func (h *HealthCheck) Name() string {
	return "sqlite"
}
