package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"
)

// SyncStore implements ports.SyncStore: converged entities, append-only
// transactions, checkpoints and the durable outbox.
type SyncStore struct {
	db *DB
}

// NewSyncStore creates a SyncStore.
func NewSyncStore(db *DB) *SyncStore {
	return &SyncStore{db: db}
}

// GetRecord returns the local copy of an entity, or nil when absent.
func (s *SyncStore) GetRecord(ctx context.Context, id string) (*domain.SyncRecord, error) {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT id, kind, version, updated_at, updated_by, deleted, payload
		FROM sync_records WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", id, err)
	}
	return rec, nil
}

// PutRecord writes the accepted copy of an entity.
func (s *SyncStore) PutRecord(ctx context.Context, rec *domain.SyncRecord) error {
	deleted := 0
	if rec.Deleted {
		deleted = 1
	}
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO sync_records (id, kind, version, updated_at, updated_by, deleted, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind       = excluded.kind,
			version    = excluded.version,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by,
			deleted    = excluded.deleted,
			payload    = excluded.payload
	`, rec.ID, string(rec.Kind), rec.Version, rec.UpdatedAt.UnixNano(), rec.UpdatedBy, deleted, []byte(rec.Payload))
	if err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecords returns the live (non-deleted) records of one kind.
func (s *SyncStore) ListRecords(ctx context.Context, kind domain.EntityKind) ([]domain.SyncRecord, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT id, kind, version, updated_at, updated_by, deleted, payload
		FROM sync_records WHERE kind = ? AND deleted = 0 ORDER BY id
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing %s records: %w", kind, err)
	}
	defer rows.Close()

	var out []domain.SyncRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (*domain.SyncRecord, error) {
	var rec domain.SyncRecord
	var kind string
	var updatedAt int64
	var deleted int
	var payload []byte
	if err := row.Scan(&rec.ID, &kind, &rec.Version, &updatedAt, &rec.UpdatedBy, &deleted, &payload); err != nil {
		return nil, err
	}
	rec.Kind = domain.EntityKind(kind)
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	rec.Deleted = deleted == 1
	rec.Payload = payload
	return &rec, nil
}

// PutTransaction appends a financial record; an existing id is left
// untouched, records are never overwritten.
func (s *SyncStore) PutTransaction(ctx context.Context, tx *domain.TransactionRecord) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO transactions (id, terminal_id, merchant_id, amount, mint_url, status, memo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, tx.ID, tx.TerminalID, tx.MerchantID, tx.Amount, tx.MintURL, string(tx.Status), tx.Memo, tx.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("appending transaction %s: %w", tx.ID, err)
	}
	return nil
}

// HasTransaction reports whether a record with the id exists.
func (s *SyncStore) HasTransaction(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM transactions WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking transaction %s: %w", id, err)
	}
	return n > 0, nil
}

// GetCheckpoint returns the terminal's low-water mark, zero when unknown.
func (s *SyncStore) GetCheckpoint(ctx context.Context, terminalID string) (int64, error) {
	var ts int64
	err := s.db.db.QueryRowContext(ctx, `
		SELECT last_sync_ts FROM checkpoints WHERE terminal_id = ?
	`, terminalID).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading checkpoint: %w", err)
	}
	return ts, nil
}

// SaveCheckpoint advances the low-water mark; it never moves backwards.
func (s *SyncStore) SaveCheckpoint(ctx context.Context, terminalID string, ts int64) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO checkpoints (terminal_id, last_sync_ts) VALUES (?, ?)
		ON CONFLICT(terminal_id) DO UPDATE SET
			last_sync_ts = max(excluded.last_sync_ts, checkpoints.last_sync_ts)
	`, terminalID, ts)
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// AppendOutbox queues a change for retry-until-success publishing.
func (s *SyncStore) AppendOutbox(ctx context.Context, payload []byte) (int64, error) {
	res, err := s.db.db.ExecContext(ctx, `INSERT INTO outbox (payload) VALUES (?)`, payload)
	if err != nil {
		return 0, fmt.Errorf("appending outbox: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading outbox seq: %w", err)
	}
	return seq, nil
}

// ListOutbox returns the oldest undelivered entries.
func (s *SyncStore) ListOutbox(ctx context.Context, limit int) ([]ports.OutboxEntry, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT seq, payload FROM outbox ORDER BY seq LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing outbox: %w", err)
	}
	defer rows.Close()

	var out []ports.OutboxEntry
	for rows.Next() {
		var e ports.OutboxEntry
		if err := rows.Scan(&e.Seq, &e.Payload); err != nil {
			return nil, fmt.Errorf("scanning outbox entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RemoveOutbox deletes an entry after confirmed publish.
func (s *SyncStore) RemoveOutbox(ctx context.Context, seq int64) error {
	_, err := s.db.db.ExecContext(ctx, `DELETE FROM outbox WHERE seq = ?`, seq)
	if err != nil {
		return fmt.Errorf("removing outbox entry %d: %w", seq, err)
	}
	return nil
}
