package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashu-pos/internal/core/domain"
)

// ForwardStore implements ports.ForwardStore for the sender-side
// pending-forward set.
type ForwardStore struct {
	db *DB
}

// NewForwardStore creates a ForwardStore.
func NewForwardStore(db *DB) *ForwardStore {
	return &ForwardStore{db: db}
}

// Insert records a freshly sent forward.
func (s *ForwardStore) Insert(ctx context.Context, f *domain.PendingForward) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO forwards (id, transaction_id, terminal_id, amount, token, mint_url, created_at, status, error, sent_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.Envelope.ID, f.Envelope.TransactionID, f.Envelope.TerminalID, f.Envelope.Amount,
		f.Envelope.Token, f.Envelope.MintURL, f.Envelope.CreatedAt.Unix(),
		string(f.Status), f.Error, f.SentAt.Unix(), nullableUnix(f.ResolvedAt))
	if err != nil {
		return fmt.Errorf("inserting forward %s: %w", f.Envelope.ID, err)
	}
	return nil
}

// Update rewrites a forward's status fields.
func (s *ForwardStore) Update(ctx context.Context, f *domain.PendingForward) error {
	_, err := s.db.db.ExecContext(ctx, `
		UPDATE forwards SET status = ?, error = ?, resolved_at = ? WHERE id = ?
	`, string(f.Status), f.Error, nullableUnix(f.ResolvedAt), f.Envelope.ID)
	if err != nil {
		return fmt.Errorf("updating forward %s: %w", f.Envelope.ID, err)
	}
	return nil
}

// Get returns a forward or nil when absent.
func (s *ForwardStore) Get(ctx context.Context, id string) (*domain.PendingForward, error) {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT id, transaction_id, terminal_id, amount, token, mint_url, created_at, status, error, sent_at, resolved_at
		FROM forwards WHERE id = ?
	`, id)

	f, err := scanForward(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading forward %s: %w", id, err)
	}
	return f, nil
}

// List returns every forward, oldest first.
func (s *ForwardStore) List(ctx context.Context) ([]domain.PendingForward, error) {
	return s.list(ctx, `
		SELECT id, transaction_id, terminal_id, amount, token, mint_url, created_at, status, error, sent_at, resolved_at
		FROM forwards ORDER BY sent_at
	`)
}

// ListPending returns unacknowledged forwards, oldest first.
func (s *ForwardStore) ListPending(ctx context.Context) ([]domain.PendingForward, error) {
	return s.list(ctx, `
		SELECT id, transaction_id, terminal_id, amount, token, mint_url, created_at, status, error, sent_at, resolved_at
		FROM forwards WHERE status = ? ORDER BY sent_at
	`, string(domain.ForwardStatusPending))
}

func (s *ForwardStore) list(ctx context.Context, query string, args ...any) ([]domain.PendingForward, error) {
	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing forwards: %w", err)
	}
	defer rows.Close()

	var out []domain.PendingForward
	for rows.Next() {
		f, err := scanForward(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning forward: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func scanForward(row rowScanner) (*domain.PendingForward, error) {
	var f domain.PendingForward
	var status string
	var createdAt, sentAt int64
	var resolvedAt sql.NullInt64
	if err := row.Scan(&f.Envelope.ID, &f.Envelope.TransactionID, &f.Envelope.TerminalID,
		&f.Envelope.Amount, &f.Envelope.Token, &f.Envelope.MintURL, &createdAt,
		&status, &f.Error, &sentAt, &resolvedAt); err != nil {
		return nil, err
	}
	f.Status = domain.ForwardStatus(status)
	f.Envelope.CreatedAt = time.Unix(createdAt, 0).UTC()
	f.SentAt = time.Unix(sentAt, 0).UTC()
	if resolvedAt.Valid {
		t := time.Unix(resolvedAt.Int64, 0).UTC()
		f.ResolvedAt = &t
	}
	return &f, nil
}

func nullableUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
