package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashu-pos/internal/core/domain"
)

// QueueStore implements ports.QueueStore for the offline payment queue.
type QueueStore struct {
	db *DB
}

// NewQueueStore creates a QueueStore.
func NewQueueStore(db *DB) *QueueStore {
	return &QueueStore{db: db}
}

// Insert appends a newly accepted payment.
func (s *QueueStore) Insert(ctx context.Context, p *domain.QueuedPayment) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO payment_queue (id, token_hash, token, amount, mint_url, received_at, status, error, transaction_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.TokenHash, p.Token, p.Amount, p.MintURL, p.ReceivedAt.Unix(), string(p.Status), p.Error, p.TransactionID)
	if err != nil {
		return fmt.Errorf("inserting payment %s: %w", p.ID, err)
	}
	return nil
}

// Update rewrites a payment's mutable fields.
func (s *QueueStore) Update(ctx context.Context, p *domain.QueuedPayment) error {
	_, err := s.db.db.ExecContext(ctx, `
		UPDATE payment_queue SET status = ?, error = ?, transaction_id = ? WHERE id = ?
	`, string(p.Status), p.Error, p.TransactionID, p.ID)
	if err != nil {
		return fmt.Errorf("updating payment %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes a payment.
func (s *QueueStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.db.ExecContext(ctx, `DELETE FROM payment_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting payment %s: %w", id, err)
	}
	return nil
}

// Get returns a payment or nil when absent.
func (s *QueueStore) Get(ctx context.Context, id string) (*domain.QueuedPayment, error) {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT id, token_hash, token, amount, mint_url, received_at, status, error, transaction_id
		FROM payment_queue WHERE id = ?
	`, id)

	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading payment %s: %w", id, err)
	}
	return p, nil
}

// List returns the full queue, oldest first.
func (s *QueueStore) List(ctx context.Context) ([]domain.QueuedPayment, error) {
	return s.list(ctx, `
		SELECT id, token_hash, token, amount, mint_url, received_at, status, error, transaction_id
		FROM payment_queue ORDER BY received_at
	`)
}

// ListByStatus returns payments in one status, oldest first.
func (s *QueueStore) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.QueuedPayment, error) {
	return s.list(ctx, `
		SELECT id, token_hash, token, amount, mint_url, received_at, status, error, transaction_id
		FROM payment_queue WHERE status = ? ORDER BY received_at
	`, string(status))
}

func (s *QueueStore) list(ctx context.Context, query string, args ...any) ([]domain.QueuedPayment, error) {
	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var out []domain.QueuedPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPayment(row rowScanner) (*domain.QueuedPayment, error) {
	var p domain.QueuedPayment
	var status string
	var receivedAt int64
	if err := row.Scan(&p.ID, &p.TokenHash, &p.Token, &p.Amount, &p.MintURL, &receivedAt, &status, &p.Error, &p.TransactionID); err != nil {
		return nil, err
	}
	p.Status = domain.PaymentStatus(status)
	p.ReceivedAt = time.Unix(receivedAt, 0).UTC()
	return &p, nil
}

// HasQueuedHash reports whether a token hash is already in the queue.
func (s *QueueStore) HasQueuedHash(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM payment_queue WHERE token_hash = ?
	`, hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking queued hash: %w", err)
	}
	return n > 0, nil
}

// DemoteProcessing returns stranded processing rows to pending. Called once
// at startup: "processing" is not crash-safe.
func (s *QueueStore) DemoteProcessing(ctx context.Context) (int, error) {
	res, err := s.db.db.ExecContext(ctx, `
		UPDATE payment_queue SET status = ? WHERE status = ?
	`, string(domain.PaymentStatusPending), string(domain.PaymentStatusProcessing))
	if err != nil {
		return 0, fmt.Errorf("demoting processing payments: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// HasProcessedHash reports whether a hash is in the processed window.
func (s *QueueStore) HasProcessedHash(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM processed_hashes WHERE hash = ?
	`, hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking processed hash: %w", err)
	}
	return n > 0, nil
}

// AddProcessedHash records a verified hash and prunes the window down to
// the newest maxKept entries.
func (s *QueueStore) AddProcessedHash(ctx context.Context, hash string, maxKept int) error {
	if _, err := s.db.db.ExecContext(ctx, `
		INSERT INTO processed_hashes (hash) VALUES (?) ON CONFLICT(hash) DO NOTHING
	`, hash); err != nil {
		return fmt.Errorf("adding processed hash: %w", err)
	}
	if _, err := s.db.db.ExecContext(ctx, `
		DELETE FROM processed_hashes WHERE rowid_seq NOT IN (
			SELECT rowid_seq FROM processed_hashes ORDER BY rowid_seq DESC LIMIT ?
		)
	`, maxKept); err != nil {
		return fmt.Errorf("pruning processed hashes: %w", err)
	}
	return nil
}

// ClearProcessed removes every non-pending row and returns the count.
func (s *QueueStore) ClearProcessed(ctx context.Context) (int, error) {
	res, err := s.db.db.ExecContext(ctx, `
		DELETE FROM payment_queue WHERE status != ?
	`, string(domain.PaymentStatusPending))
	if err != nil {
		return 0, fmt.Errorf("clearing processed payments: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
