package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cashu-pos/internal/core/domain"
)

const (
	keyPrivateKey     = "private_key"
	keyTerminalID     = "terminal_id"
	keyApprovalStatus = "approval_status"
)

// IdentityStore implements ports.IdentityStore over the identity kv table.
type IdentityStore struct {
	db *DB
}

// NewIdentityStore creates an IdentityStore.
func NewIdentityStore(db *DB) *IdentityStore {
	return &IdentityStore{db: db}
}

func (s *IdentityStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.db.QueryRowContext(ctx, `SELECT value FROM identity WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading identity key %s: %w", key, err)
	}
	return value, nil
}

func (s *IdentityStore) put(ctx context.Context, key, value string) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO identity (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing identity key %s: %w", key, err)
	}
	return nil
}

// GetPrivateKey returns the stored key, or "" on first run.
func (s *IdentityStore) GetPrivateKey(ctx context.Context) (string, error) {
	return s.get(ctx, keyPrivateKey)
}

// SavePrivateKey persists the terminal keypair.
func (s *IdentityStore) SavePrivateKey(ctx context.Context, sk string) error {
	return s.put(ctx, keyPrivateKey, sk)
}

// GetTerminalID returns the stable terminal id, or "" on first run.
func (s *IdentityStore) GetTerminalID(ctx context.Context) (string, error) {
	return s.get(ctx, keyTerminalID)
}

// SaveTerminalID persists the generated terminal id.
func (s *IdentityStore) SaveTerminalID(ctx context.Context, id string) error {
	return s.put(ctx, keyTerminalID, id)
}

// GetApprovalStatus returns the local device's persisted standing.
func (s *IdentityStore) GetApprovalStatus(ctx context.Context) (domain.ApprovalStatus, error) {
	v, err := s.get(ctx, keyApprovalStatus)
	if err != nil {
		return domain.ApprovalNone, err
	}
	if v == "" {
		return domain.ApprovalNone, nil
	}
	return domain.ApprovalStatus(v), nil
}

// SaveApprovalStatus persists the local device's standing so a sub-terminal
// need not re-request after restart.
func (s *IdentityStore) SaveApprovalStatus(ctx context.Context, status domain.ApprovalStatus) error {
	return s.put(ctx, keyApprovalStatus, string(status))
}
