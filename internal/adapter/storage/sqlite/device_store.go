package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashu-pos/internal/core/domain"
)

// DeviceStore implements ports.DeviceStore. The terminal_id primary key
// keeps the approved set de-duplicated.
type DeviceStore struct {
	db *DB
}

// NewDeviceStore creates a DeviceStore.
func NewDeviceStore(db *DB) *DeviceStore {
	return &DeviceStore{db: db}
}

// Upsert inserts or refreshes an approved device.
func (s *DeviceStore) Upsert(ctx context.Context, device *domain.ApprovedDevice) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO devices (terminal_id, name, pubkey, role, approved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(terminal_id) DO UPDATE SET
			name        = excluded.name,
			pubkey      = excluded.pubkey,
			role        = excluded.role,
			approved_at = excluded.approved_at
	`, device.TerminalID, device.TerminalName, device.TerminalPubkey, string(device.Role), device.ApprovedAt.Unix())
	if err != nil {
		return fmt.Errorf("upserting device %s: %w", device.TerminalID, err)
	}
	return nil
}

// Remove deletes a device; removing an absent id is a no-op.
func (s *DeviceStore) Remove(ctx context.Context, terminalID string) error {
	_, err := s.db.db.ExecContext(ctx, `DELETE FROM devices WHERE terminal_id = ?`, terminalID)
	if err != nil {
		return fmt.Errorf("removing device %s: %w", terminalID, err)
	}
	return nil
}

// Get returns a device or nil when absent.
func (s *DeviceStore) Get(ctx context.Context, terminalID string) (*domain.ApprovedDevice, error) {
	row := s.db.db.QueryRowContext(ctx, `
		SELECT terminal_id, name, pubkey, role, approved_at FROM devices WHERE terminal_id = ?
	`, terminalID)

	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading device %s: %w", terminalID, err)
	}
	return d, nil
}

// List returns every approved device.
func (s *DeviceStore) List(ctx context.Context) ([]domain.ApprovedDevice, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT terminal_id, name, pubkey, role, approved_at FROM devices ORDER BY approved_at
	`)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	var out []domain.ApprovedDevice
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*domain.ApprovedDevice, error) {
	var d domain.ApprovedDevice
	var role string
	var approvedAt int64
	if err := row.Scan(&d.TerminalID, &d.TerminalName, &d.TerminalPubkey, &role, &approvedAt); err != nil {
		return nil, err
	}
	d.Role = domain.TerminalRole(role)
	d.ApprovedAt = time.Unix(approvedAt, 0).UTC()
	return &d, nil
}
