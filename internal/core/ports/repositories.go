package ports

import (
	"context"

	"cashu-pos/internal/core/domain"
)

// IdentityStore persists the terminal keypair and its approval standing.
// The keypair is created on first run and never rotated.
type IdentityStore interface {
	GetPrivateKey(ctx context.Context) (string, error) // "" when absent
	SavePrivateKey(ctx context.Context, sk string) error
	GetTerminalID(ctx context.Context) (string, error) // "" when absent
	SaveTerminalID(ctx context.Context, id string) error
	GetApprovalStatus(ctx context.Context) (domain.ApprovalStatus, error)
	SaveApprovalStatus(ctx context.Context, status domain.ApprovalStatus) error
}

// DeviceStore persists the approved-device set, de-duplicated by terminal id.
type DeviceStore interface {
	Upsert(ctx context.Context, device *domain.ApprovedDevice) error
	Remove(ctx context.Context, terminalID string) error
	Get(ctx context.Context, terminalID string) (*domain.ApprovedDevice, error)
	List(ctx context.Context) ([]domain.ApprovedDevice, error)
}

// SyncStore persists converged entities, financial records, the outbound
// queue, and the per-terminal checkpoint.
type SyncStore interface {
	GetRecord(ctx context.Context, id string) (*domain.SyncRecord, error)
	PutRecord(ctx context.Context, rec *domain.SyncRecord) error
	ListRecords(ctx context.Context, kind domain.EntityKind) ([]domain.SyncRecord, error)

	// Transactions are append-only; Put fails silently into a no-op when the
	// id already exists and HasTransaction reports existence.
	PutTransaction(ctx context.Context, tx *domain.TransactionRecord) error
	HasTransaction(ctx context.Context, id string) (bool, error)

	GetCheckpoint(ctx context.Context, terminalID string) (int64, error)
	SaveCheckpoint(ctx context.Context, terminalID string, ts int64) error

	// Outbox: durable retry-until-success publishing, keyed by an
	// auto-incrementing sequence.
	AppendOutbox(ctx context.Context, payload []byte) (int64, error)
	ListOutbox(ctx context.Context, limit int) ([]OutboxEntry, error)
	RemoveOutbox(ctx context.Context, seq int64) error
}

// OutboxEntry is one not-yet-published change.
type OutboxEntry struct {
	Seq     int64
	Payload []byte
}

// QueueStore persists the offline payment queue and the bounded
// processed-hash window.
type QueueStore interface {
	Insert(ctx context.Context, p *domain.QueuedPayment) error
	Update(ctx context.Context, p *domain.QueuedPayment) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.QueuedPayment, error)
	List(ctx context.Context) ([]domain.QueuedPayment, error)
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.QueuedPayment, error)
	HasQueuedHash(ctx context.Context, hash string) (bool, error)

	// Stranded processing rows re-enter pending on startup.
	DemoteProcessing(ctx context.Context) (int, error)

	// Processed-hash window, pruned to the newest maxKept entries.
	HasProcessedHash(ctx context.Context, hash string) (bool, error)
	AddProcessedHash(ctx context.Context, hash string, maxKept int) error

	// ClearProcessed removes every non-pending row.
	ClearProcessed(ctx context.Context) (int, error)
}

// ForwardStore persists the sender-side pending-forward set.
type ForwardStore interface {
	Insert(ctx context.Context, f *domain.PendingForward) error
	Update(ctx context.Context, f *domain.PendingForward) error
	Get(ctx context.Context, id string) (*domain.PendingForward, error)
	List(ctx context.Context) ([]domain.PendingForward, error)
	ListPending(ctx context.Context) ([]domain.PendingForward, error)
}
