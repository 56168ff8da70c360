package ports

import (
	"context"

	"cashu-pos/internal/core/domain"

	"github.com/nbd-wtf/go-nostr"
)

// RelayTransport is the signed-event pub/sub layer. Publish signs with the
// local identity key; the transport never publishes on behalf of another
// identity. Delivery is relay-arrival order with possible duplicates, so
// every consumer must be idempotent on event id.
type RelayTransport interface {
	// Publish signs and fans the event out; it succeeds on the first relay
	// acknowledgment and fails after a bounded wait when none respond.
	// Callers own retries.
	Publish(ctx context.Context, ev *nostr.Event) error

	// Subscribe delivers matching events until the handle is closed.
	// onCaughtUp (optional) fires once stored history has been replayed.
	Subscribe(ctx context.Context, filters nostr.Filters, onEvent func(*nostr.Event), onCaughtUp func()) (Subscription, error)

	// Query is a one-shot historical catch-up.
	Query(ctx context.Context, filters nostr.Filters) ([]*nostr.Event, error)

	PublicKey() string
	Close()
}

// Subscription is an open relay subscription; Unsub is idempotent.
type Subscription interface {
	Unsub()
}

// MintClient is the trusted mint-protocol library boundary: blind-signature
// issuance, verification and key handling live behind it.
type MintClient interface {
	// Validate checks a token without redeeming it.
	Validate(ctx context.Context, token string) (*TokenInfo, error)
	// Swap redeems proofs for fresh proofs owned by the local wallet.
	Swap(ctx context.Context, mintURL string, proofs []domain.Proof) ([]domain.Proof, error)
	// Split divides proofs into keep/send sets; send totals the proofs sum
	// minus keepAmount.
	Split(ctx context.Context, mintURL string, proofs []domain.Proof, keepAmount int64) (keep, send []domain.Proof, err error)
	Encode(mintURL string, proofs []domain.Proof, memo string) (string, error)
	Decode(token string) (*domain.Token, error)
}

// TokenInfo is the mint's verdict on a token.
type TokenInfo struct {
	Valid   bool
	Amount  int64
	MintURL string
}

// Reachability reports whether the network is usable right now.
type Reachability interface {
	Online(ctx context.Context) bool
}

// TrustService is the device-trust state machine: join, approval, denial,
// revocation. It is the sole authorization boundary for sync and forwards.
type TrustService interface {
	Start(ctx context.Context) error
	RequestJoin(ctx context.Context) error
	ApproveDevice(ctx context.Context, terminalID string) error
	DenyDevice(ctx context.Context, terminalID string) error
	RevokeDevice(ctx context.Context, terminalID string) error
	IsApproved(terminalID string) bool
	// TrustedSender reports whether an inbound event signed by pubkey and
	// claiming terminalID may mutate local state. The main terminal's own
	// events are always trusted.
	TrustedSender(pubkey, terminalID string) bool
	LocalStatus() domain.ApprovalStatus
	ApprovedDevices(ctx context.Context) ([]domain.ApprovedDevice, error)
	PendingRequests() []domain.JoinRequest
	Close()
}

// SyncService converges entity state across terminals.
type SyncService interface {
	Start(ctx context.Context) error
	PublishChange(ctx context.Context, rec *domain.SyncRecord) error
	PublishDeletion(ctx context.Context, entityID string, kind domain.EntityKind) error
	PublishTransaction(ctx context.Context, tx *domain.TransactionRecord) error
	HandleInboundEvent(ctx context.Context, ev *nostr.Event) error
	CatchUp(ctx context.Context) error
	Close()
}

// ForwardService moves received funds from a sub-terminal to the main
// terminal over the encrypted forward channel.
type ForwardService interface {
	Start(ctx context.Context) error
	Forward(ctx context.Context, transactionID, token string) (*domain.PendingForward, error)
	Resend(ctx context.Context, forwardID string) (*domain.PendingForward, error)
	PendingForwards(ctx context.Context) ([]domain.PendingForward, error)
	Close()
}

// OfflineQueueService accepts provisional payments while disconnected and
// verifies them when connectivity returns.
type OfflineQueueService interface {
	Start(ctx context.Context) error
	QueuePayment(ctx context.Context, tokenString string) (*domain.QueuedPayment, error)
	ProcessQueue(ctx context.Context) error
	RetryPayment(ctx context.Context, id string) error
	RemovePayment(ctx context.Context, id string) error
	ClearProcessed(ctx context.Context) (int, error)
	Status(ctx context.Context) (*domain.QueueStatus, error)
	List(ctx context.Context) ([]domain.QueuedPayment, error)
	Close()
}

// ChangeMaker extracts an exact amount from a wallet's proofs, splitting at
// the mint when the greedy selection overshoots.
type ChangeMaker interface {
	SelectForAmount(ctx context.Context, mintURL string, available []domain.Proof, target int64) (send, keep []domain.Proof, err error)
}
