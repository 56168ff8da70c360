package domain

import "time"

// PaymentStatus is the one-way progression of an offline-accepted payment:
// pending -> processing -> verified | failed. Duplicates never enter pending.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusVerified   PaymentStatus = "verified"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusDuplicate  PaymentStatus = "duplicate"
)

// QueuedPayment is a provisionally accepted token awaiting verification
// against its mint.
type QueuedPayment struct {
	ID            string        `json:"id"`
	TokenHash     string        `json:"token_hash"`
	Token         string        `json:"token"` // original encoded token, needed for redemption
	Amount        int64         `json:"amount"`
	MintURL       string        `json:"mint_url"`
	ReceivedAt    time.Time     `json:"received_at"`
	Status        PaymentStatus `json:"status"`
	Error         string        `json:"error,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"` // stamped on verification
}

// QueueLimits bound the risk taken while accepting unverified tokens.
type QueueLimits struct {
	MaxSinglePayment int64
	MaxPendingCount  int
	MaxPendingAmount int64
}

// QueueStatus is the operator-facing queue summary.
type QueueStatus struct {
	PendingCount   int   `json:"pending_count"`
	PendingAmount  int64 `json:"pending_amount"`
	VerifiedCount  int   `json:"verified_count"`
	VerifiedAmount int64 `json:"verified_amount"`
	FailedCount    int   `json:"failed_count"`
}
