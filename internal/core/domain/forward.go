package domain

import "time"

// ForwardStatus tracks a pending forward on the sending sub-terminal.
type ForwardStatus string

const (
	ForwardStatusPending ForwardStatus = "pending"
	ForwardStatusAcked   ForwardStatus = "acked"
	ForwardStatusFailed  ForwardStatus = "failed"
	ForwardStatusExpired ForwardStatus = "expired"
	ForwardStatusResent  ForwardStatus = "resent"
)

// TokenForwardEnvelope is the encrypted payload a sub-terminal hands to the
// main terminal. A sub-terminal never retains customer funds; every received
// proof set travels in one of these.
type TokenForwardEnvelope struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	TerminalID    string    `json:"terminal_id"`
	Amount        int64     `json:"amount"` // sats
	Token         string    `json:"token"`  // encoded cashu token
	MintURL       string    `json:"mint_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// ForwardReceipt is the encrypted acknowledgment the main terminal sends
// back. Success false is a terminal outcome: the sender must never resend
// the same proofs, the mint's double-spend protection would reject them.
type ForwardReceipt struct {
	ForwardID     string `json:"forward_id"`
	TransactionID string `json:"transaction_id"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// PendingForward is the sender-side bookkeeping row for an envelope that
// has not been acknowledged yet.
type PendingForward struct {
	Envelope   TokenForwardEnvelope `json:"envelope"`
	Status     ForwardStatus        `json:"status"`
	Error      string               `json:"error,omitempty"`
	SentAt     time.Time            `json:"sent_at"`
	ResolvedAt *time.Time           `json:"resolved_at,omitempty"`
}

// Expired reports whether the forward has waited longer than ttl without
// an acknowledgment.
func (f *PendingForward) Expired(now time.Time, ttl time.Duration) bool {
	return f.Status == ForwardStatusPending && now.Sub(f.SentAt) > ttl
}
