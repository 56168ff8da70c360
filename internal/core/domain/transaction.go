package domain

import "time"

// TransactionStatus represents the lifecycle state of a sale.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusForwarded TransactionStatus = "FORWARDED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// TransactionRecord is an immutable financial record synced between
// terminals. Records are append-only: an inbound record is accepted iff no
// local record with the same ID exists. The convergent version rule never
// applies here, because financial history must not be overwritten.
type TransactionRecord struct {
	ID         string            `json:"id"`
	TerminalID string            `json:"terminal_id"`
	MerchantID string            `json:"merchant_id"`
	Amount     int64             `json:"amount"` // sats
	MintURL    string            `json:"mint_url"`
	Status     TransactionStatus `json:"status"`
	Memo       string            `json:"memo,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// IsTerminalState reports whether the record is in a final state.
func (t *TransactionRecord) IsTerminalState() bool {
	return t.Status == TransactionStatusCompleted ||
		t.Status == TransactionStatusForwarded ||
		t.Status == TransactionStatusFailed
}
