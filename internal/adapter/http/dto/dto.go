package dto

import (
	"time"

	"cashu-pos/internal/core/domain"
)

// QueuePaymentRequest is the request body for accepting a token offline.
type QueuePaymentRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForwardRequest is the request body for forwarding a received token to
// the main terminal.
type ForwardRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Token         string `json:"token" binding:"required"`
}

// PaymentResponse is a queued payment as the operator sees it.
type PaymentResponse struct {
	ID            string `json:"id"`
	Amount        int64  `json:"amount"`
	MintURL       string `json:"mint_url"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	ReceivedAt    string `json:"received_at"`
}

// QueueStatusResponse summarizes the offline queue.
type QueueStatusResponse struct {
	PendingCount   int   `json:"pending_count"`
	PendingAmount  int64 `json:"pending_amount"`
	VerifiedCount  int   `json:"verified_count"`
	VerifiedAmount int64 `json:"verified_amount"`
	FailedCount    int   `json:"failed_count"`
}

// ForwardResponse is a forward row as the operator sees it.
type ForwardResponse struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	MintURL       string `json:"mint_url"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	SentAt        string `json:"sent_at"`
	ResolvedAt    string `json:"resolved_at,omitempty"`
}

// DeviceResponse is an approved device.
type DeviceResponse struct {
	TerminalID     string `json:"terminal_id"`
	TerminalName   string `json:"terminal_name"`
	TerminalPubkey string `json:"terminal_pubkey"`
	Role           string `json:"role"`
	ApprovedAt     string `json:"approved_at"`
}

// JoinRequestResponse is a pending join request awaiting a decision.
type JoinRequestResponse struct {
	TerminalID     string `json:"terminal_id"`
	TerminalName   string `json:"terminal_name"`
	TerminalPubkey string `json:"terminal_pubkey"`
	RequestedAt    string `json:"requested_at"`
}

// TerminalStatusResponse is the operator dashboard summary.
type TerminalStatusResponse struct {
	TerminalID      string              `json:"terminal_id"`
	TerminalName    string              `json:"terminal_name"`
	Role            string              `json:"role"`
	MerchantID      string              `json:"merchant_id"`
	Pubkey          string              `json:"pubkey"`
	ApprovalStatus  string              `json:"approval_status"`
	Online          bool                `json:"online"`
	Queue           QueueStatusResponse `json:"queue"`
	PendingForwards int                 `json:"pending_forwards"`
}

// ClearedResponse reports how many rows a cleanup removed.
type ClearedResponse struct {
	Removed int `json:"removed"`
}

func FromPayment(p *domain.QueuedPayment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		Amount:        p.Amount,
		MintURL:       p.MintURL,
		Status:        string(p.Status),
		Error:         p.Error,
		TransactionID: p.TransactionID,
		ReceivedAt:    p.ReceivedAt.UTC().Format(time.RFC3339),
	}
}

func FromQueueStatus(s *domain.QueueStatus) QueueStatusResponse {
	return QueueStatusResponse{
		PendingCount:   s.PendingCount,
		PendingAmount:  s.PendingAmount,
		VerifiedCount:  s.VerifiedCount,
		VerifiedAmount: s.VerifiedAmount,
		FailedCount:    s.FailedCount,
	}
}

func FromForward(f *domain.PendingForward) ForwardResponse {
	resp := ForwardResponse{
		ID:            f.Envelope.ID,
		TransactionID: f.Envelope.TransactionID,
		Amount:        f.Envelope.Amount,
		MintURL:       f.Envelope.MintURL,
		Status:        string(f.Status),
		Error:         f.Error,
		SentAt:        f.SentAt.UTC().Format(time.RFC3339),
	}
	if f.ResolvedAt != nil {
		resp.ResolvedAt = f.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func FromDevice(d *domain.ApprovedDevice) DeviceResponse {
	return DeviceResponse{
		TerminalID:     d.TerminalID,
		TerminalName:   d.TerminalName,
		TerminalPubkey: d.TerminalPubkey,
		Role:           string(d.Role),
		ApprovedAt:     d.ApprovedAt.UTC().Format(time.RFC3339),
	}
}

func FromJoinRequest(r *domain.JoinRequest) JoinRequestResponse {
	return JoinRequestResponse{
		TerminalID:     r.TerminalID,
		TerminalName:   r.TerminalName,
		TerminalPubkey: r.TerminalPubkey,
		RequestedAt:    r.RequestedAt.UTC().Format(time.RFC3339),
	}
}
