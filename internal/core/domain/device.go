package domain

import "time"

// TerminalRole distinguishes the funds-accumulating main terminal from
// forwarding sub-terminals.
type TerminalRole string

const (
	RoleMain TerminalRole = "main"
	RoleSub  TerminalRole = "sub"
)

// ApprovalStatus is the local device's own standing with the main terminal.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = "none"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDenied   ApprovalStatus = "denied"
)

// ApprovedDevice is a terminal identity allowed to sync and forward funds.
// The set is de-duplicated by TerminalID.
type ApprovedDevice struct {
	TerminalID     string       `json:"terminal_id"`
	TerminalName   string       `json:"terminal_name"`
	TerminalPubkey string       `json:"terminal_pubkey"`
	Role           TerminalRole `json:"role"`
	ApprovedAt     time.Time    `json:"approved_at"`
}

// JoinRequest is an unapproved terminal asking to join a merchant's fleet.
// It lives in the trust manager's pending set until approved or denied.
type JoinRequest struct {
	TerminalID     string    `json:"terminal_id"`
	TerminalName   string    `json:"terminal_name"`
	TerminalPubkey string    `json:"terminal_pubkey"`
	MerchantID     string    `json:"merchant_id"`
	RequestedAt    time.Time `json:"requested_at"`
}

// ApprovalDecision is the wire payload of a join-approval event.
type ApprovalDecision struct {
	TerminalID     string `json:"terminal_id"`
	TerminalName   string `json:"terminal_name,omitempty"`
	TerminalPubkey string `json:"terminal_pubkey"`
	Approved       bool   `json:"approved"`
}

// Revocation is the wire payload of a device-revoke event.
type Revocation struct {
	TerminalID string `json:"terminal_id"`
}
