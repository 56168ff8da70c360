package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error carried across component boundaries.
// Retryable marks failures that background loops may silently re-attempt;
// everything else is surfaced to the operator and never auto-retried.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Retryable  bool   `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to callers)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func retryable(e *AppError) *AppError {
	e.Retryable = true
	return e
}

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	if e, ok := err.(*AppError); ok {
		return e.Retryable
	}
	return false
}

// ---- Relay Transport (TRANSPORT) ----

func ErrPublishTimeout(err error) *AppError {
	return retryable(Wrap("TRANSPORT_001", "No relay acknowledged the event in time", http.StatusGatewayTimeout, err))
}

func ErrNoRelayConnected() *AppError {
	return retryable(New("TRANSPORT_002", "No relay connection available", http.StatusServiceUnavailable))
}

// ---- Device Trust (AUTH) ----

func ErrUnapprovedTerminal(terminalID string) *AppError {
	return New("AUTH_001", fmt.Sprintf("Terminal %s is not in the approved set", terminalID), http.StatusForbidden)
}

func ErrNotMainTerminal() *AppError {
	return New("AUTH_002", "Operation requires the main terminal role", http.StatusForbidden)
}

func ErrLocalNotApproved() *AppError {
	return New("AUTH_003", "This terminal has not been approved by the main terminal", http.StatusForbidden)
}

func ErrJoinRequestNotFound(terminalID string) *AppError {
	return New("AUTH_004", fmt.Sprintf("No pending join request for terminal %s", terminalID), http.StatusNotFound)
}

// ---- Entity Sync (SYNC) ----

// ErrConflictDiscarded is informational: the inbound update lost the
// version race. It never aborts event processing.
func ErrConflictDiscarded(entityID string) *AppError {
	return New("SYNC_001", fmt.Sprintf("Inbound update for %s is stale and was discarded", entityID), http.StatusConflict)
}

// ---- Validation (VAL) ----

func ErrInvalidToken(err error) *AppError {
	return Wrap("VAL_001", "Cashu token is malformed", http.StatusBadRequest, err)
}

func ErrInvalidEvent(err error) *AppError {
	return Wrap("VAL_002", "Inbound event is malformed", http.StatusBadRequest, err)
}

func ErrInvalidEnvelope(err error) *AppError {
	return Wrap("VAL_003", "Forward envelope could not be decrypted or parsed", http.StatusBadRequest, err)
}

// ---- Offline Queue (QUEUE) ----

func ErrUntrustedMint(mintURL string) *AppError {
	return New("QUEUE_001", fmt.Sprintf("Mint %s is not in the trusted mint list", mintURL), http.StatusUnprocessableEntity)
}

func ErrSinglePaymentLimit(amount, limit int64) *AppError {
	return New("QUEUE_002", fmt.Sprintf("Amount %d exceeds the offline single-payment limit %d", amount, limit), http.StatusUnprocessableEntity)
}

func ErrQueueFull(limit int) *AppError {
	return New("QUEUE_003", fmt.Sprintf("Offline queue already holds %d pending payments", limit), http.StatusUnprocessableEntity)
}

func ErrPendingAmountLimit(amount, limit int64) *AppError {
	return New("QUEUE_004", fmt.Sprintf("Accepting %d would exceed the pending-amount limit %d", amount, limit), http.StatusUnprocessableEntity)
}

func ErrDuplicateToken() *AppError {
	return New("QUEUE_005", "Token was already processed", http.StatusConflict)
}

func ErrDuplicateInQueue() *AppError {
	return New("QUEUE_006", "Token is already queued", http.StatusConflict)
}

func ErrPaymentNotFound(id string) *AppError {
	return New("QUEUE_007", fmt.Sprintf("Queued payment %s not found", id), http.StatusNotFound)
}

func ErrNotRetryable(status string) *AppError {
	return New("QUEUE_008", fmt.Sprintf("Only failed payments can be retried, current status is %s", status), http.StatusConflict)
}

// ---- Proof Selection (PROOF) ----

func ErrInsufficientProofs(available, target int64) *AppError {
	return New("PROOF_001", fmt.Sprintf("Available proofs total %d, need %d", available, target), http.StatusUnprocessableEntity)
}

// ---- Mint (MINT) ----

func ErrRedemptionFailure(err error) *AppError {
	return Wrap("MINT_001", "Mint rejected the proofs", http.StatusUnprocessableEntity, err)
}

func ErrMintUnreachable(err error) *AppError {
	return retryable(Wrap("MINT_002", "Mint is unreachable", http.StatusServiceUnavailable, err))
}

// ---- Forward Channel (FWD) ----

func ErrForwardNotFound(id string) *AppError {
	return New("FWD_001", fmt.Sprintf("Pending forward %s not found", id), http.StatusNotFound)
}

func ErrForwardNotResendable(status string) *AppError {
	return New("FWD_002", fmt.Sprintf("Forward cannot be resent from status %s", status), http.StatusConflict)
}

// ---- System & Storage (SYS) ----

func ErrStorage(err error) *AppError {
	return Wrap("SYS_001", "Local storage failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_002 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal error", http.StatusInternalServerError, err)
}
