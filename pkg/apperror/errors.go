package apperror

import (
	"fmt"
	"net/http"
)

// Kind is the closed taxonomy every failure in the client maps onto.
type Kind string

const (
	KindConnection Kind = "CONNECTION" // unreachable/dropped, retryable with backoff
	KindAuth       Kind = "AUTH"       // credential does not resolve, terminal for the attempt
	KindValidation Kind = "VALIDATION" // locally detected precondition failure, never submitted
	KindRejection  Kind = "LEDGER_REJECTION"
	KindTimeout    Kind = "TIMEOUT" // no definitive answer within budget, retryable
	KindInternal   Kind = "INTERNAL"
)

// AppError is a classified error that maps to HTTP responses at the command
// surface. Reason carries the machine-readable ledger result code when the
// ledger refused a submission.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	Reason     string `json:"reason,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to clients)
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

// Retryable reports whether retrying the same operation can succeed.
func (e *AppError) Retryable() bool {
	return e.Kind == KindConnection || e.Kind == KindTimeout
}

// New creates a new AppError.
func New(kind Kind, code string, message string, httpStatus int) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// ---- Connection (CONN) ----

func ErrNotConnected() *AppError {
	return New(KindConnection, "CONN_001", "Not connected to the ledger network", http.StatusServiceUnavailable)
}

func ErrConnectFailed(attempts int, err error) *AppError {
	e := New(KindConnection, "CONN_002",
		fmt.Sprintf("Could not reach the ledger network after %d attempts", attempts),
		http.StatusServiceUnavailable)
	e.Err = err
	return e
}

func ErrConnectionLost(err error) *AppError {
	e := New(KindConnection, "CONN_003", "Ledger connection dropped", http.StatusServiceUnavailable)
	e.Err = err
	return e
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredential() *AppError {
	return New(KindAuth, "AUTH_001", "Credential does not resolve to a usable identity", http.StatusUnauthorized)
}

func ErrNoActiveSession() *AppError {
	return New(KindAuth, "AUTH_002", "No active session", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New(KindAuth, "AUTH_003", "Invalid or expired session token", http.StatusUnauthorized)
}

// ---- Local validation (VAL) ----

func ErrInsufficientBalance(asset string, need, have float64) *AppError {
	return New(KindValidation, "VAL_001",
		fmt.Sprintf("Insufficient %s balance: need %.6f, have %.6f", asset, need, have),
		http.StatusUnprocessableEntity)
}

func ErrNoTransferableAsset() *AppError {
	return New(KindValidation, "VAL_002",
		"No transferable, accepted energy certificate available to sell",
		http.StatusUnprocessableEntity)
}

func ErrInvalidOrder(msg string) *AppError {
	return New(KindValidation, "VAL_003", msg, http.StatusBadRequest)
}

func ErrInvalidRequest(msg string) *AppError {
	return New(KindValidation, "VAL_004", msg, http.StatusBadRequest)
}

// ---- Ledger rejection (LGR) ----

// ErrLedgerRejection wraps a definite refusal by the ledger. reason is the
// machine-readable result code, message the human-readable explanation; both
// are surfaced.
func ErrLedgerRejection(reason, message string) *AppError {
	if message == "" {
		message = "Transaction rejected by the ledger"
	}
	e := New(KindRejection, "LGR_001", message, http.StatusBadGateway)
	e.Reason = reason
	return e
}

// ---- Timeout (TMO) ----

func ErrTimeout(operation string) *AppError {
	return New(KindTimeout, "TMO_001",
		fmt.Sprintf("No definitive answer for %s within budget", operation),
		http.StatusGatewayTimeout)
}

// ---- System (SYS) ----

func Internal(err error) *AppError {
	e := New(KindInternal, "SYS_001", "Internal error", http.StatusInternalServerError)
	e.Err = err
	return e
}
