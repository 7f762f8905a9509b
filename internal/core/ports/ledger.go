package ports

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"energy-dex/internal/core/domain"
)

//go:generate mockgen -source=ledger.go -destination=mocks/ledger_mock.go -package=mocks

// LedgerConn is the single injectable handle to the remote ledger network.
// Implementations own at most one live connection and serialize concurrent
// connection attempts internally.
type LedgerConn interface {
	// EnsureConnected retries up to maxAttempts with a fixed backoff.
	// Idempotent and safe to call concurrently.
	EnsureConnected(ctx context.Context, maxAttempts int, backoff time.Duration) bool

	// Request performs a read-only query and returns the raw result
	// document.
	Request(ctx context.Context, command string, params map[string]any) (json.RawMessage, error)

	// Submit signs and submits a mutating transaction bounded by a
	// sequence-count validity window, so an unincluded transaction
	// eventually expires instead of hanging forever.
	Submit(ctx context.Context, sub Submission) (*SubmitResult, error)

	State() domain.ConnectionState
	Close() error
}

// Submission is one mutating transaction plus its signing credential and
// validity window (in ledger sequences, never wall-clock).
type Submission struct {
	Tx     map[string]any
	Secret string
	Window uint32
	// AwaitFinality polls for validated inclusion before returning; without
	// it the engine's provisional result is returned as-is.
	AwaitFinality bool
}

// SubmitResult carries the ledger's verdict on a submission. The engine
// result prefix distinguishes accepted from rejected.
type SubmitResult struct {
	EngineResult string `json:"engine_result"`
	ResultCode   int    `json:"engine_result_code"`
	Message      string `json:"engine_result_message"`
	TxHash       string `json:"tx_hash"`
	Validated    bool   `json:"validated"`
}

// Accepted reports a definitive success result.
func (r *SubmitResult) Accepted() bool {
	return strings.HasPrefix(r.EngineResult, "tes")
}

// Transient reports a retryable result: the same submission may succeed
// later without modification.
func (r *SubmitResult) Transient() bool {
	return strings.HasPrefix(r.EngineResult, "ter")
}
