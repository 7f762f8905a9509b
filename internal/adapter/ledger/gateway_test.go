package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"
	"energy-dex/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is a scripted websocket endpoint speaking the gateway's frame
// format.
type fakeLedger struct {
	t           *testing.T
	upgrader    websocket.Upgrader
	rejectFirst int32
	attempts    atomic.Int32
	handle      func(msg map[string]any) map[string]any
}

func (f *fakeLedger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := f.attempts.Add(1)
	if n <= f.rejectFirst {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		resp := f.handle(msg)
		resp["id"] = msg["id"]
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func newTestGateway(t *testing.T, f *fakeLedger) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	cfg := config.LedgerConfig{
		URL:            "ws" + strings.TrimPrefix(srv.URL, "http"),
		RequestTimeout: 2 * time.Second,
	}
	g := New(cfg, 20*time.Millisecond, logger.NewWithWriter("error", testWriter{t}))
	t.Cleanup(func() { _ = g.Close() })
	return g, srv
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func okResult(result any) map[string]any {
	b, _ := json.Marshal(result)
	return map[string]any{"status": "success", "result": json.RawMessage(b)}
}

// Gateway failing twice then succeeding: EnsureConnected(max=3) returns true
// after exactly 3 connection attempts.
func TestEnsureConnected_RetriesThenSucceeds(t *testing.T) {
	f := &fakeLedger{t: t, rejectFirst: 2, handle: func(map[string]any) map[string]any {
		return okResult(map[string]any{})
	}}
	g, _ := newTestGateway(t, f)

	ok := g.EnsureConnected(context.Background(), 3, 10*time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, int32(3), f.attempts.Load())
	assert.Equal(t, domain.Connected, g.State())
}

func TestEnsureConnected_GivesUpAfterMaxAttempts(t *testing.T) {
	f := &fakeLedger{t: t, rejectFirst: 100, handle: func(map[string]any) map[string]any {
		return okResult(map[string]any{})
	}}
	g, _ := newTestGateway(t, f)

	ok := g.EnsureConnected(context.Background(), 2, 5*time.Millisecond)
	assert.False(t, ok)
	assert.Equal(t, int32(2), f.attempts.Load())
	assert.Equal(t, domain.Disconnected, g.State())
}

func TestEnsureConnected_IdempotentWhileConnected(t *testing.T) {
	f := &fakeLedger{t: t, handle: func(map[string]any) map[string]any {
		return okResult(map[string]any{})
	}}
	g, _ := newTestGateway(t, f)

	require.True(t, g.EnsureConnected(context.Background(), 1, time.Millisecond))
	require.True(t, g.EnsureConnected(context.Background(), 1, time.Millisecond))
	// The second call reuses the live connection instead of dialing again.
	assert.Equal(t, int32(1), f.attempts.Load())
}

func TestRequest_RoundTrip(t *testing.T) {
	f := &fakeLedger{t: t, handle: func(msg map[string]any) map[string]any {
		require.Equal(t, "account_lines", msg["command"])
		require.Equal(t, "rAlpha", msg["account"])
		return okResult(map[string]any{
			"lines": []map[string]any{{"currency": "ETK", "balance": "150"}},
		})
	}}
	g, _ := newTestGateway(t, f)
	require.True(t, g.EnsureConnected(context.Background(), 1, time.Millisecond))

	raw, err := g.Request(context.Background(), "account_lines", map[string]any{"account": "rAlpha"})
	require.NoError(t, err)

	var body struct {
		Lines []struct {
			Currency string `json:"currency"`
			Balance  string `json:"balance"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Lines, 1)
	assert.Equal(t, "ETK", body.Lines[0].Currency)
}

func TestRequest_LedgerErrorIsClassified(t *testing.T) {
	f := &fakeLedger{t: t, handle: func(map[string]any) map[string]any {
		return map[string]any{
			"status":        "error",
			"error":         "actNotFound",
			"error_message": "Account not found.",
		}
	}}
	g, _ := newTestGateway(t, f)
	require.True(t, g.EnsureConnected(context.Background(), 1, time.Millisecond))

	_, err := g.Request(context.Background(), "account_info", map[string]any{"account": "rGhost"})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindRejection, appErr.Kind)
	assert.Equal(t, "actNotFound", appErr.Reason)
	assert.Equal(t, "Account not found.", appErr.Message)
}

func TestRequest_WithoutConnection(t *testing.T) {
	f := &fakeLedger{t: t, handle: func(map[string]any) map[string]any {
		return okResult(map[string]any{})
	}}
	g, _ := newTestGateway(t, f)

	_, err := g.Request(context.Background(), "account_info", nil)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindConnection, appErr.Kind)
}

func TestSubmit_StampsValidityWindow(t *testing.T) {
	var sawLastValid atomic.Int64
	f := &fakeLedger{t: t}
	f.handle = func(msg map[string]any) map[string]any {
		switch msg["command"] {
		case "ledger_current":
			return okResult(map[string]any{"ledger_current_index": 100})
		case "submit":
			tx := msg["tx_json"].(map[string]any)
			sawLastValid.Store(int64(tx["LastLedgerSequence"].(float64)))
			return okResult(map[string]any{
				"engine_result":         "tesSUCCESS",
				"engine_result_code":    0,
				"engine_result_message": "The transaction was applied.",
				"tx_json":               map[string]any{"hash": "ABC123"},
			})
		default:
			return okResult(map[string]any{})
		}
	}
	g, _ := newTestGateway(t, f)
	require.True(t, g.EnsureConnected(context.Background(), 1, time.Millisecond))

	res, err := g.Submit(context.Background(), ports.Submission{
		Tx:     map[string]any{"TransactionType": "OfferCreate", "Account": "rAlpha"},
		Secret: "shhh",
		Window: 20,
	})
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Equal(t, "ABC123", res.TxHash)
	assert.Equal(t, int64(120), sawLastValid.Load())
}

func TestSubmit_AwaitFinality(t *testing.T) {
	var txPolls atomic.Int32
	f := &fakeLedger{t: t}
	f.handle = func(msg map[string]any) map[string]any {
		switch msg["command"] {
		case "ledger_current":
			return okResult(map[string]any{"ledger_current_index": 100})
		case "submit":
			return okResult(map[string]any{
				"engine_result": "tesSUCCESS",
				"tx_json":       map[string]any{"hash": "FIN1"},
			})
		case "tx":
			// Validated only on the second poll.
			return okResult(map[string]any{"validated": txPolls.Add(1) >= 2})
		default:
			return okResult(map[string]any{})
		}
	}
	g, _ := newTestGateway(t, f)
	require.True(t, g.EnsureConnected(context.Background(), 1, time.Millisecond))

	res, err := g.Submit(context.Background(), ports.Submission{
		Tx:            map[string]any{"TransactionType": "NFTokenMint"},
		Window:        20,
		AwaitFinality: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Validated)
	assert.GreaterOrEqual(t, txPolls.Load(), int32(2))
}

func TestSubmit_FinalityWindowExpiry(t *testing.T) {
	var ledgerIndex atomic.Int64
	ledgerIndex.Store(100)
	f := &fakeLedger{t: t}
	f.handle = func(msg map[string]any) map[string]any {
		switch msg["command"] {
		case "ledger_current":
			// The ledger advances past the validity window while the
			// transaction never validates.
			return okResult(map[string]any{"ledger_current_index": ledgerIndex.Add(15)})
		case "submit":
			return okResult(map[string]any{
				"engine_result": "tesSUCCESS",
				"tx_json":       map[string]any{"hash": "EXPIRED1"},
			})
		case "tx":
			return okResult(map[string]any{"validated": false})
		default:
			return okResult(map[string]any{})
		}
	}
	g, _ := newTestGateway(t, f)
	require.True(t, g.EnsureConnected(context.Background(), 1, time.Millisecond))

	_, err := g.Submit(context.Background(), ports.Submission{
		Tx:            map[string]any{"TransactionType": "OfferCreate"},
		Window:        5,
		AwaitFinality: true,
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindTimeout, appErr.Kind)
}
