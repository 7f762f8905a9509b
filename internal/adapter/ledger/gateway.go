package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Gateway implements ports.LedgerConn over a single websocket connection.
// Requests and responses are correlated by id, so multiple callers can have
// requests in flight on the one connection.
type Gateway struct {
	url            string
	requestTimeout time.Duration
	pollInterval   time.Duration
	log            zerolog.Logger
	dialer         *websocket.Dialer

	mu    sync.Mutex // serializes connect/close
	conn  *websocket.Conn
	state atomic.Int32

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan reply
}

type reply struct {
	result json.RawMessage
	err    error
}

// envelope is the wire frame in both directions.
type envelope struct {
	ID           string          `json:"id"`
	Status       string          `json:"status,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// New creates a disconnected gateway. The connection is established lazily
// through EnsureConnected.
func New(cfg config.LedgerConfig, pollInterval time.Duration, log zerolog.Logger) *Gateway {
	return &Gateway{
		url:            cfg.URL,
		requestTimeout: cfg.RequestTimeout,
		pollInterval:   pollInterval,
		log:            log,
		dialer:         websocket.DefaultDialer,
		pending:        make(map[string]chan reply),
	}
}

// State returns the process-wide connection state.
func (g *Gateway) State() domain.ConnectionState {
	return domain.ConnectionState(g.state.Load())
}

// EnsureConnected retries up to maxAttempts with a fixed backoff. Safe to
// call concurrently: the dial itself is serialized, and an already-open
// connection short-circuits every caller.
func (g *Gateway) EnsureConnected(ctx context.Context, maxAttempts int, backoff time.Duration) bool {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := g.connect(ctx); err == nil {
			return true
		} else {
			g.log.Warn().Err(err).Int("attempt", attempt).Int("max", maxAttempts).Msg("ledger connection attempt failed")
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
	}
	return false
}

func (g *Gateway) connect(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn != nil {
		return nil
	}

	g.state.Store(int32(domain.Connecting))
	conn, _, err := g.dialer.DialContext(ctx, g.url, nil)
	if err != nil {
		g.state.Store(int32(domain.Disconnected))
		return fmt.Errorf("dialing %s: %w", g.url, err)
	}

	g.conn = conn
	g.state.Store(int32(domain.Connected))
	g.log.Info().Str("url", g.url).Msg("connected to ledger")

	go g.readLoop(conn)
	return nil
}

// readLoop routes responses to waiting callers until the connection dies.
func (g *Gateway) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			g.teardown(conn, err)
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			g.log.Warn().Err(err).Msg("unreadable frame from ledger, dropped")
			continue
		}

		g.pendingMu.Lock()
		ch, ok := g.pending[env.ID]
		if ok {
			delete(g.pending, env.ID)
		}
		g.pendingMu.Unlock()
		if !ok {
			g.log.Debug().Str("id", env.ID).Msg("response for unknown request, dropped")
			continue
		}

		if env.Status == "error" {
			ch <- reply{err: apperror.Classify(map[string]any{
				"error":         env.Error,
				"error_message": env.ErrorMessage,
			})}
			continue
		}
		ch <- reply{result: env.Result}
	}
}

// teardown marks the connection dead and fails every in-flight request so
// callers never hang on a dropped socket.
func (g *Gateway) teardown(conn *websocket.Conn, cause error) {
	g.mu.Lock()
	if g.conn == conn {
		g.conn = nil
		g.state.Store(int32(domain.Disconnected))
	}
	g.mu.Unlock()
	_ = conn.Close()

	g.pendingMu.Lock()
	for id, ch := range g.pending {
		ch <- reply{err: apperror.ErrConnectionLost(cause)}
		delete(g.pending, id)
	}
	g.pendingMu.Unlock()

	g.log.Warn().Err(cause).Msg("ledger connection closed")
}

// Request performs one query and waits for its correlated response.
func (g *Gateway) Request(ctx context.Context, command string, params map[string]any) (json.RawMessage, error) {
	if g.State() != domain.Connected {
		return nil, apperror.ErrNotConnected()
	}

	id := uuid.NewString()
	msg := map[string]any{"id": id, "command": command}
	for k, v := range params {
		msg[k] = v
	}

	ch := make(chan reply, 1)
	g.pendingMu.Lock()
	g.pending[id] = ch
	g.pendingMu.Unlock()

	if err := g.write(msg); err != nil {
		g.pendingMu.Lock()
		delete(g.pending, id)
		g.pendingMu.Unlock()
		return nil, apperror.ErrConnectionLost(err)
	}

	timer := time.NewTimer(g.requestTimeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.result, r.err
	case <-ctx.Done():
		g.forget(id)
		return nil, apperror.Classify(ctx.Err())
	case <-timer.C:
		g.forget(id)
		return nil, apperror.ErrTimeout(command)
	}
}

func (g *Gateway) forget(id string) {
	g.pendingMu.Lock()
	delete(g.pending, id)
	g.pendingMu.Unlock()
}

func (g *Gateway) write(msg any) error {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("connection closed")
	}
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// Submit signs and submits one transaction, stamping a validity window in
// ledger sequences so an unincluded transaction expires instead of hanging.
func (g *Gateway) Submit(ctx context.Context, sub ports.Submission) (*ports.SubmitResult, error) {
	current, err := g.currentLedgerIndex(ctx)
	if err != nil {
		return nil, err
	}
	lastValid := current + sub.Window

	tx := make(map[string]any, len(sub.Tx)+1)
	for k, v := range sub.Tx {
		tx[k] = v
	}
	tx["LastLedgerSequence"] = lastValid

	raw, err := g.Request(ctx, "submit", map[string]any{
		"tx_json": tx,
		"secret":  sub.Secret,
	})
	if err != nil {
		return nil, err
	}

	res, err := decodeSubmitResult(raw)
	if err != nil {
		return nil, apperror.Classify(err)
	}

	g.log.Info().
		Str("type", fmt.Sprintf("%v", tx["TransactionType"])).
		Str("engine_result", res.EngineResult).
		Str("hash", res.TxHash).
		Uint32("last_valid", lastValid).
		Msg("transaction submitted")

	if sub.AwaitFinality && res.Accepted() {
		if err := g.awaitFinality(ctx, res, lastValid); err != nil {
			return res, err
		}
	}
	return res, nil
}

// awaitFinality polls for validated inclusion until the validity window
// lapses. Expiry is reported as a timeout, never as success or failure.
func (g *Gateway) awaitFinality(ctx context.Context, res *ports.SubmitResult, lastValid uint32) error {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return apperror.Classify(ctx.Err())
		case <-ticker.C:
		}

		raw, err := g.Request(ctx, "tx", map[string]any{"transaction": res.TxHash})
		if err != nil {
			classified := apperror.Classify(err)
			if classified.Retryable() {
				continue
			}
			return classified
		}
		var status struct {
			Validated bool `json:"validated"`
		}
		if err := json.Unmarshal(raw, &status); err == nil && status.Validated {
			res.Validated = true
			return nil
		}

		current, err := g.currentLedgerIndex(ctx)
		if err != nil {
			continue
		}
		if current > lastValid {
			return apperror.ErrTimeout("transaction finality")
		}
	}
}

func (g *Gateway) currentLedgerIndex(ctx context.Context) (uint32, error) {
	raw, err := g.Request(ctx, "ledger_current", nil)
	if err != nil {
		return 0, err
	}
	var res struct {
		LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return 0, apperror.Classify(err)
	}
	return res.LedgerCurrentIndex, nil
}

// Close drops the connection and fails anything in flight.
func (g *Gateway) Close() error {
	g.mu.Lock()
	conn := g.conn
	g.conn = nil
	g.state.Store(int32(domain.Disconnected))
	g.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := conn.Close()

	g.pendingMu.Lock()
	for id, ch := range g.pending {
		ch <- reply{err: apperror.ErrNotConnected()}
		delete(g.pending, id)
	}
	g.pendingMu.Unlock()
	return err
}

func decodeSubmitResult(raw json.RawMessage) (*ports.SubmitResult, error) {
	var body struct {
		EngineResult        string `json:"engine_result"`
		EngineResultCode    int    `json:"engine_result_code"`
		EngineResultMessage string `json:"engine_result_message"`
		TxJSON              struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding submit result: %w", err)
	}
	if body.EngineResult == "" {
		return nil, fmt.Errorf("submit result missing engine_result: %s", string(raw))
	}
	return &ports.SubmitResult{
		EngineResult: body.EngineResult,
		ResultCode:   body.EngineResultCode,
		Message:      body.EngineResultMessage,
		TxHash:       body.TxJSON.Hash,
	}, nil
}
