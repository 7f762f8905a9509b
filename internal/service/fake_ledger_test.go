package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"
)

// fakeLedger is a scripted in-memory ports.LedgerConn. Queries are answered
// from canned documents keyed by command (optionally narrowed by the account
// or asset parameter); submissions are recorded and answered from a FIFO
// script whose last step repeats.
type fakeLedger struct {
	mu sync.Mutex

	refuseConnect bool
	dialCount     int

	replies   map[string][]json.RawMessage
	failures  map[string]error
	calls     map[string]int
	submits   []ports.Submission
	script    []*ports.SubmitResult
	submitErr error

	// hook, when set, answers a query before the canned replies are
	// consulted. It may inspect recorded submissions.
	hook func(command string, params map[string]any) (json.RawMessage, bool)
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		replies:  make(map[string][]json.RawMessage),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// stub queues a reply for a command. Key may be just the command or
// "command:param" where param matches the account or nft_id argument. The
// last queued reply repeats once the queue drains.
func (f *fakeLedger) stub(key, doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[key] = append(f.replies[key], json.RawMessage(doc))
}

func (f *fakeLedger) stubErr(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = err
}

// scriptSubmit queues submit verdicts, consumed in order; the last repeats.
func (f *fakeLedger) scriptSubmit(results ...*ports.SubmitResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, results...)
}

func (f *fakeLedger) EnsureConnected(_ context.Context, _ int, _ time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialCount++
	return !f.refuseConnect
}

func (f *fakeLedger) Request(_ context.Context, command string, params map[string]any) (json.RawMessage, error) {
	f.mu.Lock()
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		if doc, ok := hook(command, params); ok {
			return doc, nil
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	keys := []string{command}
	if acct, ok := params["account"].(string); ok {
		keys = append([]string{command + ":" + acct}, keys...)
	}
	if id, ok := params["nft_id"].(string); ok {
		keys = append([]string{command + ":" + id}, keys...)
	}
	if tg, ok := params["taker_gets"].(string); ok {
		keys = append([]string{command + ":" + tg}, keys...)
	}

	for _, k := range keys {
		f.calls[k]++
		if err, ok := f.failures[k]; ok {
			return nil, err
		}
		if queue, ok := f.replies[k]; ok && len(queue) > 0 {
			head := queue[0]
			if len(queue) > 1 {
				f.replies[k] = queue[1:]
			}
			return head, nil
		}
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeLedger) Submit(_ context.Context, sub ports.Submission) (*ports.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submits = append(f.submits, sub)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if len(f.script) == 0 {
		return &ports.SubmitResult{EngineResult: "tesSUCCESS", TxHash: "FAKEHASH"}, nil
	}
	head := f.script[0]
	if len(f.script) > 1 {
		f.script = f.script[1:]
	}
	if head == nil {
		return nil, apperror.ErrConnectionLost(nil)
	}
	return head, nil
}

func (f *fakeLedger) State() domain.ConnectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuseConnect {
		return domain.Disconnected
	}
	return domain.Connected
}

func (f *fakeLedger) Close() error { return nil }

func (f *fakeLedger) submitted() []ports.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.Submission, len(f.submits))
	copy(out, f.submits)
	return out
}

func (f *fakeLedger) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}
