package apperror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Classify normalizes a raw failure value coming back from the gateway into
// the closed taxonomy. It never panics and always returns a populated
// message; values it cannot interpret are serialized into the message rather
// than dropped.
func Classify(raw any) *AppError {
	switch v := raw.(type) {
	case nil:
		return New(KindInternal, "SYS_000", "Unspecified failure (nil)", 500)
	case *AppError:
		return v
	case error:
		return classifyError(v)
	case map[string]any:
		return classifyResult(v)
	case json.RawMessage:
		return classifyBytes(v)
	case []byte:
		return classifyBytes(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return New(KindInternal, "SYS_000", "Empty error value", 500)
		}
		return New(KindInternal, "SYS_000", v, 500)
	default:
		return dump(v)
	}
}

func classifyError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout("ledger request")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout("ledger request")
		}
		return ErrConnectionLost(err)
	}
	e := New(KindInternal, "SYS_001", err.Error(), 500)
	e.Err = err
	return e
}

// classifyResult handles structured engine responses of the shape
// {engine_result, engine_result_code, engine_result_message} as well as
// plain {error, error_message} replies.
func classifyResult(m map[string]any) *AppError {
	if res, ok := m["engine_result"].(string); ok {
		msg, _ := m["engine_result_message"].(string)
		if msg == "" {
			msg = fmt.Sprintf("Ledger returned result code %s", res)
		}
		if strings.HasPrefix(res, "tes") {
			// A success result handed to the normalizer still yields a
			// coherent value instead of a crash.
			return New(KindInternal, "SYS_002", msg, 500)
		}
		return ErrLedgerRejection(res, msg)
	}
	if code, ok := m["error"].(string); ok {
		msg, _ := m["error_message"].(string)
		if msg == "" {
			msg = code
		}
		return ErrLedgerRejection(code, msg)
	}
	return dump(m)
}

func classifyBytes(b []byte) *AppError {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err == nil {
		return classifyResult(m)
	}
	if len(b) == 0 {
		return New(KindInternal, "SYS_000", "Empty error payload", 500)
	}
	return New(KindInternal, "SYS_000", string(b), 500)
}

// dump serializes an unrecognizable value so the operator still sees what
// came back.
func dump(v any) *AppError {
	b, err := json.Marshal(v)
	if err != nil || len(b) == 0 || string(b) == "null" {
		return New(KindInternal, "SYS_000", fmt.Sprintf("Unclassified failure: %+v", v), 500)
	}
	return New(KindInternal, "SYS_000", "Unclassified failure: "+string(b), 500)
}
