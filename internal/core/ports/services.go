package ports

import (
	"context"

	"energy-dex/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

// SessionManager resolves a credential to an Identity and owns the session
// lifecycle.
type SessionManager interface {
	// Login derives the address from the credential, resolves the identity
	// (unknown addresses are admitted as Consumers), refreshes state, and
	// persists the session pointer. Returns the identity and a session
	// token for the command surface.
	Login(ctx context.Context, credential string) (*domain.Identity, string, error)
	// Restore replays a persisted session pointer at startup. A missing or
	// corrupt pointer is a no-op, not an error.
	Restore(ctx context.Context) (*domain.Identity, error)
	// Logout disconnects and clears persisted and in-memory state
	// unconditionally, even if the disconnect fails.
	Logout(ctx context.Context) error
	Current() *domain.Identity
	// ValidateToken checks a session token and returns the bound address.
	ValidateToken(token string) (string, error)
}

// StateSync keeps the local snapshot consistent with ledger state.
type StateSync interface {
	// Refresh pulls balances, open orders, owned assets, the order book and
	// recent settlements for one account. Sub-query failures are isolated
	// per field.
	Refresh(ctx context.Context, address string) (*domain.Snapshot, error)
	Current() *domain.Snapshot
	// RefreshMarketplace is the slow O(accounts x assets) scan over the
	// registry, decoupled from the fast per-user Refresh.
	RefreshMarketplace(ctx context.Context) ([]domain.MarketplaceListing, error)
}

// OrderRequest is a (side, quantity, unit price) intent on the base asset.
type OrderRequest struct {
	Side      domain.Side
	Quantity  float64
	UnitPrice float64
}

// OrderAck acknowledges a submitted order or trade.
type OrderAck struct {
	TxHash       string `json:"tx_hash"`
	EngineResult string `json:"engine_result"`
}

// OrderEngine builds, validates and submits orders and trade executions.
type OrderEngine interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderAck, error)
	// ExecuteTrade fills an existing order: asset listings go through the
	// acceptance path, fungible orders get a fill-or-kill counter-order.
	ExecuteTrade(ctx context.Context, target domain.Order) (*OrderAck, error)
	CancelOrder(ctx context.Context, orderID string) (*OrderAck, error)
}

// MintRequest asks the workflow to mint and hand over certified units.
type MintRequest struct {
	SourceKind domain.SourceKind
	Location   string
	Recipient  string
	PriceDrops int64
	Units      int
}

// MintOutcome is the terminal state of one unit's workflow run. An
// Abandoned unit remains issuer-owned and is reported, never discarded.
type MintOutcome struct {
	State   domain.WorkflowState `json:"state"`
	AssetID string               `json:"asset_id,omitempty"`
	Path    string               `json:"path,omitempty"` // transfer variant that concluded the run
	Message string               `json:"message,omitempty"`
}

// BatchOutcome accumulates per-unit results. Callers must not assume
// all-or-nothing semantics.
type BatchOutcome struct {
	Completed int           `json:"completed"`
	Units     []MintOutcome `json:"units"`
}

// Tokenizer runs the mint -> locate -> transfer workflow.
type Tokenizer interface {
	MintAndTransfer(ctx context.Context, req MintRequest) (*MintOutcome, error)
	MintBatch(ctx context.Context, req MintRequest) (*BatchOutcome, error)
	// AcceptListing accepts an on-ledger transfer offer on behalf of the
	// active identity.
	AcceptListing(ctx context.Context, target domain.Order) (*OrderAck, error)
}
