package service

import (
	"context"
	"math"
	"strconv"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"

	"github.com/rs/zerolog"
)

// tfFillOrKill makes an exchange offer execute completely against the book
// or not at all; it never rests.
const tfFillOrKill = 0x00040000

// OrderService implements ports.OrderEngine. All preconditions are checked
// against a snapshot refreshed in the same call, never a stale one.
type OrderService struct {
	gateway   ports.LedgerConn
	sync      ports.StateSync
	session   ports.SessionManager
	tokenizer ports.Tokenizer
	cfg       *config.Config
	log       zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	gateway ports.LedgerConn,
	stateSync ports.StateSync,
	session ports.SessionManager,
	tokenizer ports.Tokenizer,
	cfg *config.Config,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		gateway:   gateway,
		sync:      stateSync,
		session:   session,
		tokenizer: tokenizer,
		cfg:       cfg,
		log:       log,
	}
}

// CreateOrder validates the intent against fresh ledger state and places an
// open exchange offer. Validation failures never reach the ledger.
func (s *OrderService) CreateOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderAck, error) {
	identity := s.session.Current()
	if identity == nil {
		return nil, apperror.ErrNoActiveSession()
	}
	if req.Quantity <= 0 {
		return nil, apperror.ErrInvalidOrder("order quantity must be positive")
	}
	if req.UnitPrice <= 0 {
		return nil, apperror.ErrInvalidOrder("order unit price must be positive")
	}
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		return nil, apperror.ErrInvalidOrder("order side must be BUY or SELL")
	}

	snap, err := s.sync.Refresh(ctx, identity.Address)
	if err != nil {
		return nil, apperror.Classify(err)
	}

	cost := req.Quantity * req.UnitPrice
	quote := s.cfg.Market.QuoteAsset

	tx := map[string]any{
		"TransactionType": "OfferCreate",
		"Account":         identity.Address,
	}
	switch req.Side {
	case domain.SideSell:
		// Selling energy requires a certificate backing the sale.
		if len(snap.TransferableAssets()) == 0 {
			return nil, apperror.ErrNoTransferableAsset()
		}
		tx["TakerGets"] = s.issuedAmount(req.Quantity)
		tx["TakerPays"] = dropsAmount(cost)
	case domain.SideBuy:
		if have := snap.BalanceOf(quote); have < cost {
			return nil, apperror.ErrInsufficientBalance(quote, cost, have)
		}
		tx["TakerGets"] = dropsAmount(cost)
		tx["TakerPays"] = s.issuedAmount(req.Quantity)
	}

	ack, err := s.submit(ctx, identity, tx, s.cfg.Ledger.WindowSequences)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("side", string(req.Side)).
		Float64("quantity", req.Quantity).
		Float64("unit_price", req.UnitPrice).
		Str("tx_hash", ack.TxHash).
		Msg("order placed")
	return ack, nil
}

// ExecuteTrade fills someone else's order. Asset listings go through the
// acceptance path; fungible orders get a fill-or-kill counter-order at the
// target's exact terms, so a vanished target fails cleanly instead of
// resting on the book.
func (s *OrderService) ExecuteTrade(ctx context.Context, target domain.Order) (*ports.OrderAck, error) {
	identity := s.session.Current()
	if identity == nil {
		return nil, apperror.ErrNoActiveSession()
	}
	if target.IsAssetListing() {
		return s.tokenizer.AcceptListing(ctx, target)
	}
	if target.OfferedQuantity <= 0 || target.RequestedQuantity <= 0 {
		return nil, apperror.ErrInvalidOrder("target order has no exchangeable amounts")
	}

	snap, err := s.sync.Refresh(ctx, identity.Address)
	if err != nil {
		return nil, apperror.Classify(err)
	}

	// The taker gives what the maker requested.
	give := target.RequestedAsset
	if have := snap.BalanceOf(give); have < target.RequestedQuantity {
		return nil, apperror.ErrInsufficientBalance(give, target.RequestedQuantity, have)
	}

	tx := map[string]any{
		"TransactionType": "OfferCreate",
		"Account":         identity.Address,
		"Flags":           tfFillOrKill,
		"TakerGets":       s.exchangeAmount(target.RequestedAsset, target.RequestedQuantity),
		"TakerPays":       s.exchangeAmount(target.OfferedAsset, target.OfferedQuantity),
	}

	// Crossing an existing offer can take longer to include than placing
	// one, so the validity window is widened.
	window := s.cfg.Ledger.WindowSequences + s.cfg.Ledger.TradeWindowMargin
	ack, err := s.submit(ctx, identity, tx, window)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("target_id", target.ID).
		Str("target_account", target.Account).
		Str("tx_hash", ack.TxHash).
		Msg("trade executed")
	return ack, nil
}

// CancelOrder withdraws one of the session owner's open offers.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*ports.OrderAck, error) {
	identity := s.session.Current()
	if identity == nil {
		return nil, apperror.ErrNoActiveSession()
	}
	seq, err := strconv.ParseUint(orderID, 10, 32)
	if err != nil {
		return nil, apperror.ErrInvalidOrder("order id is not a ledger sequence")
	}

	tx := map[string]any{
		"TransactionType": "OfferCancel",
		"Account":         identity.Address,
		"OfferSequence":   uint32(seq),
	}
	ack, err := s.submit(ctx, identity, tx, s.cfg.Ledger.WindowSequences)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order_id", orderID).Str("tx_hash", ack.TxHash).Msg("order cancelled")
	return ack, nil
}

// submit sends the transaction and re-syncs afterwards whatever the verdict,
// since even a rejection may follow a partially observed ledger change.
func (s *OrderService) submit(ctx context.Context, identity *domain.Identity, tx map[string]any, window uint32) (*ports.OrderAck, error) {
	result, err := s.gateway.Submit(ctx, ports.Submission{
		Tx:     tx,
		Secret: identity.Secret,
		Window: window,
	})

	if _, rerr := s.sync.Refresh(ctx, identity.Address); rerr != nil {
		s.log.Warn().Err(rerr).Msg("post-submission refresh failed")
	}

	if err != nil {
		return nil, apperror.Classify(err)
	}
	if !result.Accepted() {
		return nil, apperror.ErrLedgerRejection(result.EngineResult, result.Message)
	}
	return &ports.OrderAck{TxHash: result.TxHash, EngineResult: result.EngineResult}, nil
}

// issuedAmount builds the issued-asset amount document for the base asset.
func (s *OrderService) issuedAmount(qty float64) map[string]any {
	return map[string]any{
		"currency": s.cfg.Market.BaseAsset,
		"issuer":   s.cfg.Market.AssetIssuer,
		"value":    strconv.FormatFloat(qty, 'f', -1, 64),
	}
}

// exchangeAmount picks the wire form for an asset: native amounts are
// drop strings, everything else an issued-asset document.
func (s *OrderService) exchangeAmount(asset string, qty float64) any {
	if asset == s.cfg.Market.QuoteAsset {
		return dropsAmount(qty)
	}
	return map[string]any{
		"currency": asset,
		"issuer":   s.cfg.Market.AssetIssuer,
		"value":    strconv.FormatFloat(qty, 'f', -1, 64),
	}
}

// dropsAmount converts whole quote units to the native minor-unit string.
func dropsAmount(units float64) string {
	return strconv.FormatInt(int64(math.Round(units*dropsPerUnit)), 10)
}
