package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Transfer path names accepted in transfer.fallback_order.
const (
	pathDirect    = "direct"
	pathSellOffer = "sell_offer"
	pathBuyOffer  = "buy_offer"
	pathAuto      = "auto"
)

// tfSellToken marks a transfer offer as a sell offer.
const tfSellToken = 0x00000001

// errPathUnsupported signals a transfer path that cannot run for this
// recipient (e.g. no signing credential on file), as opposed to one the
// ledger refused.
var errPathUnsupported = errors.New("transfer path unsupported for recipient")

// TokenizationService implements ports.Tokenizer: mint a certificate, locate
// it on the ledger, then hand it to the recipient through a configurable
// sequence of transfer variants. A unit that exhausts every variant is
// reported Abandoned and stays issuer-owned; it is never silently dropped.
type TokenizationService struct {
	gateway ports.LedgerConn
	sync    ports.StateSync
	session ports.SessionManager
	cfg     *config.Config
	log     zerolog.Logger
	now     func() time.Time
}

// NewTokenizationService creates a new TokenizationService.
func NewTokenizationService(
	gateway ports.LedgerConn,
	stateSync ports.StateSync,
	session ports.SessionManager,
	cfg *config.Config,
	log zerolog.Logger,
) *TokenizationService {
	return &TokenizationService{
		gateway: gateway,
		sync:    stateSync,
		session: session,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// MintAndTransfer runs the workflow for a single unit. The returned outcome
// is terminal: Accepted with the concluding path, or Abandoned with the last
// failure. Only session, validation and connection problems surface as
// errors.
func (s *TokenizationService) MintAndTransfer(ctx context.Context, req ports.MintRequest) (*ports.MintOutcome, error) {
	identity := s.session.Current()
	if identity == nil {
		return nil, apperror.ErrNoActiveSession()
	}
	if req.Recipient == "" {
		return nil, apperror.ErrInvalidRequest("mint request needs a recipient address")
	}
	if !s.gateway.EnsureConnected(ctx, s.cfg.Ledger.ConnectRetries, s.cfg.Ledger.RetryDelay) {
		return nil, apperror.ErrConnectFailed(s.cfg.Ledger.ConnectRetries, nil)
	}

	price := req.PriceDrops
	if price <= 0 {
		price = s.cfg.Transfer.NominalPriceDrops
	}
	md := domain.AssetMetadata{
		SourceKind:    req.SourceKind,
		ProducedAt:    s.now().UTC(),
		CertificateID: uuid.NewString(),
		Location:      req.Location,
	}
	if md.SourceKind == "" {
		md.SourceKind = domain.SourceUnknown
	}

	outcome, err := s.run(ctx, identity, req.Recipient, price, md)
	if err != nil {
		return nil, err
	}

	if _, rerr := s.sync.Refresh(ctx, identity.Address); rerr != nil {
		s.log.Warn().Err(rerr).Msg("post-workflow refresh failed")
	}
	return outcome, nil
}

// run drives one unit through the state machine. Mint and locate happen
// once; the transfer variants then share the located asset.
func (s *TokenizationService) run(ctx context.Context, identity *domain.Identity, recipient string, price int64, md domain.AssetMetadata) (*ports.MintOutcome, error) {
	order := s.cfg.Transfer.FallbackOrder
	var lastFailure string

	// The direct variant folds transfer into the mint itself, so it runs
	// before the asset exists.
	if containsPath(order, pathDirect) {
		outcome, err := s.runDirect(ctx, identity, recipient, price, md)
		if err == nil {
			return outcome, nil
		}
		classified := apperror.Classify(err)
		if classified.Kind == apperror.KindConnection {
			return nil, classified
		}
		lastFailure = classified.Message
		s.log.Warn().Str("path", pathDirect).Str("certificate", md.CertificateID).
			Msg("transfer path failed: " + classified.Message)
	}

	// Plain mint, issuer-owned.
	mintTx := map[string]any{
		"TransactionType": "NFTokenMint",
		"Account":         identity.Address,
		"NFTokenTaxon":    0,
		"Flags":           transferableFlag,
		"URI":             encodeMetadata(md),
	}
	if _, err := s.submitWithRetry(ctx, identity.Secret, mintTx); err != nil {
		classified := apperror.Classify(err)
		if classified.Kind == apperror.KindConnection {
			return nil, classified
		}
		return &ports.MintOutcome{
			State:   domain.StateAbandoned,
			Message: "mint failed: " + classified.Message,
		}, nil
	}

	assetID, err := s.locateByCertificate(ctx, identity.Address, md.CertificateID)
	if err != nil {
		return &ports.MintOutcome{
			State:   domain.StateAbandoned,
			Message: "minted asset never appeared on the ledger: " + apperror.Classify(err).Message,
		}, nil
	}

	for _, path := range order {
		if path == pathDirect {
			continue
		}
		err := s.runTransfer(ctx, path, identity, recipient, assetID, price)
		if err == nil {
			s.log.Info().Str("path", path).Str("asset", assetID).Str("recipient", recipient).
				Msg("certificate transferred")
			return &ports.MintOutcome{
				State:   domain.StateAccepted,
				AssetID: assetID,
				Path:    path,
			}, nil
		}
		if errors.Is(err, errPathUnsupported) {
			s.log.Debug().Str("path", path).Msg("transfer path skipped")
			continue
		}
		classified := apperror.Classify(err)
		if classified.Kind == apperror.KindConnection {
			return nil, classified
		}
		lastFailure = classified.Message
		s.log.Warn().Str("path", path).Str("asset", assetID).
			Msg("transfer path failed: " + classified.Message)
	}

	if lastFailure == "" {
		lastFailure = "no usable transfer path for recipient"
	}
	return &ports.MintOutcome{
		State:   domain.StateAbandoned,
		AssetID: assetID,
		Message: lastFailure,
	}, nil
}

// runDirect mints with the recipient as destination, delegating the handover
// to the ledger. Concludes only once the recipient demonstrably owns the
// asset.
func (s *TokenizationService) runDirect(ctx context.Context, identity *domain.Identity, recipient string, price int64, md domain.AssetMetadata) (*ports.MintOutcome, error) {
	tx := map[string]any{
		"TransactionType": "NFTokenMint",
		"Account":         identity.Address,
		"NFTokenTaxon":    0,
		"Flags":           transferableFlag,
		"URI":             encodeMetadata(md),
		"Destination":     recipient,
		"Amount":          fmt.Sprintf("%d", price),
	}
	if _, err := s.submitWithRetry(ctx, identity.Secret, tx); err != nil {
		return nil, err
	}

	assetID, err := s.locateByCertificate(ctx, recipient, md.CertificateID)
	if err != nil {
		return nil, err
	}
	return &ports.MintOutcome{
		State:   domain.StateAccepted,
		AssetID: assetID,
		Path:    pathDirect,
	}, nil
}

// runTransfer moves an already-minted, issuer-owned asset to the recipient
// via one variant. Success requires verified recipient ownership, not just
// an accepted submission.
func (s *TokenizationService) runTransfer(ctx context.Context, path string, identity *domain.Identity, recipient, assetID string, price int64) error {
	switch path {
	case pathSellOffer:
		return s.transferViaSellOffer(ctx, identity, recipient, assetID, price)
	case pathBuyOffer:
		return s.transferViaBuyOffer(ctx, identity, recipient, assetID, price)
	case pathAuto:
		return s.transferViaAutoOffer(ctx, identity, recipient, assetID, price)
	default:
		s.log.Warn().Str("path", path).Msg("unknown transfer path in fallback order")
		return errPathUnsupported
	}
}

// transferViaSellOffer: issuer posts a destination-locked sell offer, the
// recipient accepts it. Needs the recipient's signing credential.
func (s *TokenizationService) transferViaSellOffer(ctx context.Context, identity *domain.Identity, recipient, assetID string, price int64) error {
	recipientSecret := s.participantSecret(recipient)
	if recipientSecret == "" {
		return errPathUnsupported
	}

	offerTx := map[string]any{
		"TransactionType": "NFTokenCreateOffer",
		"Account":         identity.Address,
		"NFTokenID":       assetID,
		"Amount":          fmt.Sprintf("%d", price),
		"Destination":     recipient,
		"Flags":           tfSellToken,
	}
	if _, err := s.submitWithRetry(ctx, identity.Secret, offerTx); err != nil {
		return err
	}

	offerIndex, err := s.findSellOffer(ctx, assetID, recipient)
	if err != nil {
		return err
	}

	acceptTx := map[string]any{
		"TransactionType":  "NFTokenAcceptOffer",
		"Account":          recipient,
		"NFTokenSellOffer": offerIndex,
	}
	if _, err := s.submitWithRetry(ctx, recipientSecret, acceptTx); err != nil {
		return err
	}
	return s.verifyOwnership(ctx, recipient, assetID)
}

// transferViaBuyOffer: the recipient posts a buy offer, the issuer accepts
// it. Needs the recipient's signing credential.
func (s *TokenizationService) transferViaBuyOffer(ctx context.Context, identity *domain.Identity, recipient, assetID string, price int64) error {
	recipientSecret := s.participantSecret(recipient)
	if recipientSecret == "" {
		return errPathUnsupported
	}

	buyTx := map[string]any{
		"TransactionType": "NFTokenCreateOffer",
		"Account":         recipient,
		"Owner":           identity.Address,
		"NFTokenID":       assetID,
		"Amount":          fmt.Sprintf("%d", price),
	}
	if _, err := s.submitWithRetry(ctx, recipientSecret, buyTx); err != nil {
		return err
	}

	offerIndex, err := s.findBuyOffer(ctx, assetID, recipient)
	if err != nil {
		return err
	}

	acceptTx := map[string]any{
		"TransactionType": "NFTokenAcceptOffer",
		"Account":         identity.Address,
		"NFTokenBuyOffer": offerIndex,
	}
	if _, err := s.submitWithRetry(ctx, identity.Secret, acceptTx); err != nil {
		return err
	}
	return s.verifyOwnership(ctx, recipient, assetID)
}

// transferViaAutoOffer: issuer posts a zero-cost destination-locked sell
// offer and waits for the ledger to settle it to the destination. Works only
// on ledgers that auto-claim such offers, hence last in the default order.
func (s *TokenizationService) transferViaAutoOffer(ctx context.Context, identity *domain.Identity, recipient, assetID string, price int64) error {
	offerTx := map[string]any{
		"TransactionType": "NFTokenCreateOffer",
		"Account":         identity.Address,
		"NFTokenID":       assetID,
		"Amount":          fmt.Sprintf("%d", price),
		"Destination":     recipient,
		"Flags":           tfSellToken,
	}
	if _, err := s.submitWithRetry(ctx, identity.Secret, offerTx); err != nil {
		return err
	}
	return s.verifyOwnership(ctx, recipient, assetID)
}

// MintBatch mints Units certificates one after another. Each unit gets its
// own terminal outcome; callers must not assume all-or-nothing.
func (s *TokenizationService) MintBatch(ctx context.Context, req ports.MintRequest) (*ports.BatchOutcome, error) {
	if req.Units < 1 {
		return nil, apperror.ErrInvalidRequest("batch needs at least one unit")
	}

	batch := &ports.BatchOutcome{Units: make([]ports.MintOutcome, 0, req.Units)}
	unitReq := req
	unitReq.Units = 1
	for i := 0; i < req.Units; i++ {
		outcome, err := s.MintAndTransfer(ctx, unitReq)
		if err != nil {
			classified := apperror.Classify(err)
			batch.Units = append(batch.Units, ports.MintOutcome{
				State:   domain.StateAbandoned,
				Message: classified.Message,
			})
			// A dead connection fails every remaining unit the same way.
			if classified.Retryable() {
				break
			}
			continue
		}
		if outcome.State == domain.StateAccepted {
			batch.Completed++
		}
		batch.Units = append(batch.Units, *outcome)
	}

	s.log.Info().Int("requested", req.Units).Int("completed", batch.Completed).
		Msg("mint batch finished")
	return batch, nil
}

// AcceptListing accepts an outstanding transfer offer on behalf of the
// active identity, paying the listed price.
func (s *TokenizationService) AcceptListing(ctx context.Context, target domain.Order) (*ports.OrderAck, error) {
	identity := s.session.Current()
	if identity == nil {
		return nil, apperror.ErrNoActiveSession()
	}
	if target.AssetID == "" {
		return nil, apperror.ErrInvalidOrder("target is not an asset listing")
	}

	snap, err := s.sync.Refresh(ctx, identity.Address)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	quote := s.cfg.Market.QuoteAsset
	if cost := target.RequestedQuantity; cost > 0 {
		if have := snap.BalanceOf(quote); have < cost {
			return nil, apperror.ErrInsufficientBalance(quote, cost, have)
		}
	}

	offerIndex := target.OfferIndex
	if offerIndex == "" {
		offerIndex, err = s.findSellOffer(ctx, target.AssetID, identity.Address)
		if err != nil {
			return nil, apperror.Classify(err)
		}
	}

	tx := map[string]any{
		"TransactionType":  "NFTokenAcceptOffer",
		"Account":          identity.Address,
		"NFTokenSellOffer": offerIndex,
	}
	result, err := s.submitWithRetry(ctx, identity.Secret, tx)

	if _, rerr := s.sync.Refresh(ctx, identity.Address); rerr != nil {
		s.log.Warn().Err(rerr).Msg("post-acceptance refresh failed")
	}
	if err != nil {
		return nil, apperror.Classify(err)
	}

	s.log.Info().Str("asset", target.AssetID).Str("tx_hash", result.TxHash).Msg("listing accepted")
	return &ports.OrderAck{TxHash: result.TxHash, EngineResult: result.EngineResult}, nil
}

// submitWithRetry submits a transaction, retrying transient verdicts and
// retryable transport failures with a fixed delay. Definite rejections
// return immediately.
func (s *TokenizationService) submitWithRetry(ctx context.Context, secret string, tx map[string]any) (*ports.SubmitResult, error) {
	attempts := s.cfg.Transfer.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, apperror.ErrTimeout("transaction submission")
			case <-time.After(s.cfg.Transfer.RetryDelay):
			}
		}

		result, err := s.gateway.Submit(ctx, ports.Submission{
			Tx:     tx,
			Secret: secret,
			Window: s.cfg.Ledger.WindowSequences,
		})
		if err != nil {
			classified := apperror.Classify(err)
			if !classified.Retryable() {
				return nil, classified
			}
			lastErr = classified
			continue
		}
		if result.Accepted() {
			return result, nil
		}
		if result.Transient() {
			lastErr = apperror.ErrLedgerRejection(result.EngineResult, result.Message)
			continue
		}
		return nil, apperror.ErrLedgerRejection(result.EngineResult, result.Message)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, apperror.ErrTimeout("transaction submission")
}

// locateByCertificate polls the account's assets until one carries the
// certificate ID. When the poll budget runs out without a match but the
// account does hold assets, the newest one is assumed to be ours: some
// ledgers strip or re-encode the attachment on inclusion.
func (s *TokenizationService) locateByCertificate(ctx context.Context, account, certID string) (string, error) {
	var newest string
	find := func() (string, bool) {
		raw, err := s.gateway.Request(ctx, "account_nfts", map[string]any{"account": account})
		if err != nil {
			return "", false
		}
		assets, err := decodeAssets(raw, account, s.now)
		if err != nil {
			return "", false
		}
		if len(assets) > 0 {
			newest = assets[len(assets)-1].ID
		}
		for _, a := range assets {
			if a.Metadata.CertificateID == certID {
				return a.ID, true
			}
		}
		return "", false
	}
	id, err := s.poll(ctx, "asset lookup", find)
	if err != nil && newest != "" {
		s.log.Warn().Str("account", account).Str("asset", newest).
			Msg("no attachment match, assuming the newest asset")
		return newest, nil
	}
	return id, err
}

// verifyOwnership polls until the account demonstrably holds the asset.
func (s *TokenizationService) verifyOwnership(ctx context.Context, account, assetID string) error {
	find := func() (string, bool) {
		raw, err := s.gateway.Request(ctx, "account_nfts", map[string]any{"account": account})
		if err != nil {
			return "", false
		}
		assets, err := decodeAssets(raw, account, s.now)
		if err != nil {
			return "", false
		}
		for _, a := range assets {
			if a.ID == assetID {
				return a.ID, true
			}
		}
		return "", false
	}
	_, err := s.poll(ctx, "ownership verification", find)
	return err
}

// poll runs find at the configured interval until it reports success or the
// poll timeout elapses.
func (s *TokenizationService) poll(ctx context.Context, operation string, find func() (string, bool)) (string, error) {
	deadline := time.NewTimer(s.cfg.Market.PollTimeout)
	defer deadline.Stop()

	for {
		if v, ok := find(); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			return "", apperror.ErrTimeout(operation)
		case <-deadline.C:
			return "", apperror.ErrTimeout(operation)
		case <-time.After(s.cfg.Market.PollInterval):
		}
	}
}

func (s *TokenizationService) findSellOffer(ctx context.Context, assetID, destination string) (string, error) {
	return s.poll(ctx, "transfer offer lookup", func() (string, bool) {
		raw, err := s.gateway.Request(ctx, "nft_sell_offers", map[string]any{"nft_id": assetID})
		if err != nil {
			return "", false
		}
		offers, err := decodeSellOffers(raw, assetID)
		if err != nil {
			return "", false
		}
		for _, o := range offers {
			if destination == "" || o.Counterparty == destination {
				return o.OfferIndex, true
			}
		}
		return "", false
	})
}

func (s *TokenizationService) findBuyOffer(ctx context.Context, assetID, owner string) (string, error) {
	return s.poll(ctx, "transfer offer lookup", func() (string, bool) {
		raw, err := s.gateway.Request(ctx, "nft_buy_offers", map[string]any{"nft_id": assetID})
		if err != nil {
			return "", false
		}
		offers, err := decodeSellOffers(raw, assetID)
		if err != nil {
			return "", false
		}
		for _, o := range offers {
			// Buy offers do not carry a destination; match on the poster.
			if o.Counterparty == "" || o.Counterparty == owner {
				return o.OfferIndex, true
			}
		}
		return "", false
	})
}

// participantSecret returns the registry credential for an address, empty
// when the client cannot sign for it.
func (s *TokenizationService) participantSecret(address string) string {
	for _, p := range s.cfg.Participants {
		if p.Address == address {
			return p.Secret
		}
	}
	return ""
}

func containsPath(order []string, path string) bool {
	for _, p := range order {
		if p == path {
			return true
		}
	}
	return false
}
