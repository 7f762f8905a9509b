package service

import (
	"context"
	"sync"
	"time"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"

	"github.com/rs/zerolog"
)

const settlementFetchLimit = 50

// SyncService implements ports.StateSync. It is the only writer of the
// local snapshot, which it replaces wholesale on every pass.
type SyncService struct {
	gateway ports.LedgerConn
	archive ports.SettlementArchive // nil disables archiving
	cfg     *config.Config
	log     zerolog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	current *domain.Snapshot
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	gateway ports.LedgerConn,
	archive ports.SettlementArchive,
	cfg *config.Config,
	log zerolog.Logger,
) *SyncService {
	return &SyncService{
		gateway: gateway,
		archive: archive,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// Refresh pulls balances, open orders, owned assets, the two-sided book and
// recent settlements concurrently. A failing sub-query flags its field and
// leaves the siblings alone; only a dead connection fails the whole pass.
func (s *SyncService) Refresh(ctx context.Context, address string) (*domain.Snapshot, error) {
	if !s.gateway.EnsureConnected(ctx, s.cfg.Ledger.ConnectRetries, s.cfg.Ledger.RetryDelay) {
		return nil, apperror.ErrConnectFailed(s.cfg.Ledger.ConnectRetries, nil)
	}

	snap := &domain.Snapshot{Address: address}

	var (
		wg     sync.WaitGroup
		failMu sync.Mutex
		fails  = make(map[string]string)
	)
	fail := func(field string, raw error) {
		classified := apperror.Classify(raw)
		failMu.Lock()
		fails[field] = classified.Message
		failMu.Unlock()
		s.log.Warn().Str("field", field).Str("kind", string(classified.Kind)).
			Msg("sync sub-query failed: " + classified.Message)
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		balances, err := s.fetchBalances(ctx, address)
		if err != nil {
			fail("balances", err)
			return
		}
		snap.Balances = balances
	}()
	go func() {
		defer wg.Done()
		orders, err := s.fetchOpenOrders(ctx, address)
		if err != nil {
			fail("orders", err)
			return
		}
		snap.OpenOrders = orders
	}()
	go func() {
		defer wg.Done()
		assets, err := s.fetchAssets(ctx, address)
		if err != nil {
			fail("assets", err)
			return
		}
		snap.Assets = assets
	}()
	go func() {
		defer wg.Done()
		book, err := s.fetchBook(ctx)
		if err != nil {
			fail("book", err)
			return
		}
		snap.Book = *book
	}()
	go func() {
		defer wg.Done()
		recs, err := s.fetchSettlements(ctx, address)
		if err != nil {
			fail("settlements", err)
			return
		}
		snap.Settlements = recs
	}()
	wg.Wait()

	if len(fails) > 0 {
		snap.Errors = fails
	}
	snap.Connection = s.gateway.State()

	if s.archive != nil && len(snap.Settlements) > 0 {
		if err := s.archive.Record(ctx, snap.Settlements); err != nil {
			s.log.Warn().Err(err).Msg("settlement archive write failed")
		}
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.log.Debug().
		Str("address", address).
		Int("balances", len(snap.Balances)).
		Int("orders", len(snap.OpenOrders)).
		Int("assets", len(snap.Assets)).
		Int("failed_fields", len(fails)).
		Msg("snapshot refreshed")
	return snap, nil
}

// Current returns the latest snapshot, nil before the first refresh.
func (s *SyncService) Current() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SyncService) fetchBalances(ctx context.Context, address string) ([]domain.Balance, error) {
	info, err := s.gateway.Request(ctx, "account_info", map[string]any{"account": address})
	if err != nil {
		return nil, err
	}
	lines, err := s.gateway.Request(ctx, "account_lines", map[string]any{"account": address})
	if err != nil {
		return nil, err
	}
	return decodeBalances(address, info, lines, s.cfg.Market.QuoteAsset)
}

func (s *SyncService) fetchOpenOrders(ctx context.Context, address string) ([]domain.Order, error) {
	raw, err := s.gateway.Request(ctx, "account_offers", map[string]any{"account": address})
	if err != nil {
		return nil, err
	}
	return decodeOffers(raw, address, s.cfg.Market.BaseAsset, s.cfg.Market.QuoteAsset)
}

func (s *SyncService) fetchAssets(ctx context.Context, address string) ([]domain.TokenizedAsset, error) {
	raw, err := s.gateway.Request(ctx, "account_nfts", map[string]any{"account": address})
	if err != nil {
		return nil, err
	}
	return decodeAssets(raw, address, s.now)
}

// fetchBook pulls each side independently and sorts the assembled snapshot.
func (s *SyncService) fetchBook(ctx context.Context) (*domain.OrderBookSnapshot, error) {
	base, quote := s.cfg.Market.BaseAsset, s.cfg.Market.QuoteAsset

	asksRaw, err := s.gateway.Request(ctx, "book_offers", map[string]any{
		"taker_gets": base, "taker_pays": quote,
	})
	if err != nil {
		return nil, err
	}
	asks, err := decodeOffers(asksRaw, "", base, quote)
	if err != nil {
		return nil, err
	}

	bidsRaw, err := s.gateway.Request(ctx, "book_offers", map[string]any{
		"taker_gets": quote, "taker_pays": base,
	})
	if err != nil {
		return nil, err
	}
	bids, err := decodeOffers(bidsRaw, "", base, quote)
	if err != nil {
		return nil, err
	}

	book := &domain.OrderBookSnapshot{Bids: bids, Asks: asks}
	book.Sort()
	return book, nil
}

func (s *SyncService) fetchSettlements(ctx context.Context, address string) ([]domain.SettlementRecord, error) {
	raw, err := s.gateway.Request(ctx, "account_tx", map[string]any{
		"account": address, "limit": settlementFetchLimit,
	})
	if err != nil {
		return nil, err
	}
	return decodeSettlements(raw, s.cfg.Market.QuoteAsset)
}

// RefreshMarketplace walks every registered participant and collects the
// outstanding transfer offers on their assets. O(accounts x assets) by
// construction, which is why it is decoupled from the per-user Refresh.
func (s *SyncService) RefreshMarketplace(ctx context.Context) ([]domain.MarketplaceListing, error) {
	if !s.gateway.EnsureConnected(ctx, s.cfg.Ledger.ConnectRetries, s.cfg.Ledger.RetryDelay) {
		return nil, apperror.ErrConnectFailed(s.cfg.Ledger.ConnectRetries, nil)
	}

	listings := make([]domain.MarketplaceListing, 0)
	for _, p := range s.cfg.Participants {
		assets, err := s.fetchAssets(ctx, p.Address)
		if err != nil {
			// One unreadable account must not hide the others' listings.
			s.log.Warn().Err(err).Str("account", p.Address).Msg("marketplace scan: asset lookup failed")
			continue
		}
		for _, asset := range assets {
			raw, err := s.gateway.Request(ctx, "nft_sell_offers", map[string]any{"nft_id": asset.ID})
			if err != nil {
				s.log.Debug().Err(err).Str("asset", asset.ID).Msg("marketplace scan: no offers")
				continue
			}
			offers, err := decodeSellOffers(raw, asset.ID)
			if err != nil {
				s.log.Warn().Err(err).Str("asset", asset.ID).Msg("marketplace scan: unreadable offers")
				continue
			}
			for _, offer := range offers {
				listed := asset
				listed.Accepted = false // transfer pending until someone accepts
				listings = append(listings, domain.MarketplaceListing{
					Seller: p.Address,
					Asset:  listed,
					Offer:  offer,
				})
			}
		}
	}

	s.log.Debug().Int("listings", len(listings)).Msg("marketplace scan complete")
	return listings, nil
}
