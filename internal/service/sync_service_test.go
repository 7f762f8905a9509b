package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{
			URL:               "wss://test:6006",
			ConnectRetries:    1,
			RetryDelay:        time.Millisecond,
			RequestTimeout:    time.Second,
			WindowSequences:   20,
			TradeWindowMargin: 40,
		},
		Market: config.MarketConfig{
			BaseAsset:    "ETK",
			QuoteAsset:   "XRP",
			AssetIssuer:  "rIssuerAddress",
			PollInterval: time.Millisecond,
			PollTimeout:  100 * time.Millisecond,
		},
		Transfer: config.TransferConfig{
			FallbackOrder:     []string{"direct", "sell_offer", "buy_offer", "auto"},
			NominalPriceDrops: 1,
			RetryAttempts:     2,
			RetryDelay:        time.Millisecond,
		},
		Session: config.SessionConfig{
			JWTSecret:   "test-signing-secret",
			TokenExpiry: time.Hour,
		},
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

const testAccount = "rTestAccount1234567890"

func stubAccountState(f *fakeLedger, account string) {
	f.stub("account_info:"+account, `{"account_data":{"Balance":"25000000"}}`)
	f.stub("account_lines:"+account, `{"lines":[{"currency":"ETK","balance":"-100"}]}`)
	f.stub("account_offers:"+account, `{"offers":[
		{"account":"`+account+`","seq":7,
		 "taker_gets":{"currency":"ETK","issuer":"rIssuerAddress","value":"10"},
		 "taker_pays":"5000000"}
	]}`)
	md := encodeMetadata(domain.AssetMetadata{
		SourceKind:    domain.SourceSolar,
		ProducedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		CertificateID: "cert-001",
		Location:      "Plant A",
	})
	f.stub("account_nfts:"+account, `{"account_nfts":[
		{"nft_id":"NFT-1","uri":"`+md+`","flags":8,"issuer":"rIssuerAddress","serial":1}
	]}`)
	f.stub("account_tx:"+account, `{"transactions":[
		{"validated":true,"tx":{"hash":"HASH1","TransactionType":"Payment",
		 "Account":"`+account+`","Destination":"rOther","Amount":"1000000",
		 "ledger_index":42,"date":1700000000}},
		{"validated":false,"tx":{"hash":"HASH2","TransactionType":"Payment"}}
	]}`)
}

func stubBook(f *fakeLedger) {
	// Asks offer the base asset, bids offer the quote asset.
	f.stub("book_offers:ETK", `{"offers":[
		{"account":"rA","seq":1,
		 "taker_gets":{"currency":"ETK","issuer":"rIssuerAddress","value":"10"},
		 "taker_pays":"9000000"},
		{"account":"rB","seq":2,
		 "taker_gets":{"currency":"ETK","issuer":"rIssuerAddress","value":"10"},
		 "taker_pays":"5000000"}
	]}`)
	f.stub("book_offers:XRP", `{"offers":[
		{"account":"rC","seq":3,
		 "taker_gets":"3000000",
		 "taker_pays":{"currency":"ETK","issuer":"rIssuerAddress","value":"10"}},
		{"account":"rD","seq":4,
		 "taker_gets":"8000000",
		 "taker_pays":{"currency":"ETK","issuer":"rIssuerAddress","value":"10"}}
	]}`)
}

func TestRefreshBuildsCoherentSnapshot(t *testing.T) {
	f := newFakeLedger()
	stubAccountState(f, testAccount)
	stubBook(f)

	svc := NewSyncService(f, nil, testConfig(), testLogger())
	snap, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Nil(t, snap.Errors)
	assert.Equal(t, domain.Connected, snap.Connection)

	require.Len(t, snap.Balances, 2)
	for _, b := range snap.Balances {
		assert.GreaterOrEqual(t, b.Quantity, 0.0, "balances are magnitudes")
	}
	assert.Equal(t, 25.0, snap.BalanceOf("XRP"))
	assert.Equal(t, 100.0, snap.BalanceOf("ETK"))

	require.Len(t, snap.OpenOrders, 1)
	assert.Equal(t, domain.SideSell, snap.OpenOrders[0].Side)
	assert.Equal(t, 0.5, snap.OpenOrders[0].Price())

	require.Len(t, snap.Assets, 1)
	assert.Equal(t, "NFT-1", snap.Assets[0].ID)
	assert.True(t, snap.Assets[0].Transferable)
	assert.Equal(t, domain.SourceSolar, snap.Assets[0].Metadata.SourceKind)
	assert.Equal(t, "cert-001", snap.Assets[0].Metadata.CertificateID)

	require.Len(t, snap.Settlements, 1, "unvalidated transactions are excluded")
	assert.Equal(t, "HASH1", snap.Settlements[0].Hash)

	assert.Same(t, snap, svc.Current())
}

func TestRefreshIsIdempotent(t *testing.T) {
	f := newFakeLedger()
	stubAccountState(f, testAccount)
	stubBook(f)

	svc := NewSyncService(f, nil, testConfig(), testLogger())
	first, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err)
	second, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b), "unchanged ledger state must yield an identical snapshot")
}

func TestRefreshKeepsBookSorted(t *testing.T) {
	f := newFakeLedger()
	stubAccountState(f, testAccount)
	stubBook(f)

	svc := NewSyncService(f, nil, testConfig(), testLogger())
	snap, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err)

	for i := 1; i < len(snap.Book.Bids); i++ {
		assert.GreaterOrEqual(t, snap.Book.Bids[i-1].Price(), snap.Book.Bids[i].Price())
	}
	for i := 1; i < len(snap.Book.Asks); i++ {
		assert.LessOrEqual(t, snap.Book.Asks[i-1].Price(), snap.Book.Asks[i].Price())
	}
}

func TestRefreshIsolatesSubQueryFailures(t *testing.T) {
	f := newFakeLedger()
	stubAccountState(f, testAccount)
	stubBook(f)
	f.stubErr("account_offers:"+testAccount, errors.New("slow shard"))

	svc := NewSyncService(f, nil, testConfig(), testLogger())
	snap, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err, "one failing sub-query must not fail the pass")

	require.NotNil(t, snap.Errors)
	assert.Contains(t, snap.Errors, "orders")
	assert.NotContains(t, snap.Errors, "balances")
	assert.Equal(t, 25.0, snap.BalanceOf("XRP"), "sibling fields still populate")
	assert.NotEmpty(t, snap.Assets)
}

func TestRefreshFailsWhenUnreachable(t *testing.T) {
	f := newFakeLedger()
	f.refuseConnect = true

	svc := NewSyncService(f, nil, testConfig(), testLogger())
	_, err := svc.Refresh(context.Background(), testAccount)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConnection, appErr.Kind)
	assert.True(t, appErr.Retryable())
}

func TestRefreshSynthesizesPlaceholderMetadata(t *testing.T) {
	f := newFakeLedger()
	f.stub("account_info:"+testAccount, `{"account_data":{"Balance":"0"}}`)
	f.stub("account_nfts:"+testAccount, `{"account_nfts":[
		{"nft_id":"NFT-BAD","uri":"zz-not-hex","flags":8}
	]}`)

	svc := NewSyncService(f, nil, testConfig(), testLogger())
	snap, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err)

	require.Len(t, snap.Assets, 1, "assets with unreadable attachments still surface")
	assert.Equal(t, domain.SourceUnknown, snap.Assets[0].Metadata.SourceKind)
	assert.False(t, snap.Assets[0].Metadata.ProducedAt.IsZero())
}

func TestRefreshMarketplaceIsolatesAccounts(t *testing.T) {
	cfg := testConfig()
	cfg.Participants = []config.Participant{
		{Address: "rProducerOne", Name: "One", Role: "PRODUCER"},
		{Address: "rProducerTwo", Name: "Two", Role: "PRODUCER"},
	}

	f := newFakeLedger()
	md := encodeMetadata(domain.AssetMetadata{
		SourceKind:    domain.SourceWind,
		ProducedAt:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CertificateID: "cert-w1",
	})
	f.stub("account_nfts:rProducerOne", `{"account_nfts":[
		{"nft_id":"NFT-W1","uri":"`+md+`","flags":8}
	]}`)
	f.stub("nft_sell_offers:NFT-W1", `{"offers":[
		{"nft_offer_index":"OFF-1","amount":"1","owner":"rProducerOne","destination":"rBuyer"}
	]}`)
	f.stubErr("account_nfts:rProducerTwo", errors.New("account unreadable"))

	svc := NewSyncService(f, nil, cfg, testLogger())
	listings, err := svc.RefreshMarketplace(context.Background())
	require.NoError(t, err, "one unreadable account must not hide the rest")

	require.Len(t, listings, 1)
	assert.Equal(t, "rProducerOne", listings[0].Seller)
	assert.Equal(t, "NFT-W1", listings[0].Asset.ID)
	assert.False(t, listings[0].Asset.Accepted, "listed assets show as transfer pending")
	assert.Equal(t, "OFF-1", listings[0].Offer.OfferIndex)
	assert.Equal(t, int64(1), listings[0].Offer.PriceDrops)
}

type recordingArchive struct {
	recorded []domain.SettlementRecord
	err      error
}

func (a *recordingArchive) Record(_ context.Context, recs []domain.SettlementRecord) error {
	a.recorded = append(a.recorded, recs...)
	return a.err
}

func (a *recordingArchive) Recent(_ context.Context, _ string, _ int) ([]domain.SettlementRecord, error) {
	return a.recorded, nil
}

func TestRefreshArchivesSettlements(t *testing.T) {
	f := newFakeLedger()
	stubAccountState(f, testAccount)
	stubBook(f)

	arch := &recordingArchive{}
	svc := NewSyncService(f, arch, testConfig(), testLogger())
	_, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err)
	require.Len(t, arch.recorded, 1)
	assert.Equal(t, "HASH1", arch.recorded[0].Hash)
}

func TestRefreshToleratesArchiveFailure(t *testing.T) {
	f := newFakeLedger()
	stubAccountState(f, testAccount)
	stubBook(f)

	arch := &recordingArchive{err: fmt.Errorf("archive down")}
	svc := NewSyncService(f, arch, testConfig(), testLogger())
	snap, err := svc.Refresh(context.Background(), testAccount)
	require.NoError(t, err, "archiving is best effort")
	assert.Nil(t, snap.Errors)
}
