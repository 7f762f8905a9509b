package domain

import (
	"sort"
	"time"
)

// Side of an order from the owner's perspective on the base (energy) asset.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Balance is one (owner, asset) row. Quantities are recomputed wholesale on
// every sync, never incrementally patched, so they cannot drift from ledger
// truth.
type Balance struct {
	Account  string  `json:"account"`
	Asset    string  `json:"asset"`
	Quantity float64 `json:"quantity"`
}

// Order is a read-only projection of an open offer on the ledger. The price
// is always derived from the two amounts; it is never stored where it could
// disagree with the ratio.
type Order struct {
	ID                string    `json:"id"`
	Account           string    `json:"account"`
	Side              Side      `json:"side"`
	OfferedAsset      string    `json:"offered_asset"`
	OfferedQuantity   float64   `json:"offered_quantity"`
	RequestedAsset    string    `json:"requested_asset"`
	RequestedQuantity float64   `json:"requested_quantity"`
	// AssetID and OfferIndex are set when the order is a tokenized-asset
	// listing rather than a fungible exchange offer.
	AssetID    string    `json:"asset_id,omitempty"`
	OfferIndex string    `json:"offer_index,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Price returns the quote amount per base unit. For a sell the owner offers
// base and requests quote; for a buy the inverse.
func (o Order) Price() float64 {
	switch o.Side {
	case SideSell:
		if o.OfferedQuantity == 0 {
			return 0
		}
		return o.RequestedQuantity / o.OfferedQuantity
	default:
		if o.RequestedQuantity == 0 {
			return 0
		}
		return o.OfferedQuantity / o.RequestedQuantity
	}
}

// IsAssetListing reports whether executing this order means accepting a
// tokenized-asset transfer offer instead of submitting a counter-order.
func (o Order) IsAssetListing() bool {
	return o.AssetID != ""
}

// OrderBookSnapshot is the two-sided market view. It is replaced atomically,
// never merged field by field.
type OrderBookSnapshot struct {
	Bids []Order `json:"bids"`
	Asks []Order `json:"asks"`
}

// Sort enforces the book invariant: bids non-increasing, asks non-decreasing
// by derived price.
func (b *OrderBookSnapshot) Sort() {
	sort.SliceStable(b.Bids, func(i, j int) bool {
		return b.Bids[i].Price() > b.Bids[j].Price()
	})
	sort.SliceStable(b.Asks, func(i, j int) bool {
		return b.Asks[i].Price() < b.Asks[j].Price()
	})
}
