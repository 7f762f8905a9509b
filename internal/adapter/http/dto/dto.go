// Package dto defines the request and response documents of the HTTP
// command surface.
package dto

import "energy-dex/internal/core/domain"

// LoginRequest carries the ledger signing credential.
type LoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// LoginResponse returns the resolved identity and session token. The
// credential itself is never echoed back.
type LoginResponse struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Token       string `json:"token"`
}

// CreateOrderRequest places an open offer on the base asset.
type CreateOrderRequest struct {
	Side      string  `json:"side" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
	UnitPrice float64 `json:"unit_price" binding:"required"`
}

// ExecuteTradeRequest fills an existing order. The full target is echoed
// back by the caller from a snapshot; the engine re-validates it against
// fresh state before submitting.
type ExecuteTradeRequest struct {
	ID                string  `json:"id"`
	Account           string  `json:"account" binding:"required"`
	Side              string  `json:"side"`
	OfferedAsset      string  `json:"offered_asset"`
	OfferedQuantity   float64 `json:"offered_quantity"`
	RequestedAsset    string  `json:"requested_asset"`
	RequestedQuantity float64 `json:"requested_quantity"`
	AssetID           string  `json:"asset_id"`
	OfferIndex        string  `json:"offer_index"`
}

// Order converts the request into the domain projection.
func (r ExecuteTradeRequest) Order() domain.Order {
	return domain.Order{
		ID:                r.ID,
		Account:           r.Account,
		Side:              domain.Side(r.Side),
		OfferedAsset:      r.OfferedAsset,
		OfferedQuantity:   r.OfferedQuantity,
		RequestedAsset:    r.RequestedAsset,
		RequestedQuantity: r.RequestedQuantity,
		AssetID:           r.AssetID,
		OfferIndex:        r.OfferIndex,
	}
}

// MintRequest asks for Units certified energy tokens minted and handed to
// Recipient.
type MintRequest struct {
	SourceKind string `json:"source_kind"`
	Location   string `json:"location"`
	Recipient  string `json:"recipient" binding:"required"`
	PriceDrops int64  `json:"price_drops"`
	Units      int    `json:"units"`
}
