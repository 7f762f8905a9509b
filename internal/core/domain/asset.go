package domain

import "time"

// SourceKind classifies how a certified energy unit was generated.
type SourceKind string

const (
	SourceSolar   SourceKind = "Solar_PV"
	SourceWind    SourceKind = "Wind_Farm"
	SourceUnknown SourceKind = "Unknown"
)

// AssetMetadata is the structured document carried in a tokenized asset's
// attachment field.
type AssetMetadata struct {
	SourceKind    SourceKind `json:"source_kind"`
	ProducedAt    time.Time  `json:"produced_at"`
	CertificateID string     `json:"certificate_id"`
	Location      string     `json:"location"`
}

// TokenizedAsset is one certified unit of generated energy. Lifecycle:
// minted (issuer-owned) -> offered -> accepted (consumer-owned). An asset
// whose transfer fails stays minted and issuer-owned; that is a modeled
// dead-end requiring operator intervention, not an exception.
type TokenizedAsset struct {
	ID           string        `json:"id"`
	Owner        string        `json:"owner"`
	Transferable bool          `json:"transferable"`
	// Accepted is false while a second-phase acceptance is still pending.
	Accepted bool          `json:"accepted"`
	Metadata AssetMetadata `json:"metadata"`
}

// TransferOffer exists on-ledger only between creation and acceptance or
// cancellation; nothing here assumes it persists.
type TransferOffer struct {
	AssetID      string `json:"asset_id"`
	Direction    Side   `json:"direction"`
	Counterparty string `json:"counterparty"`
	PriceDrops   int64  `json:"price_drops"`
	OfferIndex   string `json:"offer_index"`
}

// MarketplaceListing is a denormalized row of the slow marketplace scan: an
// owned asset together with its outstanding transfer offer.
type MarketplaceListing struct {
	Seller string         `json:"seller"`
	Asset  TokenizedAsset `json:"asset"`
	Offer  TransferOffer  `json:"offer"`
}

// WorkflowState tracks one minting request through the tokenization
// workflow.
type WorkflowState string

const (
	StateMinting         WorkflowState = "MINTING"
	StateLocating        WorkflowState = "LOCATING_ON_LEDGER"
	StateTransferPending WorkflowState = "TRANSFER_PENDING"
	StateAccepted        WorkflowState = "ACCEPTED"
	StateAbandoned       WorkflowState = "ABANDONED"
)

// Terminal reports whether the workflow is finished in this state.
func (s WorkflowState) Terminal() bool {
	return s == StateAccepted || s == StateAbandoned
}
