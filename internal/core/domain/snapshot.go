package domain

// Snapshot is the coherent local view of ledger state for one account. The
// UI reads it; sync replaces it wholesale. Errors records sub-queries that
// failed this pass, keyed by field name; a failed field keeps its previous
// content but is flagged, and never blocks sibling fields.
type Snapshot struct {
	Address     string             `json:"address"`
	Balances    []Balance          `json:"balances"`
	OpenOrders  []Order            `json:"open_orders"`
	Assets      []TokenizedAsset   `json:"assets"`
	Book        OrderBookSnapshot  `json:"book"`
	Settlements []SettlementRecord `json:"settlements"`
	Connection  ConnectionState    `json:"connection"`
	Errors      map[string]string  `json:"errors,omitempty"`
}

// BalanceOf returns the synced quantity of one asset, zero when absent.
func (s *Snapshot) BalanceOf(asset string) float64 {
	for _, b := range s.Balances {
		if b.Asset == asset {
			return b.Quantity
		}
	}
	return 0
}

// TransferableAssets returns the owned certificates that are both
// transferable and past the acceptance phase, i.e. sellable.
func (s *Snapshot) TransferableAssets() []TokenizedAsset {
	var out []TokenizedAsset
	for _, a := range s.Assets {
		if a.Transferable && a.Accepted {
			out = append(out, a)
		}
	}
	return out
}
