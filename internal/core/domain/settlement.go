package domain

import "time"

// SettlementRecord is an immutable, ledger-confirmed record of a completed
// mutating operation. Fetched, appended, never locally mutated.
type SettlementRecord struct {
	Hash         string    `json:"hash"`
	Kind         string    `json:"kind"` // transaction type as reported by the ledger
	Account      string    `json:"account"`
	Counterparty string    `json:"counterparty,omitempty"`
	Asset        string    `json:"asset,omitempty"`
	Amount       float64   `json:"amount"`
	LedgerIndex  uint32    `json:"ledger_index"`
	LedgerTime   time.Time `json:"ledger_time"`
}
