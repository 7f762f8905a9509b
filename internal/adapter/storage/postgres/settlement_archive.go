package postgres

import (
	"context"
	"fmt"

	"energy-dex/internal/core/domain"
)

// SettlementArchive implements ports.SettlementArchive. Settlement records
// are ledger-confirmed and immutable, so inserts are append-only and a
// re-fetched record is skipped by hash.
type SettlementArchive struct {
	pool Pool
}

// NewSettlementArchive creates a new SettlementArchive.
func NewSettlementArchive(pool Pool) *SettlementArchive {
	return &SettlementArchive{pool: pool}
}

// Record appends fetched settlement records, ignoring already-archived
// hashes.
func (a *SettlementArchive) Record(ctx context.Context, records []domain.SettlementRecord) error {
	query := `INSERT INTO settlements (hash, kind, account, counterparty, asset, amount, ledger_index, ledger_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (hash) DO NOTHING`

	for _, rec := range records {
		_, err := a.pool.Exec(ctx, query,
			rec.Hash, rec.Kind, rec.Account, rec.Counterparty,
			rec.Asset, rec.Amount, rec.LedgerIndex, rec.LedgerTime,
		)
		if err != nil {
			return fmt.Errorf("insert settlement %s: %w", rec.Hash, err)
		}
	}
	return nil
}

// Recent returns the newest archived records touching an account.
func (a *SettlementArchive) Recent(ctx context.Context, account string, limit int) ([]domain.SettlementRecord, error) {
	query := `SELECT hash, kind, account, counterparty, asset, amount, ledger_index, ledger_time
		FROM settlements
		WHERE account = $1 OR counterparty = $1
		ORDER BY ledger_index DESC
		LIMIT $2`

	rows, err := a.pool.Query(ctx, query, account, limit)
	if err != nil {
		return nil, fmt.Errorf("query settlements: %w", err)
	}
	defer rows.Close()

	var out []domain.SettlementRecord
	for rows.Next() {
		var rec domain.SettlementRecord
		if err := rows.Scan(&rec.Hash, &rec.Kind, &rec.Account, &rec.Counterparty,
			&rec.Asset, &rec.Amount, &rec.LedgerIndex, &rec.LedgerTime); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}
	return out, nil
}
