package ports

import (
	"context"

	"energy-dex/internal/core/domain"
)

//go:generate mockgen -source=stores.go -destination=mocks/stores_mock.go -package=mocks

// CredentialStore is the narrow persisted key-value contract the session
// manager funnels every read/write through. Values are opaque strings.
type CredentialStore interface {
	// Get returns the stored value and whether the key existed.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SettlementArchive persists fetched settlement records append-only. A nil
// archive disables archiving; sync treats archive failures as non-fatal.
type SettlementArchive interface {
	Record(ctx context.Context, records []domain.SettlementRecord) error
	Recent(ctx context.Context, account string, limit int) ([]domain.SettlementRecord, error)
}
