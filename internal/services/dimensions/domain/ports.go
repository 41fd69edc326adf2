package domain

import (
	"context"

	"starforge/internal/core/datekey"
	stagedom "starforge/internal/services/staging/domain"
)

// BuilderPort is what the refresh orchestrator calls
type BuilderPort interface {
	Build(ctx context.Context, staged []stagedom.StagedRecord) (Snapshot, error)
}

// StorageRepo persists the dimension tables
// each Replace truncates its table first, run it inside a transaction
type StorageRepo interface {
	ReplaceDates(ctx context.Context, days []datekey.Day, chunk int) (int, error)
	ReplaceCountries(ctx context.Context, rows []Ref) (int, error)
	ReplaceCategories(ctx context.Context, rows []Ref) (int, error)
	ReplaceCustomers(ctx context.Context, chains []CustomerChain, chunk int) (int, error)
	ReplaceProducts(ctx context.Context, chains []ProductChain, chunk int) (int, error)
}
