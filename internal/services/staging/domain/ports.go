package domain

import (
	"context"

	"starforge/internal/adapters/ingest/landing"
)

// StagerPort is what the refresh orchestrator calls
type StagerPort interface {
	Stage(ctx context.Context, src landing.Source) (Result, error)
}

// StorageRepo persists the staged table
type StorageRepo interface {
	// ReplaceStaged clears staged_records and writes recs in chunks of chunk rows
	ReplaceStaged(ctx context.Context, recs []StagedRecord, chunk int) (int, error)

	// LoadStaged reads staged records in position order
	LoadStaged(ctx context.Context, validOnly bool) ([]StagedRecord, error)
}
