package domain

import (
	"context"
	"time"

	keydom "starforge/internal/services/keyres/domain"
	stagedom "starforge/internal/services/staging/domain"
)

// AssemblerPort is what the refresh orchestrator calls
type AssemblerPort interface {
	Assemble(ctx context.Context, staged []stagedom.StagedRecord, res keydom.ResolverPort, loadedAt time.Time) (Result, error)
}

// StorageRepo persists fact_sales and fact_rejections
// each Replace truncates its table first, run both inside one transaction
type StorageRepo interface {
	ReplaceFacts(ctx context.Context, facts []FactRecord, chunk int) (int, error)
	ReplaceRejections(ctx context.Context, rej []RejectedFact, runID string) (int, error)
	LoadFacts(ctx context.Context) ([]FactRecord, error)
}
