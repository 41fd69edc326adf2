package domain

import (
	"context"

	dimdom "starforge/internal/services/dimensions/domain"
	factdom "starforge/internal/services/facts/domain"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context) (Run, error)
}

// StorageRepo is the run log repository
type StorageRepo interface {
	// StartRun records a new run in its initial state
	StartRun(ctx context.Context, run Run) error

	// FinishRun records the final state, counts and error text
	FinishRun(ctx context.Context, run Run) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// MirrorPort copies the finished warehouse into an analytics store
type MirrorPort interface {
	Publish(ctx context.Context, snap dimdom.Snapshot, facts []factdom.FactRecord) error
}
