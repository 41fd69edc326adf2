package repo

import (
	"context"
	"slices"
	"sync"

	"starforge/internal/modkit/repokit"
	"starforge/internal/services/staging/domain"
)

// Memory keeps the staged table in process, for dry runs and tests
type Memory struct {
	mu   sync.RWMutex
	recs []domain.StagedRecord
}

// NewMemory returns an empty in memory staged table
func NewMemory() *Memory { return &Memory{} }

// Bind implements repokit.Binder, the queryer is ignored
func (m *Memory) Bind(repokit.Queryer) domain.StorageRepo { return m }

// ReplaceStaged implements domain.StorageRepo
func (m *Memory) ReplaceStaged(ctx context.Context, recs []domain.StagedRecord, _ int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = slices.Clone(recs)
	return len(recs), nil
}

// LoadStaged implements domain.StorageRepo
func (m *Memory) LoadStaged(ctx context.Context, validOnly bool) ([]domain.StagedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.StagedRecord, 0, len(m.recs))
	for _, r := range m.recs {
		if validOnly && !r.IsValid {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
