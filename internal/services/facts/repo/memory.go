package repo

import (
	"context"
	"slices"
	"sync"

	"starforge/internal/modkit/repokit"
	"starforge/internal/services/facts/domain"
)

// Memory keeps the fact tables in process, for dry runs and tests
type Memory struct {
	mu         sync.RWMutex
	facts      []domain.FactRecord
	rejections []domain.RejectedFact
}

// NewMemory returns empty in memory fact tables
func NewMemory() *Memory { return &Memory{} }

// Bind implements repokit.Binder, the queryer is ignored
func (m *Memory) Bind(repokit.Queryer) domain.StorageRepo { return m }

// ReplaceFacts implements domain.StorageRepo
func (m *Memory) ReplaceFacts(ctx context.Context, facts []domain.FactRecord, _ int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts = slices.Clone(facts)
	return len(facts), nil
}

// ReplaceRejections implements domain.StorageRepo
func (m *Memory) ReplaceRejections(ctx context.Context, rej []domain.RejectedFact, _ string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = slices.Clone(rej)
	return len(rej), nil
}

// LoadFacts implements domain.StorageRepo
func (m *Memory) LoadFacts(ctx context.Context) ([]domain.FactRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.facts), nil
}

// Rejections returns what was last written to the rejection sink
func (m *Memory) Rejections() []domain.RejectedFact {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.rejections)
}
