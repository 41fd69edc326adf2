package repo

import (
	"context"
	"slices"
	"sync"

	"starforge/internal/modkit/repokit"
	"starforge/internal/services/refresh/domain"
)

// Memory keeps the run log in process, for dry runs and tests
type Memory struct {
	mu   sync.RWMutex
	runs []domain.Run
}

// NewMemory returns an empty in memory run log
func NewMemory() *Memory { return &Memory{} }

// Bind implements repokit.Binder, the queryer is ignored
func (m *Memory) Bind(repokit.Queryer) domain.StorageRepo { return m }

// StartRun implements domain.StorageRepo
func (m *Memory) StartRun(ctx context.Context, run domain.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.find(run.ID); i >= 0 {
		m.runs[i] = run
		return nil
	}
	m.runs = append(m.runs, run)
	return nil
}

// FinishRun implements domain.StorageRepo
func (m *Memory) FinishRun(ctx context.Context, run domain.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.find(run.ID); i >= 0 {
		m.runs[i] = run
		return nil
	}
	// the start row may have been lost to a cancelled context
	m.runs = append(m.runs, run)
	return nil
}

// ListRuns implements domain.StorageRepo
func (m *Memory) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.runs)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) find(id string) int {
	return slices.IndexFunc(m.runs, func(r domain.Run) bool { return r.ID == id })
}
