package repo

import (
	"context"
	"slices"
	"sync"

	"starforge/internal/core/datekey"
	"starforge/internal/modkit/repokit"
	"starforge/internal/services/dimensions/domain"
)

// Memory keeps the dimension tables in process, for dry runs and tests
type Memory struct {
	mu   sync.RWMutex
	snap domain.Snapshot
}

// NewMemory returns empty in memory dimension tables
func NewMemory() *Memory { return &Memory{} }

// Bind implements repokit.Binder, the queryer is ignored
func (m *Memory) Bind(repokit.Queryer) domain.StorageRepo { return m }

// Snapshot returns what was last written
func (m *Memory) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// ReplaceDates implements domain.StorageRepo
func (m *Memory) ReplaceDates(ctx context.Context, days []datekey.Day, _ int) (int, error) {
	return replace(ctx, &m.mu, &m.snap.Dates, days)
}

// ReplaceCountries implements domain.StorageRepo
func (m *Memory) ReplaceCountries(ctx context.Context, rows []domain.Ref) (int, error) {
	return replace(ctx, &m.mu, &m.snap.Countries, rows)
}

// ReplaceCategories implements domain.StorageRepo
func (m *Memory) ReplaceCategories(ctx context.Context, rows []domain.Ref) (int, error) {
	return replace(ctx, &m.mu, &m.snap.Categories, rows)
}

// ReplaceCustomers implements domain.StorageRepo
func (m *Memory) ReplaceCustomers(ctx context.Context, chains []domain.CustomerChain, _ int) (int, error) {
	if _, err := replace(ctx, &m.mu, &m.snap.Customers, chains); err != nil {
		return 0, err
	}
	return domain.Snapshot{Customers: chains}.Counts()[domain.DimCustomer], nil
}

// ReplaceProducts implements domain.StorageRepo
func (m *Memory) ReplaceProducts(ctx context.Context, chains []domain.ProductChain, _ int) (int, error) {
	if _, err := replace(ctx, &m.mu, &m.snap.Products, chains); err != nil {
		return 0, err
	}
	return domain.Snapshot{Products: chains}.Counts()[domain.DimProduct], nil
}

func replace[T any](ctx context.Context, mu *sync.RWMutex, dst *[]T, rows []T) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	mu.Lock()
	defer mu.Unlock()
	*dst = slices.Clone(rows)
	return len(rows), nil
}
