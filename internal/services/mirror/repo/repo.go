// Package repo writes mirror tables to clickhouse
package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"starforge/internal/platform/store"
	"starforge/internal/platform/store/schema"
	"starforge/internal/services/mirror/domain"
)

// CH is a domain.Writer over the store clickhouse seam
type CH struct {
	ch store.Clickhouse

	once    sync.Once
	ensured error
}

// NewCH returns a writer bound to ch
func NewCH(ch store.Clickhouse) *CH { return &CH{ch: ch} }

var _ domain.Writer = (*CH)(nil)

// Ensure runs the mirror DDL once per process
func (w *CH) Ensure(ctx context.Context) error {
	w.once.Do(func() {
		for _, st := range schema.MirrorStatements() {
			if err := w.ch.Exec(ctx, st); err != nil {
				w.ensured = fmt.Errorf("mirror: ddl: %w", err)
				return
			}
		}
	})
	return w.ensured
}

// Truncate implements domain.Writer
func (w *CH) Truncate(ctx context.Context, table string) error {
	if !slices.Contains(domain.Tables, table) {
		return fmt.Errorf("mirror: unknown table %q", table)
	}
	return w.ch.Exec(ctx, "TRUNCATE TABLE IF EXISTS "+table)
}

// Insert implements domain.Writer
func (w *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	return w.ch.Insert(ctx, table, rows)
}

// Memory is a domain.Writer that keeps rows in process
type Memory struct {
	mu     sync.Mutex
	Tables map[string][][]any
	Fail   map[string]error
}

// NewMemory returns an empty in memory mirror
func NewMemory() *Memory {
	return &Memory{Tables: map[string][][]any{}, Fail: map[string]error{}}
}

// Ensure implements domain.Writer
func (m *Memory) Ensure(context.Context) error { return nil }

// Truncate implements domain.Writer
func (m *Memory) Truncate(_ context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tables, table)
	return nil
}

// Insert implements domain.Writer
func (m *Memory) Insert(_ context.Context, table string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail[table]; err != nil {
		return err
	}
	m.Tables[table] = append(m.Tables[table], rows...)
	return nil
}

// Rows returns a copy of what table holds
func (m *Memory) Rows(table string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Tables[table])
}
