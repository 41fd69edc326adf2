// Package keyseq hands out surrogate keys from named monotonic sequences
// A reserved key is never handed out again, even after the dimension is reloaded
package keyseq

import (
	"context"
	"sync"

	perr "starforge/internal/platform/errors"
)

// Sequence reserves blocks of surrogate keys
type Sequence interface {
	// Next reserves n keys on the named sequence and returns the first one
	// the block is first..first+n-1
	Next(ctx context.Context, name string, n int) (first int64, err error)
}

// Memory is a process local Sequence
type Memory struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewMemory returns an empty in memory sequence
func NewMemory() *Memory { return &Memory{last: map[string]int64{}} }

// Next implements Sequence
func (m *Memory) Next(ctx context.Context, name string, n int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, perr.InvalidArgf("keyseq: block size must be positive, got %d", n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	first := m.last[name] + 1
	m.last[name] += int64(n)
	return first, nil
}

// Last returns the high water mark of name
func (m *Memory) Last(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last[name]
}

// Block expands a reservation into its keys
func Block(first int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = first + int64(i)
	}
	return out
}
