// Package testkit holds helpers shared by package tests
package testkit

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

var seams sync.Mutex

// Serial holds a process wide lock until the test ends; tests that Swap package seams take it first
func Serial(t testing.TB) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}

// Swap replaces *target until the test ends
func Swap[T any](t testing.TB, target *T, v T) {
	t.Helper()
	orig := *target
	*target = v
	t.Cleanup(func() { *target = orig })
}

// WriteTemp writes body to name inside a per test directory and returns the path
func WriteTemp(t testing.TB, name string, body []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, body, 0o600); err != nil {
		t.Fatalf("testkit: write %s: %v", p, err)
	}
	return p
}
