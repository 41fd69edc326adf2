// Package scd2 models type 2 slowly changing dimension histories
//
// A Chain holds the versions of one business key, oldest first. Versions are
// immutable values and the current version is derived from the chain, never stored.
// Intervals are half open [From, To) and a nil To means open ended
package scd2

import (
	"errors"
	"fmt"
	"time"
)

// Version is one row of history for a business key
type Version[A any] struct {
	Key         int64
	BusinessKey string
	Attrs       A
	From        time.Time
	To          *time.Time
}

// IsCurrent reports whether v is the open version
func (v Version[A]) IsCurrent() bool { return v.To == nil }

// Contains reports whether ts falls inside [From, To)
func (v Version[A]) Contains(ts time.Time) bool {
	if ts.Before(v.From) {
		return false
	}
	return v.To == nil || ts.Before(*v.To)
}

var (
	// ErrEmptyChain is returned when superseding a chain with no versions
	ErrEmptyChain = errors.New("scd2: chain has no versions")
	// ErrNotAfter is returned when a change is not strictly after the current version start
	ErrNotAfter = errors.New("scd2: change must be after the current version start")
	// ErrKeyOrder is returned when a new surrogate key does not increase
	ErrKeyOrder = errors.New("scd2: surrogate keys must increase")
)

// Chain is the ordered version history of a single business key
// the zero value is an empty chain, methods never mutate the receiver
type Chain[A any] struct {
	bk       string
	versions []Version[A]
}

// Start returns a chain with a single open version
func Start[A any](key int64, bk string, attrs A, from time.Time) Chain[A] {
	return Chain[A]{
		bk:       bk,
		versions: []Version[A]{{Key: key, BusinessKey: bk, Attrs: attrs, From: from.UTC()}},
	}
}

// BusinessKey returns the natural key the chain tracks
func (c Chain[A]) BusinessKey() string { return c.bk }

// Len returns the number of versions
func (c Chain[A]) Len() int { return len(c.versions) }

// Versions returns a copy of the history, oldest first
func (c Chain[A]) Versions() []Version[A] {
	return append([]Version[A](nil), c.versions...)
}

// Current returns the open version
func (c Chain[A]) Current() (Version[A], bool) {
	if n := len(c.versions); n > 0 && c.versions[n-1].IsCurrent() {
		return c.versions[n-1], true
	}
	var zero Version[A]
	return zero, false
}

// AsOf returns the version whose interval contains ts
func (c Chain[A]) AsOf(ts time.Time) (Version[A], bool) {
	for i := len(c.versions) - 1; i >= 0; i-- {
		if c.versions[i].Contains(ts) {
			return c.versions[i], true
		}
	}
	var zero Version[A]
	return zero, false
}

// Supersede expires the current version at `at` and appends a new open version
// the expire and insert happen together or not at all
func (c Chain[A]) Supersede(key int64, attrs A, at time.Time) (Chain[A], error) {
	cur, ok := c.Current()
	if !ok {
		return c, ErrEmptyChain
	}
	at = at.UTC()
	if !at.After(cur.From) {
		return c, ErrNotAfter
	}
	if key <= cur.Key {
		return c, ErrKeyOrder
	}

	next := make([]Version[A], len(c.versions), len(c.versions)+1)
	copy(next, c.versions)
	end := at
	next[len(next)-1].To = &end
	next = append(next, Version[A]{Key: key, BusinessKey: c.bk, Attrs: attrs, From: at})
	return Chain[A]{bk: c.bk, versions: next}, nil
}

// Check verifies the chain invariants
// exactly one current version, contiguous intervals, increasing keys
func (c Chain[A]) Check() error {
	if len(c.versions) == 0 {
		return ErrEmptyChain
	}
	current := 0
	for i, v := range c.versions {
		if v.BusinessKey != c.bk {
			return fmt.Errorf("scd2: version %d has business key %q, want %q", i, v.BusinessKey, c.bk)
		}
		if v.IsCurrent() {
			current++
		}
		if v.To != nil && !v.To.After(v.From) {
			return fmt.Errorf("scd2: version %d of %q has an empty interval", i, c.bk)
		}
		if i == 0 {
			continue
		}
		prev := c.versions[i-1]
		if prev.To == nil || !prev.To.Equal(v.From) {
			return fmt.Errorf("scd2: version %d of %q is not contiguous with its predecessor", i, c.bk)
		}
		if v.Key <= prev.Key {
			return ErrKeyOrder
		}
	}
	if current != 1 || !c.versions[len(c.versions)-1].IsCurrent() {
		return fmt.Errorf("scd2: %q has %d current versions, want 1", c.bk, current)
	}
	return nil
}
