// Package domain holds the key resolution modes and port
package domain

import (
	"time"

	dimdom "starforge/internal/services/dimensions/domain"
)

// Mode selects which version of a Type 2 row a lookup returns
type Mode struct {
	asOf *time.Time
}

// Current resolves to the open version
func Current() Mode { return Mode{} }

// AsOf resolves to the version whose [from, to) interval contains ts
func AsOf(ts time.Time) Mode { return Mode{asOf: &ts} }

// At returns the as-of instant, ok is false for Current
func (m Mode) At() (time.Time, bool) {
	if m.asOf == nil {
		return time.Time{}, false
	}
	return *m.asOf, true
}

// String renders the mode for logs
func (m Mode) String() string {
	if m.asOf == nil {
		return "CURRENT"
	}
	return "AS_OF(" + m.asOf.UTC().Format(time.RFC3339) + ")"
}

// ResolverPort maps business keys to surrogate keys
// nil means no match, callers decide whether that is fatal
type ResolverPort interface {
	Resolve(dim dimdom.DimType, bk string, m Mode) *int64
	ResolveDate(key int32) *int64
}
