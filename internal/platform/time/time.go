// Package time holds the warehouse's time conventions: UTC everywhere, RFC3339 on the wire
package time

import "time"

// NowUTC is the wall clock in UTC, run log and load timestamps use it
func NowUTC() time.Time { return time.Now().UTC() }

// Stamp renders t for API payloads
func Stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Ptr returns nil for the zero time, for nullable columns such as finished_at
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
