package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	if Ptr(time.Time{}) != nil {
		t.Fatal("zero time should be nil")
	}
	at := time.Date(2010, 12, 9, 12, 50, 0, 0, time.UTC)
	if p := Ptr(at); p == nil || !p.Equal(at) {
		t.Fatalf("Ptr = %v", p)
	}
}

func TestStamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2010, 12, 9, 13, 50, 0, 0, time.FixedZone("CET", 3600))
	if got := Stamp(at); got != "2010-12-09T12:50:00Z" {
		t.Fatalf("Stamp = %q", got)
	}
	if NowUTC().Location() != time.UTC {
		t.Fatal("NowUTC is not UTC")
	}
}
