package testkit

import (
	"os"
	"testing"
)

var seam = func() string { return "real" }

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &seam, func() string { return "fake" })
		if got := seam(); got != "fake" {
			t.Fatalf("seam() = %q during swap", got)
		}
	})
	if got := seam(); got != "real" {
		t.Fatalf("seam() = %q after cleanup", got)
	}
}

func TestWriteTemp(t *testing.T) {
	t.Parallel()

	p := WriteTemp(t, "retail.csv", []byte("Invoice\n1\n"))
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Invoice\n1\n" {
		t.Fatalf("content = %q", b)
	}
}
