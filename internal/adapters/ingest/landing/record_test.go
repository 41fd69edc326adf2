package landing

import (
	"context"
	"errors"
	"io"
	"testing"

	"starforge/internal/core/rawfield"
)

func TestMatchColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Invoice", ColInvoice, true},
		{"InvoiceNo", ColInvoice, true},
		{"invoice_date", ColInvoiceDate, true},
		{"Customer ID", ColCustomerID, true},
		{"customer_id", ColCustomerID, true},
		{"CUSTOMERID", ColCustomerID, true},
		{"UnitPrice", ColPrice, true},
		{"\uFEFFInvoice", ColInvoice, true},
		{" Country ", ColCountry, true},
		{"Region", "", false},
	}
	for _, tc := range tests {
		got, ok := MatchColumn(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("MatchColumn(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRecord_SetAndIdentifier(t *testing.T) {
	t.Parallel()

	var r Record
	if r.HasIdentifier() {
		t.Fatal("zero record should have no identifier")
	}
	for _, c := range Columns {
		r.Set(c, rawfield.Text(c))
	}
	r.Set("Nope", rawfield.Text("x"))
	if r.Invoice.String() != ColInvoice || r.Country.String() != ColCountry || r.CustomerID.String() != ColCustomerID {
		t.Fatalf("Set did not route columns: %+v", r)
	}
	if !r.HasIdentifier() {
		t.Fatal("HasIdentifier = false, want true")
	}
	r.Set(ColInvoice, Cell("   "))
	if r.HasIdentifier() {
		t.Fatal("blank invoice should not count as identifier")
	}
	if !Cell("").IsNull() {
		t.Fatal("Cell(\"\") should be null")
	}
}

type sliceReader struct {
	recs   []Record
	err    error
	closed bool
}

func (s *sliceReader) Next() (Record, error) {
	if len(s.recs) == 0 {
		if s.err != nil {
			return Record{}, s.err
		}
		return Record{}, io.EOF
	}
	r := s.recs[0]
	s.recs = s.recs[1:]
	return r, nil
}

func (s *sliceReader) Close() error { s.closed = true; return nil }

func TestReadAll(t *testing.T) {
	t.Parallel()

	sr := &sliceReader{recs: []Record{{Position: 1}, {Position: 2}}}
	out, err := ReadAll(context.Background(), sr)
	if err != nil || len(out) != 2 {
		t.Fatalf("ReadAll = (%d, %v), want (2, nil)", len(out), err)
	}
	if !sr.closed {
		t.Fatal("reader not closed")
	}

	boom := errors.New("boom")
	sr = &sliceReader{recs: []Record{{Position: 1}}, err: boom}
	if _, err := ReadAll(context.Background(), sr); !errors.Is(err, boom) {
		t.Fatalf("ReadAll err = %v, want boom", err)
	}
	if !sr.closed {
		t.Fatal("reader not closed after error")
	}
}
