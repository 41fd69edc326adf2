// Package landing defines the shape of landed raw line items and the reader seams over them
//
// Landed data is never cleaned here. Every column is carried as text exactly as it
// arrived, a missing or empty cell is a null field
package landing

import (
	"context"
	"errors"
	"io"
	"strings"

	"starforge/internal/core/rawfield"
)

// Column names as they appear in the landed retail extract
const (
	ColInvoice     = "Invoice"
	ColStockCode   = "StockCode"
	ColDescription = "Description"
	ColQuantity    = "Quantity"
	ColInvoiceDate = "InvoiceDate"
	ColPrice       = "Price"
	ColCustomerID  = "Customer ID"
	ColCountry     = "Country"
)

// Columns lists the landed columns in source order
var Columns = []string{
	ColInvoice, ColStockCode, ColDescription, ColQuantity,
	ColInvoiceDate, ColPrice, ColCustomerID, ColCountry,
}

// Record is one landed row, immutable once read
type Record struct {
	Source   string // file or table the row came from
	Position int64  // 1 based row position within Source

	Invoice     rawfield.Field
	StockCode   rawfield.Field
	Description rawfield.Field
	Quantity    rawfield.Field
	InvoiceDate rawfield.Field
	Price       rawfield.Field
	CustomerID  rawfield.Field
	Country     rawfield.Field
}

// HasIdentifier reports whether the record carries a non blank invoice id
func (r Record) HasIdentifier() bool { return rawfield.ParseText(r.Invoice).OK }

// Set assigns a column by canonical name, unknown names are ignored
func (r *Record) Set(col string, f rawfield.Field) {
	switch col {
	case ColInvoice:
		r.Invoice = f
	case ColStockCode:
		r.StockCode = f
	case ColDescription:
		r.Description = f
	case ColQuantity:
		r.Quantity = f
	case ColInvoiceDate:
		r.InvoiceDate = f
	case ColPrice:
		r.Price = f
	case ColCustomerID:
		r.CustomerID = f
	case ColCountry:
		r.Country = f
	}
}

// Cell turns a landed cell into a field, empty text becomes null
func Cell(s string) rawfield.Field {
	if s == "" {
		return rawfield.Null()
	}
	return rawfield.Text(s)
}

// aliases covers header spellings from the older online retail extract
var aliases = map[string]string{
	"invoiceno": ColInvoice,
	"unitprice": ColPrice,
}

// MatchColumn maps a header to its canonical column name
// matching ignores case, spaces and underscores so "customer_id" finds "Customer ID"
func MatchColumn(header string) (string, bool) {
	k := headerKey(header)
	if c, ok := aliases[k]; ok {
		return c, true
	}
	for _, c := range Columns {
		if headerKey(c) == k {
			return c, true
		}
	}
	return "", false
}

func headerKey(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "").Replace(s)
}

// Reader streams records, Next returns io.EOF when done
type Reader interface {
	Next() (Record, error)
	Close() error
}

// Source opens a fresh Reader over the landed data
type Source interface {
	Open(ctx context.Context) (Reader, error)
	Name() string
}

// ReadAll drains r into memory, r is closed on return
func ReadAll(ctx context.Context, r Reader) (out []Record, err error) {
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, e := r.Next()
		if e != nil {
			if errors.Is(e, io.EOF) {
				return out, nil
			}
			return nil, e
		}
		out = append(out, rec)
	}
}
