// Package domain holds the fact table types and ports
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Key names reported in RejectedFact.MissingKeys
const (
	KeyDate    = "date"
	KeyProduct = "product"
)

// FactRecord is one line item of fact_sales
type FactRecord struct {
	SalesKey    int64
	DateKey     int32
	ProductKey  int64
	CustomerKey *int64
	CountryKey  *int64
	InvoiceNo   string // degenerate
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	Position    int64 // staged lineage
	LoadedAt    time.Time
}

// RejectedFact is a valid staged row left out because a required key did not resolve
type RejectedFact struct {
	Position    int64
	InvoiceNo   string
	StockCode   *string
	MissingKeys []string
}

// Result is the outcome of one assembly pass
type Result struct {
	Facts      []FactRecord
	Rejections []RejectedFact
	Valid      int // valid staged rows considered
}

// Delta is the number of valid staged rows with no fact row
func (r Result) Delta() int { return r.Valid - len(r.Facts) }
