// Package domain holds the staging types and ports
package domain

import (
	"time"

	"starforge/internal/adapters/ingest/landing"

	"github.com/shopspring/decimal"
)

// RawRecord is one landed line, all text
type RawRecord = landing.Record

// StagedRecord is a RawRecord after casting, derivation and validation
// QualityIssues is nil iff IsValid
type StagedRecord struct {
	Position int64
	Source   string

	InvoiceNo   string
	StockCode   *string
	Description *string
	CustomerID  *string
	Country     *string

	Quantity    *int64
	UnitPrice   *decimal.Decimal
	InvoiceDate *time.Time

	// derived regardless of validity
	Total   *decimal.Decimal
	DateKey *int32

	IsValid       bool
	QualityIssues []string
}

// Summary is the ingest overview logged after staging
type Summary struct {
	From      *time.Time
	To        *time.Time
	Invoices  int
	Products  int
	Customers int
}

// Result is the outcome of one staging pass
type Result struct {
	Records []StagedRecord
	Raw     int // records read from the source
	Skipped int // records without an identifier
	Valid   int
	Issues  map[string]int // count by reason
	Summary Summary
}

// Staged returns the number of staged records
func (r Result) Staged() int { return len(r.Records) }

// Invalid returns the number of staged records flagged invalid
func (r Result) Invalid() int { return len(r.Records) - r.Valid }
