// Package domain holds the dimension types and ports
package domain

import (
	"time"

	"starforge/internal/core/datekey"
	"starforge/internal/core/scd2"

	"github.com/shopspring/decimal"
)

// DimType names a dimension
type DimType string

// Dimensions known to the warehouse
const (
	DimDate     DimType = "date"
	DimCountry  DimType = "country"
	DimCategory DimType = "category"
	DimCustomer DimType = "customer"
	DimProduct  DimType = "product"
)

// DefaultCategory is the single category of the no-op categorization policy
const DefaultCategory = "Uncategorized"

// Sequence names for the Type 2 surrogate keys
const (
	SeqCustomer = "dim_customer"
	SeqProduct  = "dim_product"
)

// Ref is one row of a Type 1 lookup dimension
type Ref struct {
	Key  int64
	Name string
}

// Customer holds the tracked customer attributes
type Customer struct {
	Country    *string
	CountryKey *int64
	FirstSeen  time.Time
}

// Product holds the tracked product attributes
type Product struct {
	Description *string
	UnitPrice   decimal.Decimal
	CategoryKey int64
	FirstSeen   time.Time
}

// CustomerChain is the version chain of one customer
type CustomerChain = scd2.Chain[Customer]

// ProductChain is the version chain of one product
type ProductChain = scd2.Chain[Product]

// Snapshot is the materialized dimension set of one run
// it is not mutated after Build returns, readers may share it
type Snapshot struct {
	Dates      []datekey.Day
	Countries  []Ref
	Categories []Ref
	Customers  []CustomerChain // sorted by business key
	Products   []ProductChain  // sorted by business key
}

// Counts reports rows per dimension
func (s Snapshot) Counts() map[DimType]int {
	return map[DimType]int{
		DimDate:     len(s.Dates),
		DimCountry:  len(s.Countries),
		DimCategory: len(s.Categories),
		DimCustomer: versions(s.Customers),
		DimProduct:  versions(s.Products),
	}
}

func versions[A any](cs []scd2.Chain[A]) int {
	n := 0
	for _, c := range cs {
		n += c.Len()
	}
	return n
}
