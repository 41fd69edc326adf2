package service

import (
	"strconv"

	"starforge/internal/adapters/ingest/landing"
	"starforge/internal/core/datekey"
	"starforge/internal/core/money"
	"starforge/internal/core/rawfield"
	"starforge/internal/core/validate"
	"starforge/internal/services/staging/domain"

	"github.com/shopspring/decimal"
)

// Upper bounds for a valid line, the fact columns are sized to hold
// MaxQuantity * MaxUnitPrice
const MaxQuantity int64 = 1_000_000

var MaxUnitPrice = decimal.NewFromInt(1_000_000)

// RetailChain builds the line item rule chain for p
// a missing identifier never reaches the chain, it is skipped before casting
func RetailChain(p validate.Policy) validate.Chain[domain.StagedRecord] {
	return validate.NewChain(p.Mode(),
		validate.Rule[domain.StagedRecord]{
			Name:   "quantity",
			Reason: p.Message("quantity", validate.ReasonQuantity),
			Fails:  func(r domain.StagedRecord) bool { return r.Quantity == nil || *r.Quantity <= 0 },
		},
		validate.Rule[domain.StagedRecord]{
			Name:   "price",
			Reason: p.Message("price", validate.ReasonPrice),
			Fails:  func(r domain.StagedRecord) bool { return r.UnitPrice == nil || !r.UnitPrice.IsPositive() },
		},
		validate.Rule[domain.StagedRecord]{
			Name:   "date",
			Reason: p.Message("date", validate.ReasonDate),
			Fails:  func(r domain.StagedRecord) bool { return r.InvoiceDate == nil },
		},
		validate.Rule[domain.StagedRecord]{
			Name:   "cancelled",
			Reason: p.Message("cancelled", validate.ReasonCancelled),
			Fails:  func(r domain.StagedRecord) bool { return p.IsVoided(r.InvoiceNo) },
		},
		validate.Rule[domain.StagedRecord]{
			Name:   "quantity_range",
			Reason: p.Message("quantity_range", validate.ReasonQuantityRange),
			Fails:  func(r domain.StagedRecord) bool { return r.Quantity != nil && *r.Quantity > MaxQuantity },
		},
		validate.Rule[domain.StagedRecord]{
			Name:   "price_range",
			Reason: p.Message("price_range", validate.ReasonPriceRange),
			Fails:  func(r domain.StagedRecord) bool { return r.UnitPrice != nil && r.UnitPrice.GreaterThan(MaxUnitPrice) },
		},
	)
}

// Cast types one raw record and computes the derived fields
// casts are fail soft, an unparseable field stays nil
func Cast(raw domain.RawRecord) domain.StagedRecord {
	s := domain.StagedRecord{
		Position:    raw.Position,
		Source:      raw.Source,
		InvoiceNo:   rawfield.ParseText(raw.Invoice).V,
		StockCode:   rawfield.ParseText(raw.StockCode).Ptr(),
		Description: rawfield.ParseText(raw.Description).Ptr(),
		CustomerID:  customerID(raw),
		Country:     rawfield.ParseText(raw.Country).Ptr(),
		Quantity:    rawfield.ParseInt(raw.Quantity).Ptr(),
		UnitPrice:   rawfield.ParseDecimal(raw.Price).Ptr(),
		InvoiceDate: rawfield.ParseTime(raw.InvoiceDate).Ptr(),
	}
	if s.Quantity != nil && s.UnitPrice != nil {
		t := money.Mul(decimal.NewFromInt(*s.Quantity), *s.UnitPrice)
		s.Total = &t
	}
	if s.InvoiceDate != nil {
		k := datekey.Key(*s.InvoiceDate)
		s.DateKey = &k
	}
	return s
}

// customer ids land as floats in some exports ("13085.0")
func customerID(raw landing.Record) *string {
	txt := rawfield.ParseText(raw.CustomerID)
	if !txt.OK {
		return nil
	}
	if n := rawfield.ParseInt(raw.CustomerID); n.OK && n.V > 0 {
		id := strconv.FormatInt(n.V, 10)
		return &id
	}
	return txt.Ptr()
}
