// Package money holds fixed point helpers for two decimal amounts
package money

import "github.com/shopspring/decimal"

// Places is the scale of every persisted amount
const Places = 2

// Round2 rounds half away from zero to two places
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(Places) }

// Mul returns a*b rounded to two places
func Mul(a, b decimal.Decimal) decimal.Decimal { return Round2(a.Mul(b)) }

// Mean returns the rounded arithmetic mean, zero for no input
func Mean(ds []decimal.Decimal) decimal.Decimal {
	if len(ds) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, d := range ds {
		sum = sum.Add(d)
	}
	return Round2(sum.Div(decimal.NewFromInt(int64(len(ds)))))
}

// String formats d with exactly two places
func String(d decimal.Decimal) string { return d.StringFixed(Places) }

// SQLArg returns d as numeric text for a query arg, nil for NULL
func SQLArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// FromSQL parses numeric text scanned from a ::text column, nil stays nil
func FromSQL(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	v, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
