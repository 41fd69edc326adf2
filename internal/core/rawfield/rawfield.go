// Package rawfield holds the landed text value type and its fail-soft casts
// A cast never returns an error, a failed parse yields an Opt with OK false
package rawfield

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type kind uint8

const (
	kindNull kind = iota
	kindText
)

// Field is a landed value, either null or a text payload
type Field struct {
	k    kind
	text string
}

// Null returns the null field
func Null() Field { return Field{k: kindNull} }

// Text wraps s as a text field
func Text(s string) Field { return Field{k: kindText, text: s} }

// IsNull reports whether f carries no value
func (f Field) IsNull() bool { return f.k == kindNull }

// String returns the raw text or empty for null
func (f Field) String() string { return f.text }

// trimmed returns the trimmed text and whether anything is left
func (f Field) trimmed() (string, bool) {
	if f.k == kindNull {
		return "", false
	}
	s := strings.TrimSpace(f.text)
	return s, s != ""
}

// Opt is the result of a fail-soft cast
type Opt[T any] struct {
	V  T
	OK bool
}

// Some wraps v as a present value
func Some[T any](v T) Opt[T] { return Opt[T]{V: v, OK: true} }

// None is the empty result
func None[T any]() Opt[T] { return Opt[T]{} }

// Ptr returns a pointer to V or nil when absent
func (o Opt[T]) Ptr() *T {
	if !o.OK {
		return nil
	}
	v := o.V
	return &v
}

// ParseText trims f, blank becomes None
func ParseText(f Field) Opt[string] {
	s, ok := f.trimmed()
	if !ok {
		return None[string]()
	}
	return Some(s)
}

// ParseInt casts f to an int64
// integral decimal text such as "5.0" is accepted, "5.5" is not
func ParseInt(f Field) Opt[int64] {
	s, ok := f.trimmed()
	if !ok {
		return None[int64]()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Some(n)
	}
	d, ok := parseBounded(s)
	if !ok || !d.IsInteger() {
		return None[int64]()
	}
	if !d.BigInt().IsInt64() {
		return None[int64]()
	}
	return Some(d.IntPart())
}

// ParseDecimal casts f to a fixed-point decimal
// values beyond MaxIntDigits or MaxFractionDigits are None
func ParseDecimal(f Field) Opt[decimal.Decimal] {
	s, ok := f.trimmed()
	if !ok {
		return None[decimal.Decimal]()
	}
	d, ok := parseBounded(s)
	if !ok {
		return None[decimal.Decimal]()
	}
	return Some(d)
}

// Limits on a landed number, measured in decimal digits before any
// rescale so exponent notation like "1e10000000" never reaches big.Int math
const (
	MaxIntDigits      = 18
	MaxFractionDigits = 30
)

func parseBounded(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	exp := int64(d.Exponent())
	if exp < -MaxFractionDigits || int64(d.NumDigits())+exp > MaxIntDigits {
		return decimal.Decimal{}, false
	}
	return d, true
}

// timeLayouts are tried in order, all interpreted as UTC
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"2006-01-02",
}

// ParseTime casts f to a UTC timestamp using the first layout that fits
func ParseTime(f Field) Opt[time.Time] {
	s, ok := f.trimmed()
	if !ok {
		return None[time.Time]()
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Some(t.UTC())
		}
	}
	return None[time.Time]()
}
