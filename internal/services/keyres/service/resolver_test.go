package service

import (
	"testing"
	"time"

	"starforge/internal/core/datekey"
	"starforge/internal/core/scd2"
	dimdom "starforge/internal/services/dimensions/domain"
	"starforge/internal/services/keyres/domain"

	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 = time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
)

func snapshot(t *testing.T) dimdom.Snapshot {
	t.Helper()
	p := scd2.Start(10, "P1", dimdom.Product{CategoryKey: 1, FirstSeen: t0}, t0)
	p, err := p.Supersede(11, dimdom.Product{CategoryKey: 1, FirstSeen: t0}, t1)
	require.NoError(t, err)
	return dimdom.Snapshot{
		Dates:      datekey.Calendar(t0, t0.AddDate(0, 0, 2)),
		Countries:  []dimdom.Ref{{Key: 1, Name: "France"}, {Key: 2, Name: "United Kingdom"}},
		Categories: []dimdom.Ref{{Key: 1, Name: dimdom.DefaultCategory}},
		Customers:  []dimdom.CustomerChain{scd2.Start(5, "13085", dimdom.Customer{FirstSeen: t0}, t0)},
		Products:   []dimdom.ProductChain{p},
	}
}

func key(k int64) *int64 { return &k }

func TestResolve(t *testing.T) {
	t.Parallel()

	r := NewResolver(snapshot(t))
	tests := []struct {
		name string
		dim  dimdom.DimType
		bk   string
		mode domain.Mode
		want *int64
	}{
		{"current product", dimdom.DimProduct, "P1", domain.Current(), key(11)},
		{"as of first interval", dimdom.DimProduct, "P1", domain.AsOf(t0.Add(time.Hour)), key(10)},
		{"as of boundary is half open", dimdom.DimProduct, "P1", domain.AsOf(t1), key(11)},
		{"as of before history", dimdom.DimProduct, "P1", domain.AsOf(t0.Add(-time.Second)), nil},
		{"as of open ended", dimdom.DimProduct, "P1", domain.AsOf(t1.AddDate(50, 0, 0)), key(11)},
		{"unknown product", dimdom.DimProduct, "P2", domain.Current(), nil},
		{"customer", dimdom.DimCustomer, "13085", domain.Current(), key(5)},
		{"country", dimdom.DimCountry, "United Kingdom", domain.Current(), key(2)},
		{"country ignores as of", dimdom.DimCountry, "France", domain.AsOf(t0), key(1)},
		{"country is exact", dimdom.DimCountry, "france", domain.Current(), nil},
		{"category", dimdom.DimCategory, dimdom.DefaultCategory, domain.Current(), key(1)},
		{"date", dimdom.DimDate, "20100102", domain.Current(), key(20100102)},
		{"date outside calendar", dimdom.DimDate, "20100104", domain.Current(), nil},
		{"unknown dim", dimdom.DimType("supplier"), "x", domain.Current(), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, r.Resolve(tc.dim, tc.bk, tc.mode))
		})
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	r := NewResolver(snapshot(t))
	require.Equal(t, key(20100103), r.ResolveDate(20100103))
	require.Nil(t, r.ResolveDate(20091231))
}

func TestResolve_ReturnsCopies(t *testing.T) {
	t.Parallel()

	r := NewResolver(snapshot(t))
	k := r.Resolve(dimdom.DimCountry, "France", domain.Current())
	*k = 99
	require.Equal(t, key(1), r.Resolve(dimdom.DimCountry, "France", domain.Current()))
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "CURRENT", domain.Current().String())
	require.Equal(t, "AS_OF(2010-01-01T00:00:00Z)", domain.AsOf(t0).String())
	_, ok := domain.Current().At()
	require.False(t, ok)
}
