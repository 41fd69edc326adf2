// Package service resolves business keys against a dimension snapshot
package service

import (
	"strconv"

	"starforge/internal/core/scd2"
	dimdom "starforge/internal/services/dimensions/domain"
	"starforge/internal/services/keyres/domain"
)

// Resolver is a read only index over one snapshot
// it never creates rows and is safe for concurrent use
type Resolver struct {
	type1     map[dimdom.DimType]map[string]int64
	customers map[string]dimdom.CustomerChain
	products  map[string]dimdom.ProductChain
}

var _ domain.ResolverPort = (*Resolver)(nil)

// NewResolver indexes snap
func NewResolver(snap dimdom.Snapshot) *Resolver {
	r := &Resolver{
		type1: map[dimdom.DimType]map[string]int64{
			dimdom.DimDate:     make(map[string]int64, len(snap.Dates)),
			dimdom.DimCountry:  make(map[string]int64, len(snap.Countries)),
			dimdom.DimCategory: make(map[string]int64, len(snap.Categories)),
		},
		customers: make(map[string]dimdom.CustomerChain, len(snap.Customers)),
		products:  make(map[string]dimdom.ProductChain, len(snap.Products)),
	}
	for _, d := range snap.Dates {
		r.type1[dimdom.DimDate][strconv.Itoa(int(d.Key))] = int64(d.Key)
	}
	for _, c := range snap.Countries {
		r.type1[dimdom.DimCountry][c.Name] = c.Key
	}
	for _, c := range snap.Categories {
		r.type1[dimdom.DimCategory][c.Name] = c.Key
	}
	for _, c := range snap.Customers {
		r.customers[c.BusinessKey()] = c
	}
	for _, p := range snap.Products {
		r.products[p.BusinessKey()] = p
	}
	return r
}

// Resolve implements domain.ResolverPort
// Type 1 dims have no history so both modes resolve by value
func (r *Resolver) Resolve(dim dimdom.DimType, bk string, m domain.Mode) *int64 {
	switch dim {
	case dimdom.DimCustomer:
		c, ok := r.customers[bk]
		if !ok {
			return nil
		}
		return pick(c, m)
	case dimdom.DimProduct:
		p, ok := r.products[bk]
		if !ok {
			return nil
		}
		return pick(p, m)
	}
	idx, ok := r.type1[dim]
	if !ok {
		return nil
	}
	if k, ok := idx[bk]; ok {
		return &k
	}
	return nil
}

// ResolveDate resolves a yyyymmdd key against the date dimension
func (r *Resolver) ResolveDate(key int32) *int64 {
	if k, ok := r.type1[dimdom.DimDate][strconv.Itoa(int(key))]; ok {
		return &k
	}
	return nil
}

func pick[A any](c scd2.Chain[A], m domain.Mode) *int64 {
	var (
		v  scd2.Version[A]
		ok bool
	)
	if ts, asOf := m.At(); asOf {
		v, ok = c.AsOf(ts)
	} else {
		v, ok = c.Current()
	}
	if !ok {
		return nil
	}
	k := v.Key
	return &k
}
