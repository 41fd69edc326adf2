// Package service builds the dimension tables from valid staged records
package service

import (
	"context"
	"sort"
	"time"

	"starforge/internal/core/datekey"
	"starforge/internal/core/keyseq"
	"starforge/internal/core/money"
	"starforge/internal/core/normalize"
	"starforge/internal/core/scd2"
	"starforge/internal/modkit/repokit"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"
	"starforge/internal/platform/store"
	"starforge/internal/services/dimensions/domain"
	keydom "starforge/internal/services/keyres/domain"
	keyres "starforge/internal/services/keyres/service"
	stagedom "starforge/internal/services/staging/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration options for the dimension service
type Config struct {
	InsertChunk int // <=0 -> 1000
	Retry       store.RetryPolicy
}

// Service implements domain.BuilderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Seq    keyseq.Sequence
	Cfg    Config
}

var _ domain.BuilderPort = (*Service)(nil)

// New constructs the dimension service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], seq keyseq.Sequence, cfg Config) *Service {
	if db == nil {
		panic("dimensions.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("dimensions.Service requires a non nil Repo binder")
	}
	if seq == nil {
		panic("dimensions.Service requires a non nil key sequence")
	}
	return &Service{DB: db, Binder: binder, Seq: seq, Cfg: cfg}
}

// Build materializes every dimension from the valid records in staged
// Type 1 dims come first since customers resolve their country against them
func (s *Service) Build(ctx context.Context, staged []stagedom.StagedRecord) (domain.Snapshot, error) {
	start := time.Now()
	valid := make([]stagedom.StagedRecord, 0, len(staged))
	for _, r := range staged {
		if r.IsValid {
			valid = append(valid, r)
		}
	}

	snap := domain.Snapshot{
		Dates:      DateDim(valid),
		Countries:  CountryDim(valid),
		Categories: []domain.Ref{{Key: 1, Name: domain.DefaultCategory}},
	}
	res := keyres.NewResolver(snap)
	catKey := res.Resolve(domain.DimCategory, domain.DefaultCategory, keydom.Current())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cs, err := Customers(gctx, s.Seq, valid, res)
		snap.Customers = cs
		return err
	})
	g.Go(func() error {
		ps, err := Products(gctx, s.Seq, valid, *catKey)
		snap.Products = ps
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, perr.Wrapf(err, perr.CodeOf(err), "dimensions: build")
	}

	if err := s.write(ctx, snap); err != nil {
		return domain.Snapshot{}, err
	}

	counts := snap.Counts()
	ev := logger.C(ctx).Info().
		Str("stage", "dimensioning").
		Int("rows_in", len(valid)).
		Int("dates", counts[domain.DimDate]).
		Int("countries", counts[domain.DimCountry]).
		Int("categories", counts[domain.DimCategory]).
		Int("customers", counts[domain.DimCustomer]).
		Int("products", counts[domain.DimProduct]).
		Dur("elapsed", time.Since(start))
	if id, ok := store.RunID(ctx); ok {
		ev = ev.Str("run_id", id)
	}
	ev.Msg("dimensions: done")
	return snap, nil
}

// each table is cleared and written in its own transaction
func (s *Service) write(ctx context.Context, snap domain.Snapshot) error {
	chunk := s.Cfg.InsertChunk
	if chunk <= 0 {
		chunk = 1000
	}
	steps := []struct {
		table string
		fn    func(domain.StorageRepo) (int, error)
	}{
		{"dim_date", func(r domain.StorageRepo) (int, error) { return r.ReplaceDates(ctx, snap.Dates, chunk) }},
		{"dim_country", func(r domain.StorageRepo) (int, error) { return r.ReplaceCountries(ctx, snap.Countries) }},
		{"dim_category", func(r domain.StorageRepo) (int, error) { return r.ReplaceCategories(ctx, snap.Categories) }},
		{"dim_customer", func(r domain.StorageRepo) (int, error) { return r.ReplaceCustomers(ctx, snap.Customers, chunk) }},
		{"dim_product", func(r domain.StorageRepo) (int, error) { return r.ReplaceProducts(ctx, snap.Products, chunk) }},
	}
	for _, st := range steps {
		err := store.RunTx(ctx, s.DB, s.Cfg.Retry, func(q repokit.Queryer) error {
			_, e := st.fn(s.Binder.Bind(q))
			return e
		})
		if err != nil {
			return perr.FromPostgresf(err, "dimensions: replace %s", st.table)
		}
	}
	return nil
}

// DateDim generates the calendar from the earliest to the latest valid invoice date
func DateDim(valid []stagedom.StagedRecord) []datekey.Day {
	var lo, hi *time.Time
	for _, r := range valid {
		if r.InvoiceDate == nil {
			continue
		}
		if lo == nil || r.InvoiceDate.Before(*lo) {
			lo = r.InvoiceDate
		}
		if hi == nil || r.InvoiceDate.After(*hi) {
			hi = r.InvoiceDate
		}
	}
	if lo == nil {
		return nil
	}
	return datekey.Calendar(*lo, *hi)
}

// CountryDim lists distinct countries with dense keys in sorted order
func CountryDim(valid []stagedom.StagedRecord) []domain.Ref {
	seen := map[string]struct{}{}
	for _, r := range valid {
		if r.Country != nil {
			seen[*r.Country] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]domain.Ref, len(names))
	for i, n := range names {
		out[i] = domain.Ref{Key: int64(i + 1), Name: n}
	}
	return out
}

type customerAgg struct {
	first   time.Time
	country *string
	// time of the row the country came from
	countryAt time.Time
}

// Customers builds one initial version per customer id
// country is the one on the earliest row that carries a country, lexical order breaks ties
func Customers(ctx context.Context, seq keyseq.Sequence, valid []stagedom.StagedRecord, res keydom.ResolverPort) ([]domain.CustomerChain, error) {
	aggs := map[string]*customerAgg{}
	for _, r := range valid {
		if r.CustomerID == nil || r.InvoiceDate == nil {
			continue
		}
		at := *r.InvoiceDate
		a, ok := aggs[*r.CustomerID]
		if !ok {
			a = &customerAgg{first: at}
			aggs[*r.CustomerID] = a
		}
		if at.Before(a.first) {
			a.first = at
		}
		if r.Country == nil {
			continue
		}
		switch {
		case a.country == nil, at.Before(a.countryAt):
			a.country, a.countryAt = r.Country, at
		case at.Equal(a.countryAt) && *r.Country < *a.country:
			a.country = r.Country
		}
	}

	bks := sortedKeys(aggs)
	keys, err := reserve(ctx, seq, domain.SeqCustomer, len(bks))
	if err != nil {
		return nil, err
	}
	out := make([]domain.CustomerChain, len(bks))
	for i, bk := range bks {
		a := aggs[bk]
		attrs := domain.Customer{Country: a.country, FirstSeen: a.first}
		if a.country != nil {
			attrs.CountryKey = res.Resolve(domain.DimCountry, *a.country, keydom.Current())
		}
		out[i] = scd2.Start(keys[i], bk, attrs, a.first)
	}
	return out, nil
}

type productAgg struct {
	first  time.Time
	prices []decimal.Decimal
	descs  []string
}

// Products builds one initial version per stock code
// description is the representative spelling, price the rounded mean of valid prices
func Products(ctx context.Context, seq keyseq.Sequence, valid []stagedom.StagedRecord, categoryKey int64) ([]domain.ProductChain, error) {
	aggs := map[string]*productAgg{}
	for _, r := range valid {
		if r.StockCode == nil || r.InvoiceDate == nil {
			continue
		}
		a, ok := aggs[*r.StockCode]
		if !ok {
			a = &productAgg{first: *r.InvoiceDate}
			aggs[*r.StockCode] = a
		}
		if r.InvoiceDate.Before(a.first) {
			a.first = *r.InvoiceDate
		}
		if r.UnitPrice != nil {
			a.prices = append(a.prices, *r.UnitPrice)
		}
		if r.Description != nil {
			a.descs = append(a.descs, *r.Description)
		}
	}

	bks := sortedKeys(aggs)
	keys, err := reserve(ctx, seq, domain.SeqProduct, len(bks))
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProductChain, len(bks))
	for i, bk := range bks {
		a := aggs[bk]
		attrs := domain.Product{
			UnitPrice:   money.Mean(a.prices),
			CategoryKey: categoryKey,
			FirstSeen:   a.first,
		}
		if d := normalize.Representative(a.descs); d != "" {
			attrs.Description = &d
		}
		out[i] = scd2.Start(keys[i], bk, attrs, a.first)
	}
	return out, nil
}

// ApplyDrift records an attribute change on chain at at with a freshly reserved key
// the refresh flow is initial load only and does not call it
func ApplyDrift[A any](ctx context.Context, seq keyseq.Sequence, name string, chain scd2.Chain[A], attrs A, at time.Time) (scd2.Chain[A], error) {
	first, err := seq.Next(ctx, name, 1)
	if err != nil {
		return chain, err
	}
	return chain.Supersede(first, attrs, at)
}

func reserve(ctx context.Context, seq keyseq.Sequence, name string, n int) ([]int64, error) {
	if n == 0 {
		return nil, nil
	}
	first, err := seq.Next(ctx, name, n)
	if err != nil {
		return nil, err
	}
	return keyseq.Block(first, n), nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
