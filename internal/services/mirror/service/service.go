// Package service copies a finished warehouse into the analytics mirror
package service

import (
	"context"
	"time"

	"starforge/internal/core/scd2"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"
	dimdom "starforge/internal/services/dimensions/domain"
	factdom "starforge/internal/services/facts/domain"
	"starforge/internal/services/mirror/domain"
)

// Config holds configuration options for the mirror
type Config struct {
	BatchSize int // <=0 -> 10000
}

// Service implements domain.PublisherPort
type Service struct {
	W   domain.Writer
	Cfg Config
}

var _ domain.PublisherPort = (*Service)(nil)

// New constructs the mirror service
func New(w domain.Writer, cfg Config) *Service {
	if w == nil {
		panic("mirror.Service requires a non nil writer")
	}
	return &Service{W: w, Cfg: cfg}
}

// Publish truncates every mirror table then batch inserts the snapshot and facts.
// The mirror has no transactions, a failure part way leaves it partially written
// until the next successful publish
func (s *Service) Publish(ctx context.Context, snap dimdom.Snapshot, facts []factdom.FactRecord) error {
	start := time.Now()
	if err := s.W.Ensure(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "mirror: ensure tables")
	}

	data := map[string][][]any{
		"dim_date":     DateRows(snap),
		"dim_country":  refRows(snap.Countries),
		"dim_category": refRows(snap.Categories),
		"dim_customer": CustomerRows(snap.Customers),
		"dim_product":  ProductRows(snap.Products),
		"fact_sales":   FactRows(facts),
	}

	batch := s.Cfg.BatchSize
	if batch <= 0 {
		batch = 10000
	}
	for _, table := range domain.Tables {
		if err := s.W.Truncate(ctx, table); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mirror: truncate %s", table)
		}
		rows := data[table]
		for i := 0; i < len(rows); i += batch {
			end := min(i+batch, len(rows))
			if err := s.W.Insert(ctx, table, rows[i:end]); err != nil {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mirror: insert %s", table)
			}
		}
	}

	logger.C(ctx).Info().
		Int("facts", len(facts)).
		Dur("elapsed", time.Since(start)).
		Msg("mirror: published")
	return nil
}

// DateRows maps the calendar to dim_date column order
func DateRows(snap dimdom.Snapshot) [][]any {
	out := make([][]any, len(snap.Dates))
	for i, d := range snap.Dates {
		out[i] = []any{
			d.Key, d.Date, int32(d.Year), int32(d.Quarter), int32(d.Month), d.MonthName,
			int32(d.Day), int32(d.Weekday), d.WeekdayName, d.IsWeekend, int32(d.ISOWeek),
		}
	}
	return out
}

func refRows(refs []dimdom.Ref) [][]any {
	out := make([][]any, len(refs))
	for i, r := range refs {
		out[i] = []any{r.Key, r.Name}
	}
	return out
}

// CustomerRows flattens every customer version
func CustomerRows(chains []dimdom.CustomerChain) [][]any {
	return flatten(chains, func(v scd2.Version[dimdom.Customer]) []any {
		return []any{
			v.Key, v.BusinessKey, v.Attrs.Country, v.Attrs.CountryKey,
			v.Attrs.FirstSeen, v.From, v.To, v.IsCurrent(),
		}
	})
}

// ProductRows flattens every product version
func ProductRows(chains []dimdom.ProductChain) [][]any {
	return flatten(chains, func(v scd2.Version[dimdom.Product]) []any {
		return []any{
			v.Key, v.BusinessKey, v.Attrs.Description, v.Attrs.UnitPrice, v.Attrs.CategoryKey,
			v.Attrs.FirstSeen, v.From, v.To, v.IsCurrent(),
		}
	})
}

// FactRows maps facts to fact_sales column order
func FactRows(facts []factdom.FactRecord) [][]any {
	out := make([][]any, len(facts))
	for i, f := range facts {
		out[i] = []any{
			f.SalesKey, f.DateKey, f.ProductKey, f.CustomerKey, f.CountryKey,
			f.InvoiceNo, f.Quantity, f.UnitPrice, f.LineTotal, f.Position, f.LoadedAt,
		}
	}
	return out
}

func flatten[A any](chains []scd2.Chain[A], row func(scd2.Version[A]) []any) [][]any {
	var out [][]any
	for _, c := range chains {
		for _, v := range c.Versions() {
			out = append(out, row(v))
		}
	}
	return out
}
