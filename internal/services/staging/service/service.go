// Package service provides the staging stage: cast, derive and validate landed rows
package service

import (
	"context"
	"time"

	"starforge/internal/adapters/ingest/landing"
	"starforge/internal/core/validate"
	"starforge/internal/modkit/repokit"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"
	"starforge/internal/platform/store"
	"starforge/internal/services/staging/domain"

	"golang.org/x/sync/errgroup"
)

// Config holds configuration options for the staging service
type Config struct {
	Workers     int // parallel cast chunks; <=0 -> 1
	InsertChunk int // rows per insert statement; <=0 -> 1000
	Policy      validate.Policy
	Retry       store.RetryPolicy
}

// Service implements domain.StagerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Cfg    Config

	chain validate.Chain[domain.StagedRecord]
}

var _ domain.StagerPort = (*Service)(nil)

// New constructs the staging service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], cfg Config) *Service {
	if db == nil {
		panic("staging.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("staging.Service requires a non nil Repo binder")
	}
	if cfg.Policy.VoidedPrefixes == nil {
		cfg.Policy.VoidedPrefixes = validate.DefaultPolicy().VoidedPrefixes
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg, chain: RetailChain(cfg.Policy)}
}

// Chain returns the rule chain records are evaluated against
func (s *Service) Chain() validate.Chain[domain.StagedRecord] { return s.chain }

// Stage reads src, builds the staged set and replaces staged_records with it
func (s *Service) Stage(ctx context.Context, src landing.Source) (domain.Result, error) {
	start := time.Now()

	rd, err := src.Open(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	raws, err := landing.ReadAll(ctx, rd)
	if err != nil {
		return domain.Result{}, err
	}

	res, err := s.Transform(ctx, raws)
	if err != nil {
		return domain.Result{}, err
	}

	chunk := s.Cfg.InsertChunk
	if chunk <= 0 {
		chunk = 1000
	}
	var written int
	err = store.RunTx(ctx, s.DB, s.Cfg.Retry, func(q repokit.Queryer) error {
		n, e := s.Binder.Bind(q).ReplaceStaged(ctx, res.Records, chunk)
		written = n
		return e
	})
	if err != nil {
		return domain.Result{}, perr.FromPostgres(err, "staging: replace staged_records")
	}

	ev := logger.C(ctx).Info().
		Str("stage", "staging").
		Str("source", src.Name()).
		Int("rows_in", res.Raw).
		Int("rows_out", written).
		Int("skipped", res.Skipped).
		Int("valid", res.Valid).
		Int("invoices", res.Summary.Invoices).
		Int("products", res.Summary.Products).
		Int("customers", res.Summary.Customers).
		Str("mode", s.chain.Mode().String()).
		Dur("elapsed", time.Since(start))
	if res.Summary.From != nil {
		ev = ev.Time("from", *res.Summary.From).Time("to", *res.Summary.To)
	}
	if id, ok := store.RunID(ctx); ok {
		ev = ev.Str("run_id", id)
	}
	ev.Msg("staging: done")

	return res, nil
}

// Transform casts and validates raws without touching storage
// records without an identifier are skipped, the rest map 1:1 in input order
func (s *Service) Transform(ctx context.Context, raws []domain.RawRecord) (domain.Result, error) {
	res := domain.Result{Raw: len(raws), Issues: map[string]int{}}

	kept := make([]domain.RawRecord, 0, len(raws))
	for _, r := range raws {
		if !r.HasIdentifier() {
			res.Skipped++
			continue
		}
		kept = append(kept, r)
	}

	out := make([]domain.StagedRecord, len(kept))
	w := max(s.Cfg.Workers, 1)
	size := (len(kept) + w - 1) / w
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(kept); lo += size {
		hi := min(lo+size, len(kept))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				rec := Cast(kept[i])
				rec.IsValid, rec.QualityIssues = s.chain.Evaluate(rec)
				out[i] = rec
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Result{}, err
	}

	res.Records = out
	for _, r := range out {
		if r.IsValid {
			res.Valid++
		}
		for _, is := range r.QualityIssues {
			res.Issues[is]++
		}
	}
	res.Summary = Summarize(out)
	return res, nil
}

// Summarize computes the ingest overview over every staged record
func Summarize(recs []domain.StagedRecord) domain.Summary {
	var sum domain.Summary
	inv := map[string]struct{}{}
	prod := map[string]struct{}{}
	cust := map[string]struct{}{}
	for _, r := range recs {
		inv[r.InvoiceNo] = struct{}{}
		if r.StockCode != nil {
			prod[*r.StockCode] = struct{}{}
		}
		if r.CustomerID != nil {
			cust[*r.CustomerID] = struct{}{}
		}
		if r.InvoiceDate == nil {
			continue
		}
		if sum.From == nil || r.InvoiceDate.Before(*sum.From) {
			t := *r.InvoiceDate
			sum.From = &t
		}
		if sum.To == nil || r.InvoiceDate.After(*sum.To) {
			t := *r.InvoiceDate
			sum.To = &t
		}
	}
	sum.Invoices, sum.Products, sum.Customers = len(inv), len(prod), len(cust)
	return sum
}
