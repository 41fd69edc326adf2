// Package service assembles fact rows by swapping business keys for surrogate keys
package service

import (
	"context"
	"slices"
	"time"

	"starforge/internal/core/money"
	"starforge/internal/modkit/repokit"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"
	"starforge/internal/platform/store"
	dimdom "starforge/internal/services/dimensions/domain"
	"starforge/internal/services/facts/domain"
	keydom "starforge/internal/services/keyres/domain"
	stagedom "starforge/internal/services/staging/domain"

	"github.com/shopspring/decimal"
)

// Config holds configuration options for the fact service
type Config struct {
	InsertChunk int // <=0 -> 1000
	Retry       store.RetryPolicy
}

// Service implements domain.AssemblerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Cfg    Config
}

var _ domain.AssemblerPort = (*Service)(nil)

// New constructs the fact service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], cfg Config) *Service {
	if db == nil {
		panic("facts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("facts.Service requires a non nil Repo binder")
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg}
}

// Assemble builds fact rows from the valid records of staged and replaces fact_sales
// rows missing a required key are excluded and written to fact_rejections instead
func (s *Service) Assemble(ctx context.Context, staged []stagedom.StagedRecord, res keydom.ResolverPort, loadedAt time.Time) (domain.Result, error) {
	start := time.Now()
	out, err := Build(ctx, staged, res, loadedAt)
	if err != nil {
		return domain.Result{}, err
	}
	if err := CheckGrain(out.Facts); err != nil {
		return domain.Result{}, err
	}

	chunk := s.Cfg.InsertChunk
	if chunk <= 0 {
		chunk = 1000
	}
	runID, _ := store.RunID(ctx)
	err = store.RunTx(ctx, s.DB, s.Cfg.Retry, func(q repokit.Queryer) error {
		r := s.Binder.Bind(q)
		if _, e := r.ReplaceFacts(ctx, out.Facts, chunk); e != nil {
			return e
		}
		_, e := r.ReplaceRejections(ctx, out.Rejections, runID)
		return e
	})
	if err != nil {
		return domain.Result{}, perr.FromPostgres(err, "facts: replace fact_sales")
	}

	ev := logger.C(ctx).Info().
		Str("stage", "fact_assembling").
		Int("rows_in", out.Valid).
		Int("rows_out", len(out.Facts)).
		Int("rejected", len(out.Rejections)).
		Dur("elapsed", time.Since(start))
	if runID != "" {
		ev = ev.Str("run_id", runID)
	}
	ev.Msg("facts: done")
	return out, nil
}

// Build is the pure part of Assemble
// facts come out in staged position order with dense sales keys from 1
func Build(ctx context.Context, staged []stagedom.StagedRecord, res keydom.ResolverPort, loadedAt time.Time) (domain.Result, error) {
	valid := make([]stagedom.StagedRecord, 0, len(staged))
	for _, r := range staged {
		if r.IsValid {
			valid = append(valid, r)
		}
	}
	slices.SortStableFunc(valid, func(a, b stagedom.StagedRecord) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})

	out := domain.Result{Valid: len(valid), Facts: make([]domain.FactRecord, 0, len(valid))}
	cur := keydom.Current()
	loadedAt = loadedAt.UTC()
	for i, r := range valid {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return domain.Result{}, err
			}
		}

		var missing []string
		var dateKey *int64
		if r.DateKey != nil {
			dateKey = res.ResolveDate(*r.DateKey)
		}
		if dateKey == nil {
			missing = append(missing, domain.KeyDate)
		}
		var productKey *int64
		if r.StockCode != nil {
			productKey = res.Resolve(dimdom.DimProduct, *r.StockCode, cur)
		}
		if productKey == nil {
			missing = append(missing, domain.KeyProduct)
		}
		if len(missing) > 0 {
			out.Rejections = append(out.Rejections, domain.RejectedFact{
				Position:    r.Position,
				InvoiceNo:   r.InvoiceNo,
				StockCode:   r.StockCode,
				MissingKeys: missing,
			})
			continue
		}

		f := domain.FactRecord{
			SalesKey:   int64(len(out.Facts) + 1),
			DateKey:    int32(*dateKey),
			ProductKey: *productKey,
			InvoiceNo:  r.InvoiceNo,
			Position:   r.Position,
			LoadedAt:   loadedAt,
		}
		if r.CustomerID != nil {
			f.CustomerKey = res.Resolve(dimdom.DimCustomer, *r.CustomerID, cur)
		}
		if r.Country != nil {
			f.CountryKey = res.Resolve(dimdom.DimCountry, *r.Country, cur)
		}
		// valid rows always carry quantity and price
		if r.Quantity != nil {
			f.Quantity = *r.Quantity
		}
		if r.UnitPrice != nil {
			f.UnitPrice = money.Round2(*r.UnitPrice)
		}
		switch {
		case r.Total != nil:
			f.LineTotal = *r.Total
		case r.UnitPrice != nil:
			f.LineTotal = money.Mul(decimal.NewFromInt(f.Quantity), *r.UnitPrice)
		}
		out.Facts = append(out.Facts, f)
	}
	return out, nil
}

// CheckGrain verifies one row per staged line item
// two facts may share invoice and product, never invoice, product and staged position
func CheckGrain(facts []domain.FactRecord) error {
	type grain struct {
		invoice  string
		product  int64
		position int64
	}
	seen := make(map[grain]struct{}, len(facts))
	keys := make(map[int64]struct{}, len(facts))
	for _, f := range facts {
		g := grain{f.InvoiceNo, f.ProductKey, f.Position}
		if _, dup := seen[g]; dup {
			return perr.Newf(perr.ErrorCodeValidation, "facts: duplicate line item invoice=%s product=%d position=%d", f.InvoiceNo, f.ProductKey, f.Position)
		}
		seen[g] = struct{}{}
		if _, dup := keys[f.SalesKey]; dup {
			return perr.Newf(perr.ErrorCodeValidation, "facts: duplicate sales key %d", f.SalesKey)
		}
		keys[f.SalesKey] = struct{}{}
	}
	return nil
}
