// Package repo provides postgres access for fact_sales and fact_rejections
package repo

import (
	"context"
	"time"

	"starforge/internal/core/money"
	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/store"
	"starforge/internal/services/facts/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

var (
	factCols = []store.Column{
		{Name: "sales_key"}, {Name: "date_key"}, {Name: "product_key"},
		{Name: "customer_key"}, {Name: "country_key"}, {Name: "invoice_no"},
		{Name: "quantity"}, {Name: "unit_price", Cast: "numeric"}, {Name: "line_total", Cast: "numeric"},
		{Name: "staged_position"}, {Name: "loaded_at"},
	}
	rejectionCols = []store.Column{
		{Name: "position"}, {Name: "invoice_no"}, {Name: "stock_code"},
		{Name: "missing_keys", Cast: "text[]"}, {Name: "run_id", Cast: "uuid"},
	}
)

// ReplaceFacts implements domain.StorageRepo
func (r *queries) ReplaceFacts(ctx context.Context, facts []domain.FactRecord, chunk int) (int, error) {
	if _, err := r.q.Exec(ctx, `TRUNCATE fact_sales`); err != nil {
		return 0, err
	}
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{
			f.SalesKey, f.DateKey, f.ProductKey, f.CustomerKey, f.CountryKey, f.InvoiceNo,
			f.Quantity, money.SQLArg(&f.UnitPrice), money.SQLArg(&f.LineTotal),
			f.Position, f.LoadedAt,
		}
	}
	n, err := store.InsertRows(ctx, r.q, "fact_sales", factCols, rows, chunk)
	return int(n), err
}

// ReplaceRejections implements domain.StorageRepo
func (r *queries) ReplaceRejections(ctx context.Context, rej []domain.RejectedFact, runID string) (int, error) {
	if _, err := r.q.Exec(ctx, `TRUNCATE fact_rejections`); err != nil {
		return 0, err
	}
	var rid any
	if runID != "" {
		rid = runID
	}
	rows := make([][]any, len(rej))
	for i, x := range rej {
		rows[i] = []any{x.Position, x.InvoiceNo, x.StockCode, x.MissingKeys, rid}
	}
	n, err := store.InsertRows(ctx, r.q, "fact_rejections", rejectionCols, rows, 0)
	return int(n), err
}

// LoadFacts reads fact_sales in sales key order
func (r *queries) LoadFacts(ctx context.Context) ([]domain.FactRecord, error) {
	const sql = `
select sales_key, date_key, product_key, customer_key, country_key, invoice_no,
	quantity, unit_price::text, line_total::text, staged_position, loaded_at
from fact_sales
order by sales_key
`
	return store.Many(ctx, r.q, scanFact, sql)
}

func scanFact(row store.Row) (domain.FactRecord, error) {
	var (
		f            domain.FactRecord
		price, total string
		loaded       time.Time
	)
	if err := row.Scan(
		&f.SalesKey, &f.DateKey, &f.ProductKey, &f.CustomerKey, &f.CountryKey, &f.InvoiceNo,
		&f.Quantity, &price, &total, &f.Position, &loaded,
	); err != nil {
		return f, err
	}
	p, err := money.FromSQL(&price)
	if err != nil {
		return f, err
	}
	t, err := money.FromSQL(&total)
	if err != nil {
		return f, err
	}
	f.UnitPrice, f.LineTotal, f.LoadedAt = *p, *t, loaded.UTC()
	return f, nil
}
