// Package repo provides postgres access for the staged table
package repo

import (
	"context"
	"time"

	"starforge/internal/core/money"
	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/store"
	"starforge/internal/services/staging/domain"
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

var stagedCols = []store.Column{
	{Name: "position"},
	{Name: "source"},
	{Name: "invoice_no"},
	{Name: "stock_code"},
	{Name: "description"},
	{Name: "customer_id"},
	{Name: "country"},
	{Name: "quantity"},
	{Name: "unit_price", Cast: "numeric"},
	{Name: "invoice_date"},
	{Name: "total", Cast: "numeric"},
	{Name: "date_key"},
	{Name: "is_valid"},
	{Name: "quality_issues", Cast: "text[]"},
}

// ReplaceStaged truncates staged_records then inserts recs
// run it inside a transaction so readers never see the empty table
func (r *queries) ReplaceStaged(ctx context.Context, recs []domain.StagedRecord, chunk int) (int, error) {
	if _, err := r.q.Exec(ctx, `TRUNCATE staged_records`); err != nil {
		return 0, err
	}
	rows := make([][]any, len(recs))
	for i, s := range recs {
		rows[i] = []any{
			s.Position, s.Source, s.InvoiceNo,
			s.StockCode, s.Description, s.CustomerID, s.Country,
			s.Quantity, money.SQLArg(s.UnitPrice), s.InvoiceDate,
			money.SQLArg(s.Total), s.DateKey,
			s.IsValid, s.QualityIssues,
		}
	}
	n, err := store.InsertRows(ctx, r.q, "staged_records", stagedCols, rows, chunk)
	return int(n), err
}

// LoadStaged reads staged records in position order
func (r *queries) LoadStaged(ctx context.Context, validOnly bool) ([]domain.StagedRecord, error) {
	const sql = `
select position, source, invoice_no, stock_code, description, customer_id, country,
	quantity, unit_price::text, invoice_date, total::text, date_key, is_valid, quality_issues
from staged_records
where ($1 = false or is_valid)
order by position
`
	return store.Many(ctx, r.q, scanStaged, sql, validOnly)
}

func scanStaged(row store.Row) (domain.StagedRecord, error) {
	var (
		s            domain.StagedRecord
		price, total *string
		date         *time.Time
	)
	if err := row.Scan(
		&s.Position, &s.Source, &s.InvoiceNo, &s.StockCode, &s.Description, &s.CustomerID, &s.Country,
		&s.Quantity, &price, &date, &total, &s.DateKey, &s.IsValid, &s.QualityIssues,
	); err != nil {
		return s, err
	}
	var err error
	if s.UnitPrice, err = money.FromSQL(price); err != nil {
		return s, err
	}
	if s.Total, err = money.FromSQL(total); err != nil {
		return s, err
	}
	if date != nil {
		d := date.UTC()
		s.InvoiceDate = &d
	}
	return s, nil
}
