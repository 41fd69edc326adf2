// Package repo provides postgres access for the quality read model
package repo

import (
	"context"
	"time"

	"starforge/internal/core/money"
	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/store"
	factdom "starforge/internal/services/facts/domain"
	stagedom "starforge/internal/services/staging/domain"
)

// Repo is the minimal persistence surface for quality
type Repo interface {
	StagedCounts(ctx context.Context) (staged, valid int, err error)
	IssueCounts(ctx context.Context) (map[string]int, error)
	InvalidRows(ctx context.Context, reason string, limit int) ([]stagedom.StagedRecord, error)
	Rejections(ctx context.Context, limit int) ([]RowRejection, error)
}

// RowRejection is a fact_rejections row
type RowRejection struct {
	factdom.RejectedFact
	RunID      string
	RejectedAt time.Time
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) StagedCounts(ctx context.Context) (int, int, error) {
	var staged, valid int
	err := r.q.QueryRow(ctx, `
select count(*), count(*) filter (where is_valid)
from staged_records
`).Scan(&staged, &valid)
	return staged, valid, err
}

func (r *queries) IssueCounts(ctx context.Context) (map[string]int, error) {
	const sql = `
select reason, count(*)
from staged_records, unnest(quality_issues) as reason
where not is_valid
group by reason
`
	type count struct {
		reason string
		n      int
	}
	counts, err := store.Many(ctx, r.q, func(row store.Row) (count, error) {
		var c count
		err := row.Scan(&c.reason, &c.n)
		return c, err
	}, sql)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.reason] = c.n
	}
	return out, nil
}

func (r *queries) InvalidRows(ctx context.Context, reason string, limit int) ([]stagedom.StagedRecord, error) {
	const sql = `
select position, source, invoice_no, stock_code, customer_id, quantity,
	unit_price::text, invoice_date, quality_issues
from staged_records
where not is_valid
and ($1 = '' or $1 = any(quality_issues))
order by position
limit $2
`
	return store.Many(ctx, r.q, scanInvalid, sql, reason, limit)
}

func scanInvalid(row store.Row) (stagedom.StagedRecord, error) {
	var (
		s     stagedom.StagedRecord
		price *string
		date  *time.Time
	)
	if err := row.Scan(
		&s.Position, &s.Source, &s.InvoiceNo, &s.StockCode, &s.CustomerID, &s.Quantity,
		&price, &date, &s.QualityIssues,
	); err != nil {
		return s, err
	}
	var err error
	if s.UnitPrice, err = money.FromSQL(price); err != nil {
		return s, err
	}
	if date != nil {
		d := date.UTC()
		s.InvoiceDate = &d
	}
	return s, nil
}

func (r *queries) Rejections(ctx context.Context, limit int) ([]RowRejection, error) {
	const sql = `
select position, invoice_no, stock_code, missing_keys, coalesce(run_id::text, ''), rejected_at
from fact_rejections
order by position
limit $1
`
	return store.Many(ctx, r.q, func(row store.Row) (RowRejection, error) {
		var rr RowRejection
		err := row.Scan(&rr.Position, &rr.InvoiceNo, &rr.StockCode, &rr.MissingKeys, &rr.RunID, &rr.RejectedAt)
		rr.RejectedAt = rr.RejectedAt.UTC()
		return rr, err
	}, sql, limit)
}
