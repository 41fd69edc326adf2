// Package repo provides the refresh run log storage
package repo

import (
	"context"
	"time"

	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/store"
	"starforge/internal/services/refresh/domain"
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

// StartRun inserts the run row, a rerun of the same id resets it
func (r *queries) StartRun(ctx context.Context, run domain.Run) error {
	_, err := r.q.Exec(ctx, `
		insert into refresh_runs (run_id, state, source, started_at)
		values ($1::uuid, $2, $3, $4)
		on conflict (run_id) do update
		   set state = excluded.state, source = excluded.source, started_at = excluded.started_at,
		       finished_at = null, error = null
	`, run.ID, string(run.State), run.Source, run.StartedAt.UTC())
	return err
}

// FinishRun records the final state and counts, inserting the row if the start was lost
func (r *queries) FinishRun(ctx context.Context, run domain.Run) error {
	c := run.Counts
	var errText *string
	if run.Err != "" {
		errText = &run.Err
	}
	_, err := r.q.Exec(ctx, `
		insert into refresh_runs (
			run_id, state, source, started_at, finished_at,
			raw_rows, skipped, staged, valid, customers, products, dates, countries,
			facts, rejected, elapsed_ms, error)
		values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		on conflict (run_id) do update
		   set state = excluded.state, finished_at = excluded.finished_at,
		       raw_rows = excluded.raw_rows, skipped = excluded.skipped,
		       staged = excluded.staged, valid = excluded.valid,
		       customers = excluded.customers, products = excluded.products,
		       dates = excluded.dates, countries = excluded.countries,
		       facts = excluded.facts, rejected = excluded.rejected,
		       elapsed_ms = excluded.elapsed_ms, error = excluded.error
	`, run.ID, string(run.State), run.Source, run.StartedAt.UTC(), run.FinishedAt,
		c.Raw, c.Skipped, c.Staged, c.Valid,
		c.Customers, c.Products, c.Dates, c.Countries,
		c.Facts, c.Rejected, int(run.Elapsed.Milliseconds()), errText)
	return err
}

// ListRuns returns the newest runs first
func (r *queries) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return store.Many(ctx, r.q, scanRun, `
		select run_id::text, state, source, started_at, finished_at,
		       raw_rows, skipped, staged, valid, customers, products, dates, countries,
		       facts, rejected, elapsed_ms, error
		  from refresh_runs
		 order by started_at desc
		 limit $1
	`, limit)
}

func scanRun(row store.Row) (domain.Run, error) {
	var (
		run     domain.Run
		state   string
		ms      int
		errText *string
		c       = &run.Counts
	)
	if err := row.Scan(
		&run.ID, &state, &run.Source, &run.StartedAt, &run.FinishedAt,
		&c.Raw, &c.Skipped, &c.Staged, &c.Valid, &c.Customers, &c.Products, &c.Dates, &c.Countries,
		&c.Facts, &c.Rejected, &ms, &errText,
	); err != nil {
		return run, err
	}
	run.State = domain.State(state)
	run.Elapsed = time.Duration(ms) * time.Millisecond
	if errText != nil {
		run.Err = *errText
	}
	return run, nil
}
