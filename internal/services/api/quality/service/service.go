// Package service contains the quality read workflows
package service

import (
	"context"
	"math"
	"time"

	"starforge/internal/core/money"
	"starforge/internal/core/report"
	"starforge/internal/modkit/repokit"
	perr "starforge/internal/platform/errors"
	"starforge/internal/services/api/quality/domain"
	"starforge/internal/services/api/quality/repo"
	refreshdom "starforge/internal/services/refresh/domain"
)

// DefaultLimit applies when a list request names none
const DefaultLimit = 20

// Service defines the quality service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the quality service
type Svc struct {
	Repo   repo.Repo
	RunLog refreshdom.StorageRepo
}

var _ Service = (*Svc)(nil)

// New constructs a quality service, runs come from the refresh run log
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], runs repokit.Binder[refreshdom.StorageRepo]) *Svc {
	if db == nil {
		panic("quality.Service requires a non nil TxRunner")
	}
	if binder == nil || runs == nil {
		panic("quality.Service requires non nil Repo binders")
	}
	return &Svc{Repo: binder.Bind(db), RunLog: runs.Bind(db)}
}

// Summary reports the latest run next to the staged table's validity picture
func (s *Svc) Summary(ctx context.Context) (domain.Summary, error) {
	staged, valid, err := s.Repo.StagedCounts(ctx)
	if err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "quality: staged counts")
	}
	issues, err := s.Repo.IssueCounts(ctx)
	if err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "quality: issue counts")
	}
	runs, err := s.RunLog.ListRuns(ctx, 1)
	if err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "quality: latest run")
	}

	rs := report.Summary{Staged: staged, Valid: valid}
	out := domain.Summary{
		Staged:      staged,
		Valid:       valid,
		Invalid:     rs.Invalid(),
		SuccessRate: math.Round(rs.SuccessRate()*100) / 100,
		Issues:      report.SortIssues(issues),
	}
	if len(runs) > 0 {
		r := toRun(runs[0])
		out.Run = &r
		out.Delta = runs[0].Counts.Delta()
	}
	return out, nil
}

// Issues lists invalid staged rows, optionally those carrying one reason
func (s *Svc) Issues(ctx context.Context, in domain.IssuesInput) ([]domain.InvalidRow, error) {
	rows, err := s.Repo.InvalidRows(ctx, in.Reason, limit(in.Limit))
	if err != nil {
		return nil, perr.FromPostgres(err, "quality: invalid rows")
	}
	out := make([]domain.InvalidRow, 0, len(rows))
	for _, r := range rows {
		row := domain.InvalidRow{
			Position:   r.Position,
			Source:     r.Source,
			InvoiceNo:  r.InvoiceNo,
			StockCode:  r.StockCode,
			CustomerID: r.CustomerID,
			Quantity:   r.Quantity,
			Issues:     r.QualityIssues,
		}
		if r.UnitPrice != nil {
			p := money.String(*r.UnitPrice)
			row.UnitPrice = &p
		}
		if r.InvoiceDate != nil {
			d := r.InvoiceDate.UTC().Format(time.RFC3339)
			row.InvoiceDate = &d
		}
		out = append(out, row)
	}
	return out, nil
}

// Runs lists the newest runs first
func (s *Svc) Runs(ctx context.Context, in domain.ListInput) ([]domain.Run, error) {
	runs, err := s.RunLog.ListRuns(ctx, limit(in.Limit))
	if err != nil {
		return nil, perr.FromPostgres(err, "quality: runs")
	}
	out := make([]domain.Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, toRun(r))
	}
	return out, nil
}

// Rejections lists the rows the last assembly left out
func (s *Svc) Rejections(ctx context.Context, in domain.ListInput) ([]domain.Rejection, error) {
	rows, err := s.Repo.Rejections(ctx, limit(in.Limit))
	if err != nil {
		return nil, perr.FromPostgres(err, "quality: rejections")
	}
	out := make([]domain.Rejection, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Rejection{
			Position:    r.Position,
			InvoiceNo:   r.InvoiceNo,
			StockCode:   r.StockCode,
			MissingKeys: r.MissingKeys,
			RunID:       r.RunID,
			RejectedAt:  r.RejectedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func toRun(r refreshdom.Run) domain.Run {
	c := r.Counts
	out := domain.Run{
		ID:        r.ID,
		State:     string(r.State),
		Source:    r.Source,
		StartedAt: r.StartedAt.UTC().Format(time.RFC3339),
		Raw:       c.Raw,
		Skipped:   c.Skipped,
		Staged:    c.Staged,
		Valid:     c.Valid,
		Customers: c.Customers,
		Products:  c.Products,
		Dates:     c.Dates,
		Countries: c.Countries,
		Facts:     c.Facts,
		Rejected:  c.Rejected,
		ElapsedMS: r.Elapsed.Milliseconds(),
		Error:     r.Err,
	}
	if r.FinishedAt != nil {
		f := r.FinishedAt.UTC().Format(time.RFC3339)
		out.FinishedAt = &f
	}
	return out
}

func limit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}
