package service

import (
	"context"
	"testing"
	"time"

	"starforge/internal/core/validate"
	"starforge/internal/platform/store"
	"starforge/internal/services/api/quality/domain"
	"starforge/internal/services/api/quality/repo"
	factdom "starforge/internal/services/facts/domain"
	factrepo "starforge/internal/services/facts/repo"
	refreshdom "starforge/internal/services/refresh/domain"
	refreshrepo "starforge/internal/services/refresh/repo"
	stagedom "starforge/internal/services/staging/domain"
	strepo "starforge/internal/services/staging/repo"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func staged(pos int64, inv string, issues ...string) stagedom.StagedRecord {
	return stagedom.StagedRecord{
		Position:      pos,
		Source:        "retail.csv",
		InvoiceNo:     inv,
		StockCode:     ptr("P1"),
		Quantity:      ptr(int64(2)),
		UnitPrice:     ptr(decimal.RequireFromString("2.5")),
		IsValid:       len(issues) == 0,
		QualityIssues: issues,
	}
}

type rig struct {
	svc   *Svc
	runs  *refreshrepo.Memory
	facts *factrepo.Memory
}

func newRig(t *testing.T) *rig {
	t.Helper()
	ctx := context.Background()

	st := strepo.NewMemory()
	_, err := st.ReplaceStaged(ctx, []stagedom.StagedRecord{
		staged(1, "1"),
		staged(2, "2", validate.ReasonQuantity),
		staged(3, "C3", validate.ReasonCancelled),
		staged(4, "4"),
		staged(5, "C5", validate.ReasonCancelled),
	}, 0)
	require.NoError(t, err)

	r := &rig{runs: refreshrepo.NewMemory(), facts: factrepo.NewMemory()}
	_, err = r.facts.ReplaceRejections(ctx, []factdom.RejectedFact{
		{Position: 4, InvoiceNo: "4", StockCode: ptr("P1"), MissingKeys: []string{factdom.KeyProduct}},
	}, "run-2")
	require.NoError(t, err)

	r.svc = New(store.Offline{}, repo.NewMemory(st, r.facts), r.runs)
	return r
}

func (r *rig) logRun(t *testing.T, id string, at time.Time, c refreshdom.Counts) {
	t.Helper()
	fin := at.Add(time.Minute)
	require.NoError(t, r.runs.FinishRun(context.Background(), refreshdom.Run{
		ID: id, State: refreshdom.StateDone, Source: "retail.csv",
		StartedAt: at, FinishedAt: &fin, Counts: c, Elapsed: time.Minute,
	}))
}

func TestSummary(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r.logRun(t, "run-1", t0, refreshdom.Counts{Valid: 2, Facts: 2})
	r.logRun(t, "run-2", t0.Add(time.Hour), refreshdom.Counts{Staged: 5, Valid: 2, Facts: 1, Rejected: 1})

	got, err := r.svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, got.Staged)
	require.Equal(t, 2, got.Valid)
	require.Equal(t, 3, got.Invalid)
	require.Equal(t, 40.0, got.SuccessRate)
	require.Equal(t, validate.ReasonCancelled, got.Issues[0].Reason)
	require.Equal(t, 2, got.Issues[0].Count)
	require.NotNil(t, got.Run)
	require.Equal(t, "run-2", got.Run.ID)
	require.Equal(t, 1, got.Delta)
	require.Equal(t, "2025-01-01T01:01:00Z", *got.Run.FinishedAt)
}

func TestSummary_NoRuns(t *testing.T) {
	t.Parallel()

	got, err := newRig(t).svc.Summary(context.Background())
	require.NoError(t, err)
	require.Nil(t, got.Run)
	require.Zero(t, got.Delta)
}

func TestIssues(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	ctx := context.Background()

	all, err := r.svc.Issues(ctx, domain.IssuesInput{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "2.50", *all[0].UnitPrice)

	cancelled, err := r.svc.Issues(ctx, domain.IssuesInput{Reason: validate.ReasonCancelled, Limit: 1})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	require.Equal(t, int64(3), cancelled[0].Position)
}

func TestRunsAndRejections(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		r.logRun(t, id, t0.Add(time.Duration(i)*time.Hour), refreshdom.Counts{})
	}
	ctx := context.Background()

	runs, err := r.svc.Runs(ctx, domain.ListInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "c", runs[0].ID)
	require.Equal(t, int64(60000), runs[0].ElapsedMS)

	rej, err := r.svc.Rejections(ctx, domain.ListInput{})
	require.NoError(t, err)
	require.Len(t, rej, 1)
	require.Equal(t, []string{factdom.KeyProduct}, rej[0].MissingKeys)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRig(t).svc.Summary(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
