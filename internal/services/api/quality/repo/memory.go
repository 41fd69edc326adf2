package repo

import (
	"context"
	"slices"
	"time"

	"starforge/internal/modkit/repokit"
	factdom "starforge/internal/services/facts/domain"
	stagedom "starforge/internal/services/staging/domain"
)

// StagedLoader is the read side of the staging repos
type StagedLoader interface {
	LoadStaged(ctx context.Context, validOnly bool) ([]stagedom.StagedRecord, error)
}

// RejectionLister is the read side of the in memory fact repo
type RejectionLister interface {
	Rejections() []factdom.RejectedFact
}

// Memory derives the quality read model from the in process warehouse tables
type Memory struct {
	Staged   StagedLoader
	Rejected RejectionLister
	RunID    string
	now      func() time.Time
}

// NewMemory reads from the given in memory tables, either may be nil
func NewMemory(staged StagedLoader, rejected RejectionLister) *Memory {
	return &Memory{Staged: staged, Rejected: rejected, now: time.Now}
}

// Bind implements repokit.Binder, the queryer is ignored
func (m *Memory) Bind(repokit.Queryer) Repo { return m }

func (m *Memory) staged(ctx context.Context) ([]stagedom.StagedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Staged == nil {
		return nil, nil
	}
	return m.Staged.LoadStaged(ctx, false)
}

// StagedCounts implements Repo
func (m *Memory) StagedCounts(ctx context.Context) (int, int, error) {
	recs, err := m.staged(ctx)
	if err != nil {
		return 0, 0, err
	}
	valid := 0
	for _, r := range recs {
		if r.IsValid {
			valid++
		}
	}
	return len(recs), valid, nil
}

// IssueCounts implements Repo
func (m *Memory) IssueCounts(ctx context.Context) (map[string]int, error) {
	recs, err := m.staged(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, r := range recs {
		for _, is := range r.QualityIssues {
			out[is]++
		}
	}
	return out, nil
}

// InvalidRows implements Repo
func (m *Memory) InvalidRows(ctx context.Context, reason string, limit int) ([]stagedom.StagedRecord, error) {
	recs, err := m.staged(ctx)
	if err != nil {
		return nil, err
	}
	var out []stagedom.StagedRecord
	for _, r := range recs {
		if len(out) == limit {
			break
		}
		if r.IsValid || (reason != "" && !slices.Contains(r.QualityIssues, reason)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Rejections implements Repo
func (m *Memory) Rejections(ctx context.Context, limit int) ([]RowRejection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Rejected == nil {
		return nil, nil
	}
	at := m.now().UTC()
	var out []RowRejection
	for _, rf := range m.Rejected.Rejections() {
		if len(out) == limit {
			break
		}
		out = append(out, RowRejection{RejectedFact: rf, RunID: m.RunID, RejectedAt: at})
	}
	return out, nil
}
