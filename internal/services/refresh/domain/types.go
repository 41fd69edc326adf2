// Package domain holds the refresh state machine and run log types
package domain

import (
	"time"

	"starforge/internal/core/report"
	perr "starforge/internal/platform/errors"
)

// State is a refresh lifecycle state
type State string

// Refresh states in pipeline order
const (
	StateIdle           State = "IDLE"
	StateStaging        State = "STAGING"
	StateDimensioning   State = "DIMENSIONING"
	StateFactAssembling State = "FACT_ASSEMBLING"
	StateDone           State = "DONE"
	StateFailed         State = "FAILED"
)

// forward edges only, FAILED is reachable from every non terminal state
var forward = map[State]State{
	StateIdle:           StateStaging,
	StateStaging:        StateDimensioning,
	StateDimensioning:   StateFactAssembling,
	StateFactAssembling: StateDone,
}

// Terminal reports whether no further transition is allowed
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Next validates the transition s -> to
// an illegal transition is a programming error, the run lands in FAILED
func (s State) Next(to State) (State, error) {
	if s.Terminal() {
		return StateFailed, perr.Internalf("refresh: no transition out of %s", s)
	}
	if to == StateFailed || forward[s] == to {
		return to, nil
	}
	return StateFailed, perr.Internalf("refresh: illegal transition %s -> %s", s, to)
}

// Counts are the per stage row counts recorded on a run
type Counts struct {
	Raw       int
	Skipped   int
	Staged    int
	Valid     int
	Customers int
	Products  int
	Dates     int
	Countries int
	Facts     int
	Rejected  int
}

// Delta is the number of valid staged rows without a fact
func (c Counts) Delta() int { return c.Valid - c.Facts }

// Run is one row of the refresh run log
type Run struct {
	ID         string
	State      State
	Source     string
	StartedAt  time.Time
	FinishedAt *time.Time
	Counts     Counts
	Elapsed    time.Duration
	Err        string

	// Issues is the count of invalid rows by reason, not persisted
	Issues map[string]int
}

// Ok reports whether the run reached DONE
func (r Run) Ok() bool { return r.State == StateDone }

// Summary projects the run onto the quality report
func (r Run) Summary() report.Summary {
	c := r.Counts
	return report.Summary{
		RunID: r.ID, State: string(r.State), Source: r.Source,
		Raw: c.Raw, Skipped: c.Skipped, Staged: c.Staged, Valid: c.Valid,
		Customers: c.Customers, Products: c.Products, Dates: c.Dates, Countries: c.Countries,
		Facts: c.Facts, Rejected: c.Rejected,
		Issues: report.SortIssues(r.Issues),
	}
}
