// Package report renders the plain text quality report printed after a refresh
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

// Issue is one validation reason and how many staged rows carry it
type Issue struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// Summary is everything the report shows about one run
type Summary struct {
	RunID  string
	State  string
	Source string

	Raw     int
	Skipped int
	Staged  int
	Valid   int

	Customers int
	Products  int
	Dates     int
	Countries int

	Facts    int
	Rejected int

	Issues []Issue
}

// Invalid returns the number of staged rows flagged invalid
func (s Summary) Invalid() int { return s.Staged - s.Valid }

// Delta is the number of valid rows that did not become facts
func (s Summary) Delta() int { return s.Valid - s.Facts }

// SuccessRate is the valid share of staged rows in percent, 0 when nothing was staged
func (s Summary) SuccessRate() float64 {
	if s.Staged == 0 {
		return 0
	}
	return float64(s.Valid) * 100 / float64(s.Staged)
}

// SortIssues flattens a reason count map, highest count first then by reason
func SortIssues(m map[string]int) []Issue {
	out := make([]Issue, 0, len(m))
	for r, n := range m {
		out = append(out, Issue{Reason: r, Count: n})
	}
	sortIssues(out)
	return out
}

func sortIssues(is []Issue) {
	slices.SortFunc(is, func(a, b Issue) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Reason, b.Reason)
	})
}

// Render writes the report for s to w
// output depends only on s, issues are re-sorted so callers may pass them in any order
func Render(w io.Writer, s Summary) error {
	p := &printer{w: w}

	p.line("starforge quality report")
	p.kv("run", s.RunID)
	p.kv("state", s.State)
	p.kv("source", s.Source)

	p.section("rows")
	p.num("raw", s.Raw)
	p.num("skipped", s.Skipped)
	p.num("staged", s.Staged)
	p.num("valid", s.Valid)
	p.num("invalid", s.Invalid())

	p.section("dimensions")
	p.num("customers", s.Customers)
	p.num("products", s.Products)
	p.num("dates", s.Dates)
	p.num("countries", s.Countries)

	p.section("facts")
	p.num("loaded", s.Facts)
	p.num("rejected", s.Rejected)
	p.num("delta", s.Delta())

	p.line("")
	p.line(fmt.Sprintf("validation success rate %.2f%%", s.SuccessRate()))

	p.section("issues by reason")
	issues := slices.Clone(s.Issues)
	sortIssues(issues)
	if len(issues) == 0 {
		p.line("  none")
	}
	for _, is := range issues {
		p.line(fmt.Sprintf("  %6d  %s", is.Count, is.Reason))
	}
	return p.err
}

// printer keeps the first write error so Render checks once
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) section(name string) {
	p.line("")
	p.line(name)
}

func (p *printer) kv(k, v string) {
	if v == "" {
		v = "-"
	}
	p.line(fmt.Sprintf("%-8s %s", k, v))
}

func (p *printer) num(k string, n int) {
	p.line(fmt.Sprintf("  %-10s %8d", k, n))
}
