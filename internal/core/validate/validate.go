// Package validate provides ordered predicate rule chains
//
// A chain is evaluated in declaration order. In FirstFailure mode the first failing
// rule decides the outcome and only its reason is reported. In CollectAll mode every
// failing reason is reported in chain order
package validate

// Mode selects how many failures a chain reports
type Mode uint8

const (
	// FirstFailure stops at the first failing rule
	FirstFailure Mode = iota
	// CollectAll evaluates every rule
	CollectAll
)

// String returns the mode name
func (m Mode) String() string {
	if m == CollectAll {
		return "collect_all"
	}
	return "first_failure"
}

// Rule pairs a failure predicate with the reason recorded when it fires
type Rule[T any] struct {
	Name   string
	Reason string
	Fails  func(T) bool
}

// Chain is an immutable ordered list of rules
type Chain[T any] struct {
	mode  Mode
	rules []Rule[T]
}

// NewChain builds a chain, nil predicates are dropped
func NewChain[T any](mode Mode, rules ...Rule[T]) Chain[T] {
	rs := make([]Rule[T], 0, len(rules))
	for _, r := range rules {
		if r.Fails == nil {
			continue
		}
		rs = append(rs, r)
	}
	return Chain[T]{mode: mode, rules: rs}
}

// Mode returns the chain mode
func (c Chain[T]) Mode() Mode { return c.mode }

// Rules returns a copy of the rules in evaluation order
func (c Chain[T]) Rules() []Rule[T] {
	return append([]Rule[T](nil), c.rules...)
}

// Evaluate runs the chain against v
// issues is nil exactly when valid is true
func (c Chain[T]) Evaluate(v T) (valid bool, issues []string) {
	for _, r := range c.rules {
		if !r.Fails(v) {
			continue
		}
		issues = append(issues, r.Reason)
		if c.mode == FirstFailure {
			break
		}
	}
	return len(issues) == 0, issues
}
