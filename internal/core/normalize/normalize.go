// Package normalize canonicalizes free text so that cosmetic variants group together
// Pipeline order
// 1 drop invalid UTF-8 and control characters
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove combining and format marks
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace to single spaces and trim
package normalize

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains, a chain is not safe for concurrent use
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Canonical returns the grouping form of s
func Canonical(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}
	return strings.Join(strings.Fields(ns), " ")
}

// Representative picks one display value out of observed variants
// Values are grouped by Canonical form. The most frequent group wins, ties go to the
// longer canonical form and then the lexically smaller one. Inside the winning group the
// most frequent trimmed spelling wins and ties go to the lexically smaller spelling, so
// "Widget" beats "widget ". Blank values are ignored and an all blank input yields ""
func Representative(values []string) string {
	type group struct {
		canon    string
		n        int
		spelling map[string]int
	}
	groups := map[string]*group{}
	for _, v := range values {
		c := Canonical(v)
		if c == "" {
			continue
		}
		g := groups[c]
		if g == nil {
			g = &group{canon: c, spelling: map[string]int{}}
			groups[c] = g
		}
		g.n++
		g.spelling[strings.TrimSpace(v)]++
	}
	if len(groups) == 0 {
		return ""
	}

	all := make([]*group, 0, len(groups))
	for _, g := range groups {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.n != b.n {
			return a.n > b.n
		}
		if len(a.canon) != len(b.canon) {
			return len(a.canon) > len(b.canon)
		}
		return a.canon < b.canon
	})

	best, bestN := "", 0
	for s, n := range all[0].spelling {
		if n > bestN || (n == bestN && s < best) {
			best, bestN = s, n
		}
	}
	return best
}
