package glossary

import (
	"regexp"
	"sort"
	"strings"
)

// TermMatch is one located glossary term occurrence. Offsets are byte
// positions into the source text; Term preserves the casing found there.
// Matches returned by a Matcher never share any offset.
type TermMatch struct {
	Term       string
	Start      int
	End        int
	Definition string
	Category   string
	Priority   float64
}

// Matcher locates every non-overlapping glossary term occurrence in a text.
// The contract is longest-term-first precedence with deterministic
// tie-breaking, not any particular pattern-matching primitive.
type Matcher interface {
	FindAll(text string) []TermMatch
}

type regexMatcher struct {
	entries  []Entry
	patterns []*regexp.Regexp
}

// NewMatcher builds a matcher over a read-only view of the glossary, sorted
// longest term first so "prefrontal cortex" wins over "cortex" inside it.
// Equal-length terms order lexicographically, which fixes precedence when two
// terms of the same length start at the same offset.
func NewMatcher(entries []Entry) Matcher {
	view := make([]Entry, len(entries))
	copy(view, entries)
	sort.Slice(view, func(i, j int) bool {
		ti, tj := view[i].Term, view[j].Term
		if len(ti) != len(tj) {
			return len(ti) > len(tj)
		}
		return strings.ToLower(ti) < strings.ToLower(tj)
	})

	patterns := make([]*regexp.Regexp, len(view))
	for i, e := range view {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(e.Term)) + `\b`)
	}
	return &regexMatcher{entries: view, patterns: patterns}
}

func (m *regexMatcher) FindAll(text string) []TermMatch {
	type candidate struct {
		TermMatch
		rank int // position in the length-descending entry order
	}

	var candidates []candidate
	for i, e := range m.entries {
		def := e.DisplayDefinition()
		for _, loc := range m.patterns[i].FindAllStringIndex(text, -1) {
			candidates = append(candidates, candidate{
				TermMatch: TermMatch{
					Term:       text[loc[0]:loc[1]],
					Start:      loc[0],
					End:        loc[1],
					Definition: def,
					Category:   e.Category,
				},
				rank: i,
			})
		}
	}

	// Left-to-right sweep; at equal offsets the higher-precedence (longer,
	// then lexically smaller) term is considered first and wins.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].rank < candidates[j].rank
	})

	var out []TermMatch
	for _, c := range candidates {
		overlaps := false
		for _, kept := range out {
			if c.Start < kept.End && kept.Start < c.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			out = append(out, c.TermMatch)
		}
	}
	return out
}
