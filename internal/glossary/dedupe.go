package glossary

import (
	"sort"
	"strings"
)

// Deduplicate removes case-insensitive duplicate terms, keeping the
// highest-quality entry per term. Output order is deterministic (term
// ascending) so a re-run over the same glossary file produces the same set.
func Deduplicate(entries []Entry) (kept []Entry, dropped int) {
	byTerm := map[string][]Entry{}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Term))
		byTerm[key] = append(byTerm[key], e)
	}

	kept = make([]Entry, 0, len(byTerm))
	for _, group := range byTerm {
		best := group[0]
		bestScore := entryQuality(best)
		for _, e := range group[1:] {
			if q := entryQuality(e); q > bestScore {
				best, bestScore = e, q
			}
		}
		best.SourceCount = len(group)
		kept = append(kept, best)
		dropped += len(group) - 1
	}

	sort.Slice(kept, func(i, j int) bool {
		return strings.ToLower(kept[i].Term) < strings.ToLower(kept[j].Term)
	})
	return kept, dropped
}

// entryQuality weighs field presence, definition length, and the definition's
// own reading level (lower reads better).
func entryQuality(e Entry) float64 {
	score := 0.0
	if e.Definition != "" {
		score += 10
	}
	if e.ClinicalDefinition != "" {
		score += 8
	}
	if e.Analogy != "" {
		score += 7
	}
	if e.WhyItMatters != "" {
		score += 6
	}
	if e.ExampleSentence != "" {
		score += 5
	}
	score += float64(len(e.Definition)) / 100

	rl := e.ReadingLevel
	if rl == 0 {
		rl = 10.0
	}
	score -= rl * 0.5

	return score
}
