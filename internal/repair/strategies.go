package repair

import (
	"regexp"
	"strings"

	"github.com/yungbote/protocol-clarity-backend/internal/annotate"
	"github.com/yungbote/protocol-clarity-backend/internal/config"
	"github.com/yungbote/protocol-clarity-backend/internal/readability"
)

// Strategy is a closed set of repair policies. Each is a pure function of
// (original, annotated, config); selection walks the diagnosis's ordered
// candidate list and applies the first applicable entry only.
type Strategy string

const (
	// StrategySimplifyLanguage truncates each definition to its first
	// sentence, capped at the configured word budget, with an ellipsis.
	StrategySimplifyLanguage Strategy = "simplify_language"
	// StrategyRemoveTooltips strips any tooltip whose definition scores
	// above the grade threshold, leaving the bare term.
	StrategyRemoveTooltips Strategy = "remove_tooltips"
	// StrategyRevertToOriginal discards all injection outright. Preferred
	// when correctness matters more than coverage: it cannot make a chunk
	// worse.
	StrategyRevertToOriginal Strategy = "revert_to_original"
	// StrategyManualReview makes no automatic change; a human decides.
	StrategyManualReview Strategy = "manual_review"
)

// StrategyFunc rewrites annotated text under one policy. It reports the
// repaired text, how many tooltips it touched, and whether the strategy is
// automatic (manual_review is not).
type StrategyFunc func(original, annotated string, cfg config.Engine) (repaired string, modified int, automatic bool)

// Table binds each strategy to its implementation. A strategy table, not a
// dispatch chain: adding a policy means adding a row.
var Table = map[Strategy]StrategyFunc{
	StrategySimplifyLanguage: simplifyLanguage,
	StrategyRemoveTooltips:   removeTooltips,
	StrategyRevertToOriginal: revertToOriginal,
	StrategyManualReview:     manualReview,
}

var firstSentenceRE = regexp.MustCompile(`[.!?]+`)

func simplifyLanguage(_ string, annotated string, cfg config.Engine) (string, int, bool) {
	modified := 0
	out := annotate.ReplaceTooltips(annotated, func(term, definition string) string {
		simplified := truncateDefinition(definition, cfg.ShortenCapWords)
		if simplified != definition {
			modified++
		}
		return "{{" + term + "||" + simplified + "}}"
	})
	return out, modified, true
}

func removeTooltips(_ string, annotated string, cfg config.Engine) (string, int, bool) {
	removed := 0
	out := annotate.ReplaceTooltips(annotated, func(term, definition string) string {
		stats := readability.AnalyzeComplexity(definition)
		if readability.GradeLevel(stats) > cfg.RemoveThresholdGrade {
			removed++
			return term
		}
		return "{{" + term + "||" + definition + "}}"
	})
	return out, removed, true
}

func revertToOriginal(original string, annotated string, _ config.Engine) (string, int, bool) {
	return original, annotate.CountMarkupSpans(annotated), true
}

func manualReview(_ string, annotated string, _ config.Engine) (string, int, bool) {
	return annotated, 0, false
}

// truncateDefinition keeps the first sentence, capped at maxWords, appending
// an ellipsis when anything was cut.
func truncateDefinition(definition string, maxWords int) string {
	first := definition
	if parts := firstSentenceRE.Split(definition, 2); len(parts) > 0 {
		if s := strings.TrimSpace(parts[0]); s != "" {
			first = s
		}
	}

	words := strings.Fields(first)
	if len(words) > maxWords {
		first = strings.Join(words[:maxWords], " ") + "..."
	}
	return first
}
