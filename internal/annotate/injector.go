package annotate

import (
	"fmt"
	"sort"

	"github.com/yungbote/protocol-clarity-backend/internal/config"
	"github.com/yungbote/protocol-clarity-backend/internal/glossary"
)

// Annotated is the result of tooltip injection for one text. Stripping all
// markup from AnnotatedText and normalizing whitespace reproduces
// OriginalText exactly.
type Annotated struct {
	OriginalText  string
	AnnotatedText string
	UsedTerms     map[string]string
}

// Weigher ranks a candidate match for selection when more matches exist than
// the injection budget allows. Higher wins. It is a policy, not a law;
// callers may substitute their own.
type Weigher func(m glossary.TermMatch) float64

// DefaultWeigher prefers terms that appear early (they set context), terms
// whose definitions carry more content, and domain-priority categories.
func DefaultWeigher(cfg config.Engine) Weigher {
	return func(m glossary.TermMatch) float64 {
		return float64(1000-m.Start)*0.4 +
			float64(len(m.Definition))*0.3 +
			cfg.CategoryWeight(m.Category)*0.3
	}
}

// Inject rewrites text with up to maxTooltips {{term||definition}} spans,
// chosen by priority among the given non-overlapping matches. Unselected text
// is untouched. With zero matches the input comes back unchanged with an
// empty term map.
func Inject(text string, matches []glossary.TermMatch, maxTooltips int, weigh Weigher) Annotated {
	out := Annotated{
		OriginalText:  text,
		AnnotatedText: text,
		UsedTerms:     map[string]string{},
	}
	if len(matches) == 0 || maxTooltips == 0 {
		return out
	}

	scored := make([]glossary.TermMatch, len(matches))
	copy(scored, matches)
	for i := range scored {
		scored[i].Priority = weigh(scored[i])
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Priority != scored[j].Priority {
			return scored[i].Priority > scored[j].Priority
		}
		return scored[i].Start < scored[j].Start
	})

	selected := scored
	if len(selected) > maxTooltips {
		selected = selected[:maxTooltips]
	}

	// Replace from the end of the text toward the beginning: each
	// replacement changes the text length, so right-to-left keeps the
	// not-yet-processed offsets valid.
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Start > selected[j].Start
	})

	annotated := text
	for _, m := range selected {
		tooltip := fmt.Sprintf("{{%s||%s}}", m.Term, m.Definition)
		annotated = annotated[:m.Start] + tooltip + annotated[m.End:]
		out.UsedTerms[m.Term] = m.Definition
	}

	out.AnnotatedText = annotated
	return out
}
