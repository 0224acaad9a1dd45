package annotate

import (
	"regexp"
	"strings"

	"github.com/yungbote/protocol-clarity-backend/internal/readability"
)

// {{term||definition}} is the only serialization format that crosses the
// engine boundary into stored text.

var (
	tooltipRE  = regexp.MustCompile(`\{\{([^|]+)\|\|([^}]+)\}\}`)
	anyMarkup  = regexp.MustCompile(`\{\{[^}]+\}\}`)
	sentenceRE = regexp.MustCompile(`[.!?]+`)
)

// Tooltip is one parsed markup span plus the complexity of its definition.
type Tooltip struct {
	Term       string
	Definition string
	WordCount  int
	GradeLevel float64
}

// ExtractTooltips parses every markup span in text and scores each
// definition on its own.
func ExtractTooltips(text string) []Tooltip {
	var out []Tooltip
	for _, m := range tooltipRE.FindAllStringSubmatch(text, -1) {
		def := strings.TrimSpace(m[2])
		stats := readability.AnalyzeComplexity(def)
		out = append(out, Tooltip{
			Term:       strings.TrimSpace(m[1]),
			Definition: def,
			WordCount:  stats.WordCount,
			GradeLevel: readability.GradeLevel(stats),
		})
	}
	return out
}

// StripMarkup replaces each {{term||definition}} with its bare term.
func StripMarkup(text string) string {
	return tooltipRE.ReplaceAllString(text, "${1}")
}

// CountMarkupSpans counts injected tooltip spans in text.
func CountMarkupSpans(text string) int {
	return len(anyMarkup.FindAllString(text, -1))
}

// ReplaceTooltips rewrites every markup span through fn, which receives the
// span's term and definition and returns the replacement text (markup or
// bare term).
func ReplaceTooltips(text string, fn func(term, definition string) string) string {
	return tooltipRE.ReplaceAllStringFunc(text, func(span string) string {
		m := tooltipRE.FindStringSubmatch(span)
		return fn(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
	})
}

// DensityAnalysis reports how tooltips cluster within sentences. Several
// tooltips in one sentence is a readability problem regardless of the
// definitions' own quality.
type DensityAnalysis struct {
	MaxPerSentence int
	HighDensity    []string
}

// AnalyzeSentenceDensity splits on sentence-ending punctuation and counts
// markup spans per sentence. Sentences at or above threshold are sampled
// into HighDensity.
func AnalyzeSentenceDensity(text string, threshold int) DensityAnalysis {
	var out DensityAnalysis
	for _, sentence := range sentenceRE.Split(text, -1) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		n := CountMarkupSpans(sentence)
		if n > out.MaxPerSentence {
			out.MaxPerSentence = n
		}
		if threshold > 0 && n >= threshold {
			out.HighDensity = append(out.HighDensity, strings.TrimSpace(sentence))
		}
	}
	return out
}
