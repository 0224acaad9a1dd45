package readability

import (
	"regexp"
	"strings"
)

// Text complexity counting. The heuristics here are deliberately coarse but
// frozen: scores must be reproducible across runs, so the rules below are the
// contract, not an approximation of one.

var (
	nonAlphaRE    = regexp.MustCompile(`[^a-z]`)
	vowelGroupRE  = regexp.MustCompile(`[aeiouy]+`)
	wordRE        = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	boldRE        = regexp.MustCompile(`\*\*`)
	italicRE      = regexp.MustCompile(`\*`)
	headingRE     = regexp.MustCompile(`#{1,6}\s`)
	linkRE        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	abbrevRE      = regexp.MustCompile(`(?i)\b(Dr|Mr|Mrs|Ms|etc|i\.e|e\.g)\.`)
	sentenceEndRE = regexp.MustCompile(`[.!?]+`)
)

// Stats are the raw counts a readability score derives from.
type Stats struct {
	WordCount     int
	SentenceCount int
	SyllableCount int
}

// CountSyllables counts maximal vowel runs in the lower-cased alphabetic form
// of word. A trailing silent 'e' is not counted when the word has more than
// one vowel group. Every non-empty word counts at least one syllable.
func CountSyllables(word string) int {
	word = nonAlphaRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(word)), "")
	if word == "" {
		return 0
	}

	n := len(vowelGroupRE.FindAllString(word, -1))
	if strings.HasSuffix(word, "e") && n > 1 {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

// CountSentences splits on runs of sentence-ending punctuation, after
// shielding common abbreviations from being misread as boundaries.
func CountSentences(text string) int {
	text = abbrevRE.ReplaceAllString(text, "$1<PERIOD>")

	count := 0
	for _, frag := range sentenceEndRE.Split(text, -1) {
		if strings.TrimSpace(frag) != "" {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// AnalyzeComplexity strips bold/italic markers, heading markers, and link
// syntax (keeping link text), then tokenizes on alphabetic word boundaries.
func AnalyzeComplexity(text string) Stats {
	clean := boldRE.ReplaceAllString(text, "")
	clean = italicRE.ReplaceAllString(clean, "")
	clean = headingRE.ReplaceAllString(clean, "")
	clean = linkRE.ReplaceAllString(clean, "$1")

	words := wordRE.FindAllString(clean, -1)

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}

	return Stats{
		WordCount:     len(words),
		SentenceCount: CountSentences(clean),
		SyllableCount: syllables,
	}
}
