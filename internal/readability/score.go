package readability

import "math"

// Flesch-Kincaid scoring. The constants are the published formula; they are
// not tunable.

// Score is a full readability reading for one text. Derived on demand, never
// mutated.
type Score struct {
	GradeLevel float64 `json:"grade_level"`
	EaseScore  float64 `json:"ease_score"`

	WordCount     int `json:"word_count"`
	SentenceCount int `json:"sentence_count"`
	SyllableCount int `json:"syllable_count"`

	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`
}

// GradeLevel computes the Flesch-Kincaid Grade Level:
// 0.39*(words/sentences) + 11.8*(syllables/words) - 15.59.
// Zero words or sentences scores 0.
func GradeLevel(s Stats) float64 {
	if s.WordCount == 0 || s.SentenceCount == 0 {
		return 0
	}
	wps := float64(s.WordCount) / float64(s.SentenceCount)
	spw := float64(s.SyllableCount) / float64(s.WordCount)
	return Round2(0.39*wps + 11.8*spw - 15.59)
}

// EaseScore computes the Flesch Reading Ease:
// 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words).
func EaseScore(s Stats) float64 {
	if s.WordCount == 0 || s.SentenceCount == 0 {
		return 0
	}
	wps := float64(s.WordCount) / float64(s.SentenceCount)
	spw := float64(s.SyllableCount) / float64(s.WordCount)
	return Round2(206.835 - 1.015*wps - 84.6*spw)
}

// ScoreText analyzes text and returns the full reading.
func ScoreText(text string) Score {
	stats := AnalyzeComplexity(text)

	sc := Score{
		GradeLevel:    GradeLevel(stats),
		EaseScore:     EaseScore(stats),
		WordCount:     stats.WordCount,
		SentenceCount: stats.SentenceCount,
		SyllableCount: stats.SyllableCount,
	}
	if stats.SentenceCount > 0 {
		sc.AvgWordsPerSentence = Round2(float64(stats.WordCount) / float64(stats.SentenceCount))
	}
	if stats.WordCount > 0 {
		sc.AvgSyllablesPerWord = Round2(float64(stats.SyllableCount) / float64(stats.WordCount))
	}
	return sc
}

// Categorize buckets a reading into easy/moderate/difficult/very_difficult.
func Categorize(gradeLevel, easeScore float64) string {
	switch {
	case gradeLevel <= 6 && easeScore >= 80:
		return "easy"
	case gradeLevel <= 9 && easeScore >= 60:
		return "moderate"
	case gradeLevel <= 12 && easeScore >= 40:
		return "difficult"
	default:
		return "very_difficult"
	}
}

// JargonDensity is recognized technical terms per 100 words.
func JargonDensity(termCount, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}
	return Round2(float64(termCount) / float64(wordCount) * 100)
}

// SimplificationPriority scores 0-100 how urgently a chunk needs plainer
// language: reading level contributes up to 40 points, jargon density up to
// 30, the chunk's difficulty level up to 15, and its category up to 15.
func SimplificationPriority(gradeLevel, jargonDensity float64, difficultyLevel, category string) int {
	score := 0

	switch {
	case gradeLevel > 12:
		score += 40
	case gradeLevel > 10:
		score += 30
	case gradeLevel > 8:
		score += 20
	case gradeLevel > 6:
		score += 10
	}

	switch {
	case jargonDensity > 10:
		score += 30
	case jargonDensity > 5:
		score += 20
	case jargonDensity > 2:
		score += 10
	}

	switch difficultyLevel {
	case "advanced":
		score += 15
	case "intermediate":
		score += 10
	case "beginner":
		score += 5
	}

	switch category {
	case "neural-rewiring":
		score += 15
	case "research", "clinical":
		score += 10
	case "daily-deductible", "traditional":
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
