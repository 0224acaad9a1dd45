package repair

import (
	"github.com/yungbote/protocol-clarity-backend/internal/annotate"
	"github.com/yungbote/protocol-clarity-backend/internal/config"
)

// Cause classifies why annotated text reads worse than its original.
type Cause string

const (
	// CauseLongTooltips: one or more definitions exceed the word budget.
	CauseLongTooltips Cause = "long_tooltips"
	// CauseComplexTooltips: one or more definitions score above the grade
	// threshold on their own.
	CauseComplexTooltips Cause = "complex_tooltips"
	// CauseHighDensity: a single sentence carries too many tooltips.
	CauseHighDensity Cause = "high_density"
)

// Diagnosis is the degradation analysis for one annotated chunk.
type Diagnosis struct {
	GradeBefore float64 `json:"grade_before"`
	GradeAfter  float64 `json:"grade_after"`
	Degradation float64 `json:"degradation"`

	TooltipCount           int `json:"tooltip_count"`
	LongTooltips           int `json:"long_tooltips"`
	ComplexTooltips        int `json:"complex_tooltips"`
	MaxTooltipsPerSentence int `json:"max_tooltips_per_sentence"`

	Causes []Cause `json:"causes"`
	// Strategies are the candidate repairs in priority order; only the
	// first applicable one is applied.
	Strategies []Strategy `json:"strategies"`

	HighDensitySentences []string `json:"high_density_sentences,omitempty"`
}

// Diagnose runs the three independent degradation checks against the
// injected tooltips and derives the ordered repair candidates. Long and
// complex definitions both point at simplify_language (the truncation
// strategy); sentence crowding points at remove_tooltips; an unexplained
// degradation can only go to a human.
func Diagnose(annotatedText string, gradeBefore, gradeAfter float64, cfg config.Engine) Diagnosis {
	tips := annotate.ExtractTooltips(annotatedText)
	density := annotate.AnalyzeSentenceDensity(annotatedText, cfg.DensityPerSentence)

	d := Diagnosis{
		GradeBefore:            gradeBefore,
		GradeAfter:             gradeAfter,
		Degradation:            gradeAfter - gradeBefore,
		TooltipCount:           len(tips),
		MaxTooltipsPerSentence: density.MaxPerSentence,
		HighDensitySentences:   density.HighDensity,
	}

	for _, tip := range tips {
		if tip.WordCount > cfg.LongTooltipWords {
			d.LongTooltips++
		}
		if tip.GradeLevel > cfg.ComplexTooltipGrade {
			d.ComplexTooltips++
		}
	}

	if d.LongTooltips > 0 {
		d.Causes = append(d.Causes, CauseLongTooltips)
	}
	if d.ComplexTooltips > 0 {
		d.Causes = append(d.Causes, CauseComplexTooltips)
	}
	if density.MaxPerSentence >= cfg.DensityPerSentence {
		d.Causes = append(d.Causes, CauseHighDensity)
	}

	if d.LongTooltips > 0 || d.ComplexTooltips > 0 {
		d.Strategies = append(d.Strategies, StrategySimplifyLanguage)
	}
	if density.MaxPerSentence >= cfg.DensityPerSentence {
		d.Strategies = append(d.Strategies, StrategyRemoveTooltips)
	}
	if len(d.Strategies) == 0 {
		d.Strategies = append(d.Strategies, StrategyManualReview)
	}

	return d
}
