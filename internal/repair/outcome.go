package repair

import (
	"github.com/yungbote/protocol-clarity-backend/internal/config"
	"github.com/yungbote/protocol-clarity-backend/internal/readability"
)

// Outcome is the result of one repair attempt on a degraded chunk. Created
// once per degraded document, then either applied or discarded.
type Outcome struct {
	Strategy     Strategy `json:"strategy"`
	RepairedText string   `json:"repaired_text"`

	ScoreBefore         float64 `json:"score_before"`
	ScoreAfterInjection float64 `json:"score_after_injection"`
	ScoreAfterRepair    float64 `json:"score_after_repair"`

	TooltipsModified int `json:"tooltips_modified"`
	// Resolved reports whether the repaired text may be persisted: the
	// strategy was automatic and the rescored grade sits strictly below
	// the degraded (post-injection) score by at least the configured
	// margin. Revert always resolves; it restores the baseline exactly.
	Resolved bool `json:"resolved"`
}

// Run applies the first candidate strategy from the diagnosis and rescores
// the result. With cfg.PreferRevert the candidate list is ignored and the
// chunk reverts to its original text outright.
func Run(original, annotated string, d Diagnosis, cfg config.Engine) Outcome {
	strategy := StrategyManualReview
	if len(d.Strategies) > 0 {
		strategy = d.Strategies[0]
	}
	if cfg.PreferRevert {
		strategy = StrategyRevertToOriginal
	}

	fn, ok := Table[strategy]
	if !ok {
		fn, strategy = manualReview, StrategyManualReview
	}

	repaired, modified, automatic := fn(original, annotated, cfg)
	repairedGrade := readability.GradeLevel(readability.AnalyzeComplexity(repaired))

	out := Outcome{
		Strategy:            strategy,
		RepairedText:        repaired,
		ScoreBefore:         d.GradeBefore,
		ScoreAfterInjection: d.GradeAfter,
		ScoreAfterRepair:    repairedGrade,
		TooltipsModified:    modified,
	}

	switch {
	case strategy == StrategyRevertToOriginal:
		out.Resolved = true
	case automatic:
		improvement := d.GradeAfter - repairedGrade
		out.Resolved = improvement > cfg.MinRepairImprovement && repairedGrade < d.GradeAfter
	}
	return out
}
