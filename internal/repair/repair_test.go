package repair

import (
	"strings"
	"testing"

	"github.com/yungbote/protocol-clarity-backend/internal/annotate"
	"github.com/yungbote/protocol-clarity-backend/internal/config"
	"github.com/yungbote/protocol-clarity-backend/internal/readability"
)

const longDefinition = "a sophisticated physiological mechanism that systematically modulates the autonomic nervous system and substantially influences neurological homeostasis throughout the entire organism over time"

func TestDiagnose_LongTooltips(t *testing.T) {
	cfg := config.DefaultEngine()
	annotated := "The {{vagus nerve||" + longDefinition + "}} helps."

	d := Diagnose(annotated, 6.0, 9.0, cfg)

	if d.LongTooltips != 1 {
		t.Errorf("LongTooltips = %d, want 1", d.LongTooltips)
	}
	if len(d.Strategies) == 0 || d.Strategies[0] != StrategySimplifyLanguage {
		t.Errorf("Strategies = %v, want simplify_language first", d.Strategies)
	}
	if d.Degradation != 3.0 {
		t.Errorf("Degradation = %v, want 3.0", d.Degradation)
	}
}

func TestDiagnose_HighDensity(t *testing.T) {
	cfg := config.DefaultEngine()
	annotated := "The {{a||x}} and {{b||y}} and {{c||z}} interact here."

	d := Diagnose(annotated, 5.0, 7.0, cfg)

	if d.MaxTooltipsPerSentence != 3 {
		t.Errorf("MaxTooltipsPerSentence = %d, want 3", d.MaxTooltipsPerSentence)
	}
	if len(d.Strategies) == 0 || d.Strategies[0] != StrategyRemoveTooltips {
		t.Errorf("Strategies = %v, want remove_tooltips first", d.Strategies)
	}
}

func TestDiagnose_UnknownCauseFlagsManualReview(t *testing.T) {
	cfg := config.DefaultEngine()
	annotated := "The {{amygdala||alarm part}} reacts."

	d := Diagnose(annotated, 4.0, 4.5, cfg)

	if len(d.Strategies) != 1 || d.Strategies[0] != StrategyManualReview {
		t.Errorf("Strategies = %v, want only manual_review", d.Strategies)
	}
}

func TestSimplifyLanguage_TruncatesDefinitions(t *testing.T) {
	cfg := config.DefaultEngine()
	annotated := "The {{vagus nerve||" + longDefinition + "}} helps."

	repaired, modified, automatic := simplifyLanguage("", annotated, cfg)
	if !automatic || modified != 1 {
		t.Fatalf("automatic=%v modified=%d", automatic, modified)
	}

	tips := annotate.ExtractTooltips(repaired)
	if len(tips) != 1 {
		t.Fatalf("tooltips after repair: %d", len(tips))
	}
	if !strings.HasSuffix(tips[0].Definition, "...") {
		t.Errorf("capped definition should end with ellipsis: %q", tips[0].Definition)
	}
	if got := len(strings.Fields(strings.TrimSuffix(tips[0].Definition, "..."))); got > cfg.ShortenCapWords {
		t.Errorf("definition still %d words, cap is %d", got, cfg.ShortenCapWords)
	}
}

func TestRemoveTooltips_StripsComplexOnes(t *testing.T) {
	cfg := config.DefaultEngine()
	annotated := "The {{vagus nerve||" + longDefinition + "}} and the {{amygdala||the brain's alarm}} interact."

	repaired, removed, _ := removeTooltips("", annotated, cfg)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if !strings.Contains(repaired, "The vagus nerve and") {
		t.Errorf("complex tooltip should collapse to bare term: %q", repaired)
	}
	if !strings.Contains(repaired, "{{amygdala||") {
		t.Errorf("simple tooltip should survive: %q", repaired)
	}
}

func TestRun_RevertRestoresBaselineExactly(t *testing.T) {
	cfg := config.DefaultEngine()
	cfg.PreferRevert = true

	original := "The practice activates the vagus nerve through vocalization."
	annotated := "The practice activates the {{vagus nerve||" + longDefinition + "}} through vocalization."

	before := readability.GradeLevel(readability.AnalyzeComplexity(original))
	after := readability.GradeLevel(readability.AnalyzeComplexity(annotated))
	if after <= before {
		t.Fatalf("fixture should degrade: before=%v after=%v", before, after)
	}

	d := Diagnose(annotated, before, after, cfg)
	out := Run(original, annotated, d, cfg)

	if out.Strategy != StrategyRevertToOriginal {
		t.Fatalf("Strategy = %q", out.Strategy)
	}
	if !out.Resolved {
		t.Fatal("revert must always resolve")
	}
	if out.RepairedText != original {
		t.Errorf("revert did not restore original text")
	}
	if out.ScoreAfterRepair != before {
		t.Errorf("ScoreAfterRepair = %v, want baseline %v", out.ScoreAfterRepair, before)
	}
}

func TestRun_NeverResolvesWorseThanDegraded(t *testing.T) {
	cfg := config.DefaultEngine()

	original := "The nerve calms the body."
	annotated := "The {{nerve||" + longDefinition + "}} calms the body."
	before := readability.GradeLevel(readability.AnalyzeComplexity(original))
	after := readability.GradeLevel(readability.AnalyzeComplexity(annotated))

	d := Diagnose(annotated, before, after, cfg)
	out := Run(original, annotated, d, cfg)

	if out.Resolved && out.ScoreAfterRepair >= out.ScoreAfterInjection {
		t.Fatalf("resolved repair may not score at or above the degraded text: %+v", out)
	}
}

func TestRun_ManualReviewLeavesTextAlone(t *testing.T) {
	cfg := config.DefaultEngine()
	annotated := "The {{amygdala||alarm part}} reacts."

	d := Diagnose(annotated, 4.0, 4.5, cfg)
	out := Run("The amygdala reacts.", annotated, d, cfg)

	if out.Strategy != StrategyManualReview {
		t.Fatalf("Strategy = %q", out.Strategy)
	}
	if out.Resolved {
		t.Fatal("manual review must not resolve automatically")
	}
	if out.RepairedText != annotated {
		t.Errorf("manual review must not change text")
	}
}
