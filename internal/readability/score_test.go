package readability

import "testing"

func TestGradeLevel_ZeroGuard(t *testing.T) {
	if got := GradeLevel(Stats{}); got != 0 {
		t.Fatalf("GradeLevel(zero stats) = %v, want 0", got)
	}
	if got := EaseScore(Stats{WordCount: 5}); got != 0 {
		t.Fatalf("EaseScore(no sentences) = %v, want 0", got)
	}
}

func TestScoreText_SimpleTextIsLowGrade(t *testing.T) {
	sc := ScoreText("This is a simple test. The text is easy to read.")

	if sc.GradeLevel > 2.0 {
		t.Errorf("GradeLevel = %v, want <= 2.0", sc.GradeLevel)
	}
	if sc.SentenceCount != 2 {
		t.Errorf("SentenceCount = %d, want 2", sc.SentenceCount)
	}
	if sc.EaseScore < 80 {
		t.Errorf("EaseScore = %v, want easy (>= 80)", sc.EaseScore)
	}
}

func TestScoreText_Idempotent(t *testing.T) {
	text := "The practice activates the vagus nerve through vocalization, creating a neurological state of trust."
	a := ScoreText(text)
	b := ScoreText(text)
	if a != b {
		t.Fatalf("scoring is not stable: %+v vs %+v", a, b)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		grade, ease float64
		want        string
	}{
		{3.0, 90, "easy"},
		{8.0, 65, "moderate"},
		{11.0, 50, "difficult"},
		{14.0, 20, "very_difficult"},
		{5.0, 50, "difficult"},
	}
	for _, c := range cases {
		if got := Categorize(c.grade, c.ease); got != c.want {
			t.Errorf("Categorize(%v, %v) = %q, want %q", c.grade, c.ease, got, c.want)
		}
	}
}

func TestJargonDensity(t *testing.T) {
	if got := JargonDensity(5, 100); got != 5.0 {
		t.Errorf("JargonDensity(5, 100) = %v, want 5.0", got)
	}
	if got := JargonDensity(3, 0); got != 0 {
		t.Errorf("JargonDensity with zero words = %v, want 0", got)
	}
}

func TestSimplificationPriority_Caps(t *testing.T) {
	got := SimplificationPriority(15, 20, "advanced", "neural-rewiring")
	if got != 100 {
		t.Errorf("max-everything priority = %d, want 100", got)
	}
	if got := SimplificationPriority(2, 0, "", ""); got != 0 {
		t.Errorf("min-everything priority = %d, want 0", got)
	}
}
