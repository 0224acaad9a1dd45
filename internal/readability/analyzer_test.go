package readability

import "testing"

func TestCountSyllables(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"amygdala", 4},
		{"nerve", 1},
		{"simple", 1},
		{"easy", 2},
		{"the", 1},
		{"code", 1},
		{"rhythm", 1},
		{"bcd", 1},
		{"", 0},
		{"123", 0},
		{"NEUROPLASTICITY", 6},
	}
	for _, c := range cases {
		if got := CountSyllables(c.word); got != c.want {
			t.Errorf("CountSyllables(%q) = %d, want %d", c.word, got, c.want)
		}
	}
}

func TestCountSentences(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"One. Two. Three.", 3},
		{"Dr. Smith arrived. He left!", 2},
		// The shield keeps an abbreviation's trailing period from ending a
		// sentence; the dot inside "e.g." still splits. Frozen behavior.
		{"e.g. this is one sentence", 2},
		{"Rest, e.g. a short nap, helps. Then work.", 3},
		{"No terminal punctuation", 1},
		{"", 1},
		{"What?! Really?", 2},
	}
	for _, c := range cases {
		if got := CountSentences(c.text); got != c.want {
			t.Errorf("CountSentences(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestAnalyzeComplexity_StripsMarkdown(t *testing.T) {
	plain := AnalyzeComplexity("The amygdala reacts fast.")
	marked := AnalyzeComplexity("## The **amygdala** reacts [fast](https://example.com).")

	if plain != marked {
		t.Fatalf("markdown should not change counts: plain=%+v marked=%+v", plain, marked)
	}
}

func TestAnalyzeComplexity_SimpleText(t *testing.T) {
	stats := AnalyzeComplexity("This is a simple test. The text is easy to read.")

	if stats.WordCount != 11 {
		t.Errorf("WordCount = %d, want 11", stats.WordCount)
	}
	if stats.SentenceCount != 2 {
		t.Errorf("SentenceCount = %d, want 2", stats.SentenceCount)
	}
	if stats.SyllableCount != 12 {
		t.Errorf("SyllableCount = %d, want 12", stats.SyllableCount)
	}
}
