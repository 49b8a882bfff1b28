package patch

import (
	"strings"
	"testing"
)

const sentence = "The quick brown fox jumps over the lazy dog."

func TestFindBestMatchExactPriority(t *testing.T) {
	cand, ok := FindBestMatch(sentence, "quick brown fox", 0.7)
	if !ok {
		t.Fatalf("expected a match")
	}
	if cand.Strategy != StrategyExact {
		t.Fatalf("strategy = %q, want exact", cand.Strategy)
	}
	if cand.Similarity != 1.0 {
		t.Fatalf("similarity = %f, want 1.0", cand.Similarity)
	}
	if cand.Index != strings.Index(sentence, "quick brown fox") {
		t.Fatalf("index = %d, want first occurrence", cand.Index)
	}
	if cand.MatchedText != "quick brown fox" {
		t.Fatalf("matchedText = %q", cand.MatchedText)
	}
}

func TestFindBestMatchNormalized(t *testing.T) {
	content := "彼は速い　狐を見ていた。"
	cand, ok := FindBestMatch(content, "速い 狐", 0.7)
	if !ok {
		t.Fatalf("expected a normalized match")
	}
	if cand.Strategy != StrategyNormalized {
		t.Fatalf("strategy = %q, want normalized", cand.Strategy)
	}
	if cand.Similarity != 0.95 {
		t.Fatalf("similarity = %f, want 0.95", cand.Similarity)
	}
	if cand.MatchedText != "速い　狐" {
		t.Fatalf("matchedText = %q, want the original full-width span", cand.MatchedText)
	}
	if content[cand.Index:cand.Index+len(cand.MatchedText)] != cand.MatchedText {
		t.Fatalf("candidate does not address the original buffer")
	}
}

func TestFindBestMatchNormalizedWhitespaceDrift(t *testing.T) {
	content := "First line.\r\nSecond   line follows."
	cand, ok := FindBestMatch(content, "First line. Second line", 0.7)
	if !ok {
		t.Fatalf("expected a normalized match across whitespace drift")
	}
	if cand.Strategy != StrategyNormalized {
		t.Fatalf("strategy = %q, want normalized", cand.Strategy)
	}
	if content[cand.Index:cand.Index+len(cand.MatchedText)] != cand.MatchedText {
		t.Fatalf("candidate does not address the original buffer")
	}
	if !strings.HasPrefix(cand.MatchedText, "First line.") {
		t.Fatalf("matchedText = %q", cand.MatchedText)
	}
}

func TestFindBestMatchFuzzy(t *testing.T) {
	cand, ok := FindBestMatch(sentence, "quikc brown fox", 0.6)
	if !ok {
		t.Fatalf("expected a fuzzy match")
	}
	if cand.Strategy != StrategyFuzzy {
		t.Fatalf("strategy = %q, want fuzzy", cand.Strategy)
	}
	if cand.Similarity <= 0.6 || cand.Similarity >= 1 {
		t.Fatalf("similarity = %f, want within (0.6, 1)", cand.Similarity)
	}
	if cand.MatchedText != "quick brown fox" {
		t.Fatalf("matchedText = %q, want the literal document span", cand.MatchedText)
	}
	if sentence[cand.Index:cand.Index+len(cand.MatchedText)] != cand.MatchedText {
		t.Fatalf("candidate does not address the original buffer")
	}
}

func TestFindBestMatchRejectsBelowThreshold(t *testing.T) {
	if _, ok := FindBestMatch(sentence, "nonexistent phrase entirely absent", 0.7); ok {
		t.Fatalf("expected no match")
	}
}

func TestFindBestMatchStrictThresholdSkipsNormalized(t *testing.T) {
	content := "彼は速い　狐を見ていた。"
	if _, ok := FindBestMatch(content, "速い 狐", 1.0); ok {
		t.Fatalf("threshold 1.0 must reject the discounted normalized tier")
	}
}

func TestFindBestMatchEmptyNeedle(t *testing.T) {
	cand, ok := FindBestMatch(sentence, "", 0.7)
	if !ok {
		t.Fatalf("empty needle matches at offset zero, as substring search defines it")
	}
	if cand.Index != 0 || cand.Strategy != StrategyExact {
		t.Fatalf("cand = %+v", cand)
	}
}
