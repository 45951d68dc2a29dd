package usecase

import "testing"

func TestSimilarityRatio(t *testing.T) {
	if got := similarityRatio("weight", "weight"); got != 100 {
		t.Errorf("identical strings = %.1f, want 100", got)
	}
	if got := similarityRatio("weight", "zzzzzz"); got != 0 {
		t.Errorf("disjoint strings = %.1f, want 0", got)
	}

	got := similarityRatio("ingredients", "ingrediants")
	if got <= 85 || got >= 100 {
		t.Errorf("one-substitution ratio = %.1f, want between 85 and 100", got)
	}
}

func TestPartialRatio(t *testing.T) {
	t.Run("substring scores 100", func(t *testing.T) {
		if got := partialRatio("Weight", "NET Weight 200G"); got != 100 {
			t.Errorf("partialRatio = %.1f, want 100", got)
		}
	})

	t.Run("symmetric in argument order", func(t *testing.T) {
		a := partialRatio("Weight", "NET Weight 200G")
		b := partialRatio("NET Weight 200G", "Weight")
		if a != b {
			t.Errorf("partialRatio not symmetric: %.1f vs %.1f", a, b)
		}
	})

	t.Run("equal length falls back to plain ratio", func(t *testing.T) {
		if got := partialRatio("abc", "abc"); got != 100 {
			t.Errorf("partialRatio = %.1f, want 100", got)
		}
	})

	t.Run("empty input scores zero", func(t *testing.T) {
		if got := partialRatio("", "anything"); got != 0 {
			t.Errorf("partialRatio = %.1f, want 0", got)
		}
	})
}

func TestBestMatch(t *testing.T) {
	t.Run("picks the highest scorer", func(t *testing.T) {
		match, score, ok := bestMatch("weight", []string{"height", "weight", "width"}, similarityRatio)
		if !ok || match != "weight" || score != 100 {
			t.Errorf("bestMatch = %q %.1f %v", match, score, ok)
		}
	})

	t.Run("first of tied candidates wins", func(t *testing.T) {
		match, _, ok := bestMatch("zz", []string{"aa", "bb"}, similarityRatio)
		if !ok || match != "aa" {
			t.Errorf("bestMatch = %q, want first candidate", match)
		}
	})

	t.Run("empty candidate list", func(t *testing.T) {
		if _, _, ok := bestMatch("query", nil, similarityRatio); ok {
			t.Error("bestMatch should report ok=false for no candidates")
		}
	})
}
