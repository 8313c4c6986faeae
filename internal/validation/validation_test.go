package validation

import (
	"math"
	"testing"
)

func TestValidateFillBlank(t *testing.T) {
	tests := []struct {
		user          string
		correct       string
		caseSensitive bool
		want          bool
	}{
		{"Love.", "love", false, true},
		{"LOVE", "love", true, false},
		{"love", "love", true, true},
		{"  shepherd  ", "shepherd", false, true},
		{"shepherd,", "shepherd", false, true},
		{"faith!", "faith?", false, true},
		{"", "love", false, false},
		{"love", "", false, false},
		{"hope", "love", false, false},
	}

	for _, tt := range tests {
		got := ValidateFillBlank(tt.user, tt.correct, tt.caseSensitive)
		if got != tt.want {
			t.Errorf("ValidateFillBlank(%q, %q, %v) = %v, want %v", tt.user, tt.correct, tt.caseSensitive, got, tt.want)
		}
	}
}

func TestValidateMultipleFillBlanks(t *testing.T) {
	res := ValidateMultipleFillBlanks([]string{"God", "world"}, []string{"god", "world"}, false)
	if !res.IsCorrect || res.CorrectCount != 2 || res.TotalCount != 2 {
		t.Errorf("all-correct result = %+v", res)
	}

	res = ValidateMultipleFillBlanks([]string{"God", "earth"}, []string{"god", "world"}, false)
	if res.IsCorrect || res.CorrectCount != 1 || res.TotalCount != 2 {
		t.Errorf("partial result = %+v", res)
	}

	// Length mismatch is a full miss, not an error.
	res = ValidateMultipleFillBlanks([]string{"God"}, []string{"god", "world"}, false)
	if res.IsCorrect || res.CorrectCount != 0 || res.TotalCount != 2 {
		t.Errorf("length mismatch result = %+v", res)
	}
}

func TestValidateMultipleChoice(t *testing.T) {
	if !ValidateMultipleChoice("B", "B") {
		t.Error("string identifiers should match")
	}
	if !ValidateMultipleChoice(2, "2") {
		t.Error("numeric vs string identifiers should match")
	}
	if !ValidateMultipleChoice(" 3 ", 3) {
		t.Error("whitespace-padded identifiers should match")
	}
	if ValidateMultipleChoice("A", "B") {
		t.Error("different identifiers should not match")
	}
}

func TestMatchBiblicalReference(t *testing.T) {
	tests := []struct {
		user    string
		correct string
		want    bool
	}{
		{"Psalms 23:1", "Psalm 23:1", true},
		{"1Samuel 1:1", "1 Samuel 1:1", true},
		{"john 3:16", "John 3:16", true},
		{"John  3:16", "John 3:16", true},
		{"Song of Solomon 2:1", "Song of Songs 2:1", true},
		{"2Corinthians 5:17", "2 Corinthians 5:17", true},
		{"John 3:17", "John 3:16", false},
		{"John 4:16", "John 3:16", false},
		{"Luke 3:16", "John 3:16", false},
		{"not a reference", "John 3:16", false},
		{"", "John 3:16", false},
	}

	for _, tt := range tests {
		got := MatchBiblicalReference(tt.user, tt.correct)
		if got != tt.want {
			t.Errorf("MatchBiblicalReference(%q, %q) = %v, want %v", tt.user, tt.correct, got, tt.want)
		}
	}
}

func TestCalculateSimilarity(t *testing.T) {
	if got := CalculateSimilarity("Shepherd", "shepherd"); got != 1 {
		t.Errorf("identical after normalize = %v, want 1", got)
	}

	if got := CalculateSimilarity("", "abc"); got != 0 {
		t.Errorf("empty input = %v, want 0", got)
	}

	// "abcd" vs "abcf": 3 of 4 positions match.
	if got := CalculateSimilarity("abcd", "abcf"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("CalculateSimilarity(abcd, abcf) = %v, want 0.75", got)
	}

	// Positional, not edit distance: a shifted string scores near zero.
	if got := CalculateSimilarity("xabc", "abcx"); got > 0.25 {
		t.Errorf("shifted string similarity = %v, want low", got)
	}

	// Divided by the longer length.
	if got := CalculateSimilarity("ab", "abcdef"); math.Abs(got-2.0/6.0) > 1e-9 {
		t.Errorf("CalculateSimilarity(ab, abcdef) = %v, want %v", got, 2.0/6.0)
	}
}

func TestIsCloseAnswer(t *testing.T) {
	// A dropped letter shifts every later position: 4/8 matches = 0.5.
	if IsCloseAnswer("sheperd", "shepherd", DefaultCloseThreshold) {
		t.Error("IsCloseAnswer(sheperd, shepherd) = true, want false")
	}
	// A single substituted trailing letter keeps 7/8 positions.
	if !IsCloseAnswer("shepherB", "shepherd", DefaultCloseThreshold) {
		t.Error("IsCloseAnswer(shepherB, shepherd) = false, want true")
	}

	if !IsCloseAnswer("shepherd", "shepherd", DefaultCloseThreshold) {
		t.Error("exact answer should always be close")
	}
	if IsCloseAnswer("lion", "shepherd", DefaultCloseThreshold) {
		t.Error("unrelated answer should not be close")
	}
}
