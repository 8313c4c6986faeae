// Package validation checks free-text quiz answers: exact-after-normalize
// matching for fill-in-the-blank, fuzzy matching for biblical references,
// and a crude positional similarity used for "close enough" hints.
//
// None of these functions return errors. Missing or malformed input is a
// non-match, never a failure.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var punctuationReplacer = strings.NewReplacer(".", "", ",", "", ";", "", ":", "", "!", "", "?", "")

// ValidateFillBlank compares a single fill-in-the-blank answer against the
// expected word. Both sides are trimmed and stripped of punctuation, and
// lower-cased unless caseSensitive is set.
func ValidateFillBlank(userAnswer, correctAnswer string, caseSensitive bool) bool {
	if userAnswer == "" || correctAnswer == "" {
		return false
	}

	normalize := func(s string) string {
		normalized := punctuationReplacer.Replace(strings.TrimSpace(s))
		if !caseSensitive {
			normalized = strings.ToLower(normalized)
		}
		return normalized
	}

	return normalize(userAnswer) == normalize(correctAnswer)
}

// MultiBlankResult reports per-slot results for a multi-blank validation.
type MultiBlankResult struct {
	IsCorrect    bool `json:"is_correct"`
	CorrectCount int  `json:"correct_count"`
	TotalCount   int  `json:"total_count"`
}

// ValidateMultipleFillBlanks checks each slot of a multi-blank quiz.
// Mismatched array lengths are a full miss, not an error.
func ValidateMultipleFillBlanks(userAnswers, correctAnswers []string, caseSensitive bool) MultiBlankResult {
	if len(userAnswers) != len(correctAnswers) {
		return MultiBlankResult{IsCorrect: false, CorrectCount: 0, TotalCount: len(correctAnswers)}
	}

	correctCount := 0
	for i := range userAnswers {
		if ValidateFillBlank(userAnswers[i], correctAnswers[i], caseSensitive) {
			correctCount++
		}
	}

	return MultiBlankResult{
		IsCorrect:    correctCount == len(correctAnswers),
		CorrectCount: correctCount,
		TotalCount:   len(correctAnswers),
	}
}

// ValidateMultipleChoice compares option identifiers, which may be numeric
// or string-valued on either side.
func ValidateMultipleChoice(userAnswer, correctAnswer interface{}) bool {
	return strings.TrimSpace(fmt.Sprint(userAnswer)) == strings.TrimSpace(fmt.Sprint(correctAnswer))
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// bookPrefixes canonicalizes common book-name variants. Applied in order
// after lowercasing, so patterns only need the lowercase form.
var bookPrefixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`^psalms`), "psalm"},
	{regexp.MustCompile(`^song of solomon`), "song"},
	{regexp.MustCompile(`^song of songs`), "song"},
	{regexp.MustCompile(`^1\s*samuel`), "1 samuel"},
	{regexp.MustCompile(`^2\s*samuel`), "2 samuel"},
	{regexp.MustCompile(`^1\s*kings`), "1 kings"},
	{regexp.MustCompile(`^2\s*kings`), "2 kings"},
	{regexp.MustCompile(`^1\s*chronicles`), "1 chronicles"},
	{regexp.MustCompile(`^2\s*chronicles`), "2 chronicles"},
	{regexp.MustCompile(`^1\s*corinthians`), "1 corinthians"},
	{regexp.MustCompile(`^2\s*corinthians`), "2 corinthians"},
	{regexp.MustCompile(`^1\s*thessalonians`), "1 thessalonians"},
	{regexp.MustCompile(`^2\s*thessalonians`), "2 thessalonians"},
	{regexp.MustCompile(`^1\s*timothy`), "1 timothy"},
	{regexp.MustCompile(`^2\s*timothy`), "2 timothy"},
	{regexp.MustCompile(`^1\s*peter`), "1 peter"},
	{regexp.MustCompile(`^2\s*peter`), "2 peter"},
	{regexp.MustCompile(`^1\s*john`), "1 john"},
	{regexp.MustCompile(`^2\s*john`), "2 john"},
	{regexp.MustCompile(`^3\s*john`), "3 john"},
}

func normalizeReference(ref string) string {
	normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(ref)), " ")
	for _, p := range bookPrefixes {
		normalized = p.re.ReplaceAllString(normalized, p.repl)
	}
	return normalized
}

var referenceRe = regexp.MustCompile(`^((?:\d\s+)?[a-z]+)\s+(\d+):(\d+)$`)

type parsedReference struct {
	book    string
	chapter string
	verse   string
}

func parseReference(ref string) (parsedReference, bool) {
	m := referenceRe.FindStringSubmatch(ref)
	if m == nil {
		return parsedReference{}, false
	}
	return parsedReference{book: strings.TrimSpace(m[1]), chapter: m[2], verse: m[3]}, true
}

// MatchBiblicalReference fuzzily compares two verse references, tolerating
// variants like "Psalms 23:1" vs "Psalm 23:1" or "1Samuel 1:1" vs
// "1 Samuel 1:1". If normalized strings differ, both sides are parsed into
// book/chapter/verse and must agree component-wise.
func MatchBiblicalReference(userAnswer, correctAnswer string) bool {
	userNormalized := normalizeReference(userAnswer)
	correctNormalized := normalizeReference(correctAnswer)

	if userNormalized == correctNormalized {
		return true
	}

	userParsed, ok1 := parseReference(userNormalized)
	correctParsed, ok2 := parseReference(correctNormalized)
	if ok1 && ok2 {
		return userParsed.chapter == correctParsed.chapter &&
			userParsed.verse == correctParsed.verse &&
			userParsed.book == correctParsed.book
	}

	return false
}

// CalculateSimilarity scores two strings in [0, 1] by counting position-wise
// matching characters over the longer string's length. Not an edit
// distance: transposed text scores low.
func CalculateSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	s1 := []rune(strings.TrimSpace(strings.ToLower(a)))
	s2 := []rune(strings.TrimSpace(strings.ToLower(b)))

	if string(s1) == string(s2) {
		return 1
	}

	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 0
	}

	shorter := len(s1)
	if len(s2) < shorter {
		shorter = len(s2)
	}

	matches := 0
	for i := 0; i < shorter; i++ {
		if s1[i] == s2[i] {
			matches++
		}
	}

	return float64(matches) / float64(maxLen)
}

// DefaultCloseThreshold is the similarity cutoff for IsCloseAnswer.
const DefaultCloseThreshold = 0.7

// IsCloseAnswer reports whether an answer is close enough to the correct
// one to warrant a hint rather than a flat rejection.
func IsCloseAnswer(userAnswer, correctAnswer string, threshold float64) bool {
	return CalculateSimilarity(userAnswer, correctAnswer) >= threshold
}
