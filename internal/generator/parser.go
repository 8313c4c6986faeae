package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// GeneratedTrivia is one parsed and validated trivia question.
type GeneratedTrivia struct {
	Question        string         `json:"question"`
	Choices         []TriviaChoice `json:"choices"`
	CorrectAnswerID string         `json:"correct_answer_id"`
	Reference       string         `json:"reference"`
}

type TriviaChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes and validates a model response. Markdown fences
// around the JSON are tolerated.
func ParseResponse(responseBody string) (*GeneratedTrivia, error) {
	cleaned := stripCodeFences(responseBody)

	var trivia GeneratedTrivia
	if err := json.Unmarshal([]byte(cleaned), &trivia); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateTrivia(&trivia); err != nil {
		return nil, err
	}

	return &trivia, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var expectedChoiceIDs = []string{"A", "B", "C", "D"}

// referencePattern accepts "John 3:16" and numbered books like "1 Kings 2:3".
var referencePattern = regexp.MustCompile(`^(?:\d\s+)?[A-Za-z][A-Za-z ]*\s+\d+:\d+$`)

func validateTrivia(t *GeneratedTrivia) error {
	var errs []string

	if strings.TrimSpace(t.Question) == "" {
		errs = append(errs, "question is empty")
	}

	if len(t.Choices) != len(expectedChoiceIDs) {
		errs = append(errs, fmt.Sprintf("expected %d choices, got %d", len(expectedChoiceIDs), len(t.Choices)))
	} else {
		for i, c := range t.Choices {
			if c.ID != expectedChoiceIDs[i] {
				errs = append(errs, fmt.Sprintf("choice %d has id %q, expected %q", i+1, c.ID, expectedChoiceIDs[i]))
			}
			if strings.TrimSpace(c.Text) == "" {
				errs = append(errs, fmt.Sprintf("choice %s has empty text", expectedChoiceIDs[i]))
			}
		}
	}

	validCorrect := false
	for _, id := range expectedChoiceIDs {
		if t.CorrectAnswerID == id {
			validCorrect = true
			break
		}
	}
	if !validCorrect {
		errs = append(errs, fmt.Sprintf("invalid correct_answer_id %q", t.CorrectAnswerID))
	}

	if !referencePattern.MatchString(strings.TrimSpace(t.Reference)) {
		errs = append(errs, fmt.Sprintf("reference %q is not in Book Chapter:Verse form", t.Reference))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
