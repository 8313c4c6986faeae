package generator

import (
	"strings"
	"testing"
)

const validTrivia = `{
	"question": "Who interpreted Pharaoh's dreams of seven fat and seven lean cows?",
	"choices": [
		{"id": "A", "text": "Moses"},
		{"id": "B", "text": "Joseph"},
		{"id": "C", "text": "Daniel"},
		{"id": "D", "text": "Aaron"}
	],
	"correct_answer_id": "B",
	"reference": "Genesis 41:25"
}`

func TestParseResponse_Valid(t *testing.T) {
	trivia, err := ParseResponse(validTrivia)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if trivia.CorrectAnswerID != "B" {
		t.Errorf("CorrectAnswerID = %q, want B", trivia.CorrectAnswerID)
	}
	if len(trivia.Choices) != 4 {
		t.Errorf("got %d choices, want 4", len(trivia.Choices))
	}
	if trivia.Reference != "Genesis 41:25" {
		t.Errorf("Reference = %q", trivia.Reference)
	}
}

func TestParseResponse_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validTrivia + "\n```"
	if _, err := ParseResponse(fenced); err != nil {
		t.Errorf("fenced JSON should parse: %v", err)
	}

	bareFence := "```\n" + validTrivia + "\n```"
	if _, err := ParseResponse(bareFence); err != nil {
		t.Errorf("bare-fenced JSON should parse: %v", err)
	}
}

func TestParseResponse_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "here is your question!"},
		{"wrong choice count", strings.Replace(validTrivia, `{"id": "D", "text": "Aaron"}`, `{"id": "D", "text": "Aaron"}, {"id": "E", "text": "Samuel"}`, 1)},
		{"out of order ids", strings.Replace(validTrivia, `"id": "A"`, `"id": "Z"`, 1)},
		{"invalid correct id", strings.Replace(validTrivia, `"correct_answer_id": "B"`, `"correct_answer_id": "E"`, 1)},
		{"empty question", strings.Replace(validTrivia, `"question": "Who interpreted Pharaoh's dreams of seven fat and seven lean cows?"`, `"question": "  "`, 1)},
		{"bad reference", strings.Replace(validTrivia, `"reference": "Genesis 41:25"`, `"reference": "somewhere in Genesis"`, 1)},
	}

	for _, tt := range tests {
		if _, err := ParseResponse(tt.body); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestParseResponse_NumberedBookReference(t *testing.T) {
	body := strings.Replace(validTrivia, `"reference": "Genesis 41:25"`, `"reference": "1 Kings 17:6"`, 1)
	trivia, err := ParseResponse(body)
	if err != nil {
		t.Fatalf("numbered book reference should parse: %v", err)
	}
	if trivia.Reference != "1 Kings 17:6" {
		t.Errorf("Reference = %q", trivia.Reference)
	}
}

func TestMockClientProducesValidTrivia(t *testing.T) {
	resp, err := NewMockClient().Generate(nil, "", "")
	if err != nil {
		t.Fatalf("mock Generate() error: %v", err)
	}
	if _, err := ParseResponse(resp.Content); err != nil {
		t.Errorf("mock output failed validation: %v", err)
	}
}
