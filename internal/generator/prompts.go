package generator

import (
	"fmt"
	"time"
)

// TriviaSystemPrompt frames the model as a trivia writer and pins the
// output format.
func TriviaSystemPrompt() string {
	return `You are a Bible trivia writer for a scripture memorization app. You write
one multiple-choice question at a time, drawn from well-known narratives,
people, and places across the Old and New Testaments.

RULES:
- Exactly 4 answer choices with ids A, B, C, D, in that order.
- Exactly one choice is correct.
- Wrong choices must be plausible: real biblical people or places from a
  similar context, never invented names.
- The question must be answerable from the text itself, not from doctrine
  or interpretation.
- Include the supporting reference in "Book Chapter:Verse" form.

Respond with ONLY a JSON object, no markdown fences, no commentary:
{
  "question": "...",
  "choices": [
    {"id": "A", "text": "..."},
    {"id": "B", "text": "..."},
    {"id": "C", "text": "..."},
    {"id": "D", "text": "..."}
  ],
  "correct_answer_id": "A",
  "reference": "Genesis 41:25"
}`
}

// triviaThemes rotates through the week so consecutive days do not pull
// from the same corner of the canon.
var triviaThemes = []string{
	"the Pentateuch (Genesis through Deuteronomy)",
	"the historical books (Joshua through Esther)",
	"wisdom literature and the Psalms",
	"the major and minor prophets",
	"the Gospels",
	"Acts and the epistles",
	"people and places across the whole Bible",
}

// BuildTriviaUserPrompt asks for one question themed by day of week.
func BuildTriviaUserPrompt(date time.Time) string {
	theme := triviaThemes[int(date.Weekday())%len(triviaThemes)]
	return fmt.Sprintf(
		"Write one fresh trivia question from %s for %s. Medium difficulty: a regular churchgoer should find it challenging but fair.",
		theme, date.Format("Monday, January 2, 2006"),
	)
}
