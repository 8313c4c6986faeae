package progress

import (
	"testing"
	"time"

	"github.com/sword-drill/backend/internal/models"
)

func dateAt(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestTouchStreak_FirstActivity(t *testing.T) {
	p := &models.UserProgress{}
	broken := touchStreak(p, time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC))

	if broken {
		t.Error("first activity should not break anything")
	}
	if p.CurrentStreak != 1 || p.LongestStreak != 1 {
		t.Errorf("streak = %d/%d, want 1/1", p.CurrentStreak, p.LongestStreak)
	}
	if p.LastActiveDate == nil || !p.LastActiveDate.Equal(*dateAt(2026, 3, 10)) {
		t.Errorf("last active = %v, want 2026-03-10", p.LastActiveDate)
	}
}

func TestTouchStreak_SameDayIsNoop(t *testing.T) {
	p := &models.UserProgress{CurrentStreak: 5, LongestStreak: 5, LastActiveDate: dateAt(2026, 3, 10)}
	broken := touchStreak(p, time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))

	if broken || p.CurrentStreak != 5 {
		t.Errorf("same-day activity changed streak: broken=%v streak=%d", broken, p.CurrentStreak)
	}
}

func TestTouchStreak_ConsecutiveDay(t *testing.T) {
	p := &models.UserProgress{CurrentStreak: 5, LongestStreak: 8, LastActiveDate: dateAt(2026, 3, 9)}
	broken := touchStreak(p, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	if broken || p.CurrentStreak != 6 {
		t.Errorf("consecutive day: broken=%v streak=%d, want 6", broken, p.CurrentStreak)
	}
	if p.LongestStreak != 8 {
		t.Errorf("longest = %d, want 8", p.LongestStreak)
	}
}

func TestTouchStreak_FreezeCoversOneMissedDay(t *testing.T) {
	p := &models.UserProgress{
		CurrentStreak:      10,
		LongestStreak:      10,
		LastActiveDate:     dateAt(2026, 3, 8),
		StreakFreezesOwned: 2,
		StreakFreezeActive: true,
	}
	broken := touchStreak(p, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	if broken {
		t.Error("freeze should preserve the streak")
	}
	if p.CurrentStreak != 11 {
		t.Errorf("streak = %d, want 11", p.CurrentStreak)
	}
	if p.StreakFreezesOwned != 1 || p.StreakFreezeActive {
		t.Errorf("freeze not consumed: owned=%d active=%v", p.StreakFreezesOwned, p.StreakFreezeActive)
	}
	if p.LongestStreak != 11 {
		t.Errorf("longest = %d, want 11", p.LongestStreak)
	}
}

func TestTouchStreak_BreaksWithoutFreeze(t *testing.T) {
	p := &models.UserProgress{CurrentStreak: 10, LongestStreak: 10, LastActiveDate: dateAt(2026, 3, 5)}
	broken := touchStreak(p, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	if !broken {
		t.Error("multi-day gap with no freeze should break the streak")
	}
	if p.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", p.CurrentStreak)
	}
	if p.LongestStreak != 10 {
		t.Errorf("longest = %d, want 10 (preserved)", p.LongestStreak)
	}
}

func TestTouchStreak_OneDayStreakBreaksQuietly(t *testing.T) {
	// A 1-day streak resetting to 1 is not a meaningful break; no penalty.
	p := &models.UserProgress{CurrentStreak: 1, LongestStreak: 3, LastActiveDate: dateAt(2026, 3, 1)}
	broken := touchStreak(p, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	if broken {
		t.Error("resetting a 1-day streak should not count as broken")
	}
}

func TestGradeAnswers_FillBlank(t *testing.T) {
	req := models.SubmitQuizRequest{
		QuizType:       "fill-blank",
		UserAnswers:    []string{"love", "World"},
		CorrectAnswers: []string{"Love", "world"},
	}
	ok, correct, total := gradeAnswers(req)
	if !ok || correct != 2 || total != 2 {
		t.Errorf("fill-blank grade = %v %d/%d, want true 2/2", ok, correct, total)
	}

	req.UserAnswers = []string{"love", "earth"}
	ok, correct, total = gradeAnswers(req)
	if ok || correct != 1 || total != 2 {
		t.Errorf("partial fill-blank grade = %v %d/%d, want false 1/2", ok, correct, total)
	}
}

func TestGradeAnswers_ReferenceRecall(t *testing.T) {
	req := models.SubmitQuizRequest{
		QuizType:       "reference-recall",
		UserAnswers:    []string{"Psalms 23:1"},
		CorrectAnswers: []string{"Psalm 23:1"},
	}
	ok, correct, total := gradeAnswers(req)
	if !ok || correct != 1 || total != 1 {
		t.Errorf("reference grade = %v %d/%d, want true 1/1", ok, correct, total)
	}
}

func TestGradeAnswers_MultipleChoiceDefault(t *testing.T) {
	req := models.SubmitQuizRequest{
		QuizType:       "multiple-choice",
		UserAnswers:    []string{" B "},
		CorrectAnswers: []string{"B"},
	}
	ok, _, _ := gradeAnswers(req)
	if !ok {
		t.Error("trimmed choice should match")
	}

	req.UserAnswers = nil
	ok, correct, total := gradeAnswers(req)
	if ok || correct != 0 || total != 1 {
		t.Errorf("empty answers grade = %v %d/%d, want false 0/1", ok, correct, total)
	}
}
