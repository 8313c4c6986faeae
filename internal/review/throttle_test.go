package review

import (
	"testing"
	"time"

	"github.com/sword-drill/backend/internal/models"
)

var policyNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func completion(ref string, at time.Time, paid bool) models.ReviewCompletion {
	return models.ReviewCompletion{Reference: ref, CompletedAt: at, IsPaid: paid}
}

func TestEvaluatePolicy_CleanHistory(t *testing.T) {
	p := EvaluatePolicy(nil, "John 3:16", true, policyNow)

	if !p.CanEarn {
		t.Error("empty history should allow earning")
	}
	if p.Multiplier != 1.0 {
		t.Errorf("Multiplier = %v, want 1.0", p.Multiplier)
	}
	if len(p.Reasons) != 0 {
		t.Errorf("Reasons = %v, want none", p.Reasons)
	}
}

func TestEvaluatePolicy_Cooldown(t *testing.T) {
	history := []models.ReviewCompletion{
		completion("John 3:16", policyNow.Add(-2*time.Minute), true),
	}
	p := EvaluatePolicy(history, "John 3:16", true, policyNow)

	if p.CanEarn {
		t.Error("completion 2 minutes ago should block earning")
	}
	if !p.CooldownActive {
		t.Error("CooldownActive should be set")
	}
	// 3 minutes remain; the recent completion also halves the reward.
	if p.Multiplier != 0.5 {
		t.Errorf("Multiplier = %v, want 0.5", p.Multiplier)
	}
	if len(p.Reasons) != 2 {
		t.Errorf("Reasons = %v, want cooldown plus repeat notice", p.Reasons)
	}
}

func TestEvaluatePolicy_CooldownOnlyForSameReference(t *testing.T) {
	history := []models.ReviewCompletion{
		completion("Psalm 23:1", policyNow.Add(-1*time.Minute), true),
	}
	p := EvaluatePolicy(history, "John 3:16", true, policyNow)

	if !p.CanEarn || p.CooldownActive {
		t.Errorf("other reference should not trip the cooldown: %+v", p)
	}
}

func TestEvaluatePolicy_DailyCap(t *testing.T) {
	var history []models.ReviewCompletion
	for i := 0; i < DailyPaidLimit; i++ {
		history = append(history, completion("Genesis 1:1", policyNow.Add(-time.Duration(i+1)*time.Hour), true))
	}
	p := EvaluatePolicy(history, "John 3:16", true, policyNow)

	if p.CanEarn || !p.DailyCapReached {
		t.Errorf("10 paid completions today should hit the cap: %+v", p)
	}

	// Practice mode ignores the cap.
	p = EvaluatePolicy(history, "John 3:16", false, policyNow)
	if !p.CanEarn || p.DailyCapReached {
		t.Errorf("practice mode should ignore the cap: %+v", p)
	}
}

func TestEvaluatePolicy_CapCountsFromMidnight(t *testing.T) {
	// Ten paid completions late yesterday must not count today.
	yesterday := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	var history []models.ReviewCompletion
	for i := 0; i < DailyPaidLimit; i++ {
		history = append(history, completion("Genesis 1:1", yesterday.Add(-time.Duration(i)*time.Minute), true))
	}
	p := EvaluatePolicy(history, "John 3:16", true, policyNow)

	if !p.CanEarn || p.DailyCapReached {
		t.Errorf("yesterday's completions should not count toward today's cap: %+v", p)
	}
}

func TestEvaluatePolicy_DiminishingDoesNotBlock(t *testing.T) {
	history := []models.ReviewCompletion{
		completion("John 3:16", policyNow.Add(-2*time.Hour), true),
	}
	p := EvaluatePolicy(history, "John 3:16", true, policyNow)

	if !p.CanEarn {
		t.Error("diminishing returns alone should not block earning")
	}
	if p.Multiplier != 0.5 {
		t.Errorf("Multiplier = %v, want 0.5", p.Multiplier)
	}
	if p.RecentCompletions != 1 {
		t.Errorf("RecentCompletions = %d, want 1", p.RecentCompletions)
	}
	if len(p.Reasons) != 1 {
		t.Errorf("Reasons = %v, want just the repeat notice", p.Reasons)
	}
}

func TestEvaluatePolicy_OldCompletionsFallOutOfWindow(t *testing.T) {
	history := []models.ReviewCompletion{
		completion("John 3:16", policyNow.Add(-25*time.Hour), true),
	}
	p := EvaluatePolicy(history, "John 3:16", true, policyNow)

	if p.Multiplier != 1.0 || p.RecentCompletions != 0 {
		t.Errorf("25h-old completion should not diminish: %+v", p)
	}
}

func TestDiminishingMultiplier(t *testing.T) {
	tests := []struct {
		recent int
		want   float64
	}{
		{0, 1.0},
		{1, 0.5},
		{2, 0.1},
		{3, 0.1},
		{10, 0.1},
	}
	for _, tt := range tests {
		if got := DiminishingMultiplier(tt.recent); got != tt.want {
			t.Errorf("DiminishingMultiplier(%d) = %v, want %v", tt.recent, got, tt.want)
		}
	}
}

func TestMinimumTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{1, 10},  // 1.5s floored below the 10s floor
		{5, 10},  // 7.5 -> 7 -> clamped up
		{10, 15},
		{15, 22}, // 22.5 floored
		{20, 30},
		{40, 30}, // clamped down
	}
	for _, tt := range tests {
		if got := MinimumTime(tt.words); got != tt.want {
			t.Errorf("MinimumTime(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestHintCost_Curve(t *testing.T) {
	want := []int{30, 50, 100, 200, 350, 500, 500}
	for used, cost := range want {
		if got := HintCost(used); got != cost {
			t.Errorf("HintCost(%d) = %d, want %d", used, got, cost)
		}
	}
}

func TestCalculateReward_Base(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		common bool
		want   int
	}{
		{"uncommon 15 words", 15, false, 500},
		{"common 15 words", 15, true, 200},
		{"common short verse floor", 3, true, 50},
		{"uncommon short verse floor", 2, false, 100},
	}
	for _, tt := range tests {
		got := CalculateReward(tt.words, tt.common, 0, 0, 60, 1.0, false)
		if got != tt.want {
			t.Errorf("%s: reward = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCalculateReward_Hints(t *testing.T) {
	// Free hints halve the base.
	if got := CalculateReward(15, false, 2, 0, 60, 1.0, false); got != 250 {
		t.Errorf("free-hint reward = %d, want 250", got)
	}
	// Any paid hint replaces the base with the flat rate.
	if got := CalculateReward(15, false, 3, 2, 60, 1.0, false); got != PaidHintReward {
		t.Errorf("paid-hint reward = %d, want %d", got, PaidHintReward)
	}
}

func TestCalculateReward_Reductions(t *testing.T) {
	// Diminishing returns stack on the base.
	if got := CalculateReward(15, false, 0, 0, 60, 0.5, false); got != 250 {
		t.Errorf("diminished reward = %d, want 250", got)
	}
	// Finishing under the minimum time halves the reward. 15 words needs 22s.
	if got := CalculateReward(15, false, 0, 0, 5, 1.0, false); got != 250 {
		t.Errorf("too-fast reward = %d, want 250", got)
	}
	// Suppression cuts to a tenth.
	if got := CalculateReward(15, false, 0, 0, 60, 1.0, true); got != 50 {
		t.Errorf("suppressed reward = %d, want 50", got)
	}
	// Everything at once still pays at least 1.
	if got := CalculateReward(3, true, 1, 0, 2, 0.1, true); got != 1 {
		t.Errorf("fully reduced reward = %d, want 1", got)
	}
}
