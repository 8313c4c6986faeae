// Package review prices verse-reconstruction drills and throttles how
// fast they can be farmed for points. The policy side is pure: it reads a
// slice of past completions and a clock, never the database.
package review

import (
	"fmt"
	"math"
	"time"

	"github.com/sword-drill/backend/internal/models"
)

const (
	// CooldownPeriod blocks paid re-reviews of the same reference.
	CooldownPeriod = 5 * time.Minute

	// DailyPaidLimit caps paid completions counted from local midnight.
	DailyPaidLimit = 10

	// DiminishingWindow is how far back repeat completions of a reference
	// keep shrinking its reward.
	DiminishingWindow = 24 * time.Hour

	// MinDiminishingMultiplier is the floor on repeat-review rewards.
	MinDiminishingMultiplier = 0.1

	// PaidHintReward replaces the computed base outright once any paid
	// hint was bought.
	PaidHintReward = 800

	// SuppressedMultiplier is applied when a completion lands while the
	// cooldown or the daily cap is active.
	SuppressedMultiplier = 0.1
)

// FreeHintAllowance is how many hints a session gets before hints start
// costing points.
const FreeHintAllowance = 3

// hintCosts prices paid hints in purchase order. Every hint past the
// table costs flatHintCost.
var hintCosts = [...]int{30, 50, 100, 200, 350}

const flatHintCost = 500

// Policy is the earn-eligibility verdict for one prospective review.
type Policy struct {
	CanEarn           bool
	CooldownActive    bool
	DailyCapReached   bool
	RecentCompletions int
	Multiplier        float64
	Reasons           []string
}

// EvaluatePolicy inspects the user's completion history and decides
// whether a review of reference started at now can earn full points.
// Cooldown and the daily cap block earning; diminishing returns only
// shrink the reward and are surfaced as an advisory reason.
func EvaluatePolicy(history []models.ReviewCompletion, reference string, paidMode bool, now time.Time) Policy {
	p := Policy{CanEarn: true, Multiplier: 1.0}

	var (
		lastSameRef   time.Time
		recentSameRef int
		paidToday     int
	)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, c := range history {
		if c.CompletedAt.After(now) {
			continue
		}
		if c.Reference == reference {
			if c.CompletedAt.After(lastSameRef) {
				lastSameRef = c.CompletedAt
			}
			if now.Sub(c.CompletedAt) < DiminishingWindow {
				recentSameRef++
			}
		}
		if c.IsPaid && !c.CompletedAt.Before(midnight) {
			paidToday++
		}
	}

	if !lastSameRef.IsZero() {
		if elapsed := now.Sub(lastSameRef); elapsed < CooldownPeriod {
			p.CooldownActive = true
			remaining := int(math.Ceil((CooldownPeriod - elapsed).Minutes()))
			if remaining < 1 {
				remaining = 1
			}
			p.Reasons = append(p.Reasons,
				fmt.Sprintf("You reviewed this verse recently. Try again in %d minute(s).", remaining))
		}
	}

	if paidMode && paidToday >= DailyPaidLimit {
		p.DailyCapReached = true
		p.Reasons = append(p.Reasons,
			fmt.Sprintf("Daily limit of %d point-earning reviews reached. Keep practicing for free!", DailyPaidLimit))
	}

	p.RecentCompletions = recentSameRef
	p.Multiplier = DiminishingMultiplier(recentSameRef)
	if recentSameRef > 0 {
		p.Reasons = append(p.Reasons,
			fmt.Sprintf("Repeat review: rewards reduced to %d%%.", int(p.Multiplier*100)))
	}

	if p.CooldownActive || p.DailyCapReached {
		p.CanEarn = false
	}
	return p
}

// DiminishingMultiplier shrinks the reward by half per completion of the
// same reference in the last 24 hours, floored at 0.1.
func DiminishingMultiplier(recentCompletions int) float64 {
	m := 1.0 - 0.5*float64(recentCompletions)
	if m < MinDiminishingMultiplier {
		return MinDiminishingMultiplier
	}
	return m
}

// MinimumTime returns the seconds a drill must take to earn full points:
// 1.5s per word, clamped between 10 and 30.
func MinimumTime(wordCount int) int {
	t := int(math.Floor(float64(wordCount) * 1.5))
	if t < 10 {
		return 10
	}
	if t > 30 {
		return 30
	}
	return t
}

// HintCost prices the next paid hint given how many the session already
// bought.
func HintCost(paidHintsUsed int) int {
	if paidHintsUsed < 0 {
		paidHintsUsed = 0
	}
	if paidHintsUsed < len(hintCosts) {
		return hintCosts[paidHintsUsed]
	}
	return flatHintCost
}

// CalculateReward turns a finished drill into points. Reductions apply in
// a fixed order: hint usage first, then diminishing returns, then the
// too-fast halving, then suppression, with a floor of 1.
func CalculateReward(wordCount int, commonVerse bool, freeHintsUsed, paidHintsUsed int, durationSeconds float64, diminishing float64, suppressed bool) int {
	var reward int
	if commonVerse {
		reward = int(math.Floor(float64(200*wordCount) / 15.0))
		if reward < 50 {
			reward = 50
		}
	} else {
		reward = int(math.Floor(float64(500*wordCount) / 15.0))
		if reward < 100 {
			reward = 100
		}
	}

	if paidHintsUsed > 0 {
		reward = PaidHintReward
	} else if freeHintsUsed > 0 {
		reward = int(math.Floor(float64(reward) * 0.5))
	}

	reward = int(math.Floor(float64(reward) * diminishing))

	if durationSeconds < float64(MinimumTime(wordCount)) {
		reward = int(math.Floor(float64(reward) * 0.5))
	}

	if suppressed {
		reward = int(math.Floor(float64(reward) * SuppressedMultiplier))
	}

	if reward < 1 {
		reward = 1
	}
	return reward
}
