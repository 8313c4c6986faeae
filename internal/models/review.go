package models

import "time"

// ReviewCompletion records one finished verse-reconstruction review. Rows
// are append-only; the throttle policy reads them and never mutates them.
type ReviewCompletion struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Reference    string    `json:"reference"`
	CompletedAt  time.Time `json:"completed_at"`
	PointsEarned int       `json:"points_earned"`
	IsPaid       bool      `json:"is_paid"`
}

// ── Request Types ─────────────────────────────────────────

type StartReviewRequest struct {
	Reference string `json:"reference"`
	PaidMode  bool   `json:"paid_mode"`
	WordCount int    `json:"word_count"`
}

// PurchaseHintRequest asks for the next hint's price given how many paid
// hints the session has already bought, and charges it.
type PurchaseHintRequest struct {
	PaidHintsUsed int `json:"paid_hints_used"`
}

type CompleteReviewRequest struct {
	Reference       string  `json:"reference"`
	WordCount       int     `json:"word_count"`
	CommonVerse     bool    `json:"common_verse"`
	FreeHintsUsed   int     `json:"free_hints_used"`
	PaidHintsUsed   int     `json:"paid_hints_used"`
	DurationSeconds float64 `json:"duration_seconds"`
	PaidMode        bool    `json:"paid_mode"`
}

// ── Response Types ────────────────────────────────────────

type StartReviewResponse struct {
	CanEarnPoints         bool     `json:"can_earn_points"`
	Reasons               []string `json:"reasons"`
	DiminishingMultiplier float64  `json:"diminishing_multiplier"`
	RecentCompletions     int      `json:"recent_completions"`
	MinTimeSeconds        int      `json:"min_time_seconds"`
	FreeHints             int      `json:"free_hints"`
	NextHintCost          int      `json:"next_hint_cost"`
}

type PurchaseHintResponse struct {
	Cost            int `json:"cost"`
	PointsRemaining int `json:"points_remaining"`
}

type CompleteReviewResponse struct {
	PointsEarned int      `json:"points_earned"`
	Suppressed   bool     `json:"suppressed"`
	Reasons      []string `json:"reasons"`
	TotalPoints  int      `json:"total_points"`
}
