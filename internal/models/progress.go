package models

import (
	"encoding/json"
	"time"
)

// ── Core Progress Structs ─────────────────────────────────

// UserProgress is the persistent gamification state for one user. The
// scoring, level and achievement engines only read it; all mutation goes
// through the progress store.
type UserProgress struct {
	UserID             int64      `json:"user_id"`
	Level              string     `json:"level"`
	TotalPoints        int        `json:"total_points"`
	VersesMemorized    int        `json:"verses_memorized"`
	QuizzesCompleted   int        `json:"quizzes_completed"`
	QuizzesCorrect     int        `json:"quizzes_correct"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastActiveDate     *time.Time `json:"last_active_date"`
	StreakFreezesOwned int        `json:"streak_freezes_owned"`
	StreakFreezeActive bool       `json:"streak_freeze_active"`
	Achievements       []string   `json:"achievements"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PointEvent is one row of the append-only points audit log.
type PointEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	Points    int       `json:"points"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PersonalVerse is a user-submitted verse. Quiz points for these are
// capped to keep self-authored content from minting points.
type PersonalVerse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Reference string    `json:"reference"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────────

// SubmitQuizRequest carries one finished quiz attempt. UserAnswers and
// CorrectAnswers are slot-wise for fill-blank quizzes; multiple-choice and
// reference-recall quizzes use the first element of each.
type SubmitQuizRequest struct {
	QuizType         string   `json:"quiz_type"`
	UserAnswers      []string `json:"user_answers"`
	CorrectAnswers   []string `json:"correct_answers"`
	CaseSensitive    bool     `json:"case_sensitive"`
	TimeTakenSeconds float64  `json:"time_taken_seconds"`
	IsPerfect        bool     `json:"is_perfect"`
	IsPersonalVerse  bool     `json:"is_personal_verse"`
	VerseMastered    bool     `json:"verse_mastered"`
	Reference        string   `json:"reference,omitempty"`
}

type BonusTriviaRequest struct {
	CorrectAnswers int `json:"correct_answers"`
}

type ShopPurchaseRequest struct {
	Item string `json:"item"`
}

type AddPersonalVerseRequest struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// ── Response Types ────────────────────────────────────────

type SubmitQuizResponse struct {
	IsCorrect       bool                  `json:"is_correct"`
	CorrectCount    int                   `json:"correct_count"`
	TotalCount      int                   `json:"total_count"`
	PointsEarned    int                   `json:"points_earned"`
	BonusPoints     int                   `json:"bonus_points"`
	TotalPoints     int                   `json:"total_points"`
	Level           string                `json:"level"`
	LeveledUp       bool                  `json:"leveled_up"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
	Streak          StreakInfo            `json:"streak"`
}

type UnlockedAchievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	BonusPoints int    `json:"bonus_points"`
}

type StreakInfo struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type ProgressResponse struct {
	Level              string     `json:"level"`
	TotalPoints        int        `json:"total_points"`
	VersesMemorized    int        `json:"verses_memorized"`
	QuizzesCompleted   int        `json:"quizzes_completed"`
	QuizzesCorrect     int        `json:"quizzes_correct"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	StreakFreezesOwned int        `json:"streak_freezes_owned"`
	StreakFreezeActive bool       `json:"streak_freeze_active"`
	Achievements       []string   `json:"achievements"`
	LastActiveDate     *time.Time `json:"last_active_date,omitempty"`
}

type LevelProgressResponse struct {
	CurrentLevel string            `json:"current_level"`
	CanLevelUp   bool              `json:"can_level_up"`
	NextLevel    string            `json:"next_level,omitempty"`
	Progress     ProgressFractions `json:"progress"`
}

type ProgressFractions struct {
	Verses  float64 `json:"verses"`
	Quizzes float64 `json:"quizzes"`
	Streak  float64 `json:"streak"`
}

type BonusResponse struct {
	PointsEarned int `json:"points_earned"`
	TotalPoints  int `json:"total_points"`
}

type ShopPurchaseResponse struct {
	Item            string `json:"item"`
	Cost            int    `json:"cost"`
	PointsRemaining int    `json:"points_remaining"`
}

// QuizConfigResponse shapes the next quiz for the user's level: blank
// count, option count, and the timing windows for the requested type.
type QuizConfigResponse struct {
	Level              string  `json:"level"`
	QuizType           string  `json:"quiz_type"`
	TimeLimitSeconds   int     `json:"time_limit_seconds"`
	Blanks             int     `json:"blanks"`
	WordPool           string  `json:"word_pool"`
	Options            int     `json:"options"`
	SimilarDistractors bool    `json:"similar_distractors"`
	MinTimeSeconds     float64 `json:"min_time_seconds"`
	IdealTimeSeconds   float64 `json:"ideal_time_seconds"`
	MaxTimeSeconds     float64 `json:"max_time_seconds"`
}

// DailyTriviaResponse is the generated question of the day. The correct
// id ships to the client, which grades locally and reports back through
// the bonus-trivia endpoint.
type DailyTriviaResponse struct {
	Question  string          `json:"question"`
	Choices   json.RawMessage `json:"choices"`
	CorrectID string          `json:"correct_id"`
	Reference string          `json:"reference"`
}

type LeaderboardResponse struct {
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id"`
	DisplayName   string `json:"display_name"`
	Username      string `json:"username"`
	TotalPoints   int    `json:"total_points"`
	Level         string `json:"level"`
	CurrentStreak int    `json:"current_streak"`
	IsCurrentUser bool   `json:"is_current_user"`
}
