package progress

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sword-drill/backend/internal/models"
	"github.com/sword-drill/backend/internal/points"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Core Progress CRUD ──────────────────────────────────

func (s *Store) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id, level) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, points.LevelBeginner,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	var p models.UserProgress
	err = s.db.QueryRow(
		`SELECT user_id, level, total_points, verses_memorized,
		        quizzes_completed, quizzes_correct,
		        current_streak, longest_streak, last_active_date,
		        streak_freeze_active, streak_freezes_owned,
		        created_at, updated_at
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Level, &p.TotalPoints, &p.VersesMemorized,
		&p.QuizzesCompleted, &p.QuizzesCorrect,
		&p.CurrentStreak, &p.LongestStreak, &p.LastActiveDate,
		&p.StreakFreezeActive, &p.StreakFreezesOwned,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	p.Achievements, err = s.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdateProgress(userID int64, p *models.UserProgress) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    level = $2,
		    current_streak = $3, longest_streak = $4, last_active_date = $5,
		    streak_freeze_active = $6, streak_freezes_owned = $7,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, p.Level,
		p.CurrentStreak, p.LongestStreak, p.LastActiveDate,
		p.StreakFreezeActive, p.StreakFreezesOwned,
	)
	return err
}

func (s *Store) IncrementQuizCounters(userID int64, correct bool) error {
	correctInc := 0
	if correct {
		correctInc = 1
	}
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    quizzes_completed = quizzes_completed + 1,
		    quizzes_correct = quizzes_correct + $2,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, correctInc,
	)
	return err
}

func (s *Store) IncrementVersesMemorized(userID int64) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    verses_memorized = verses_memorized + 1,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID,
	)
	return err
}

func (s *Store) SetLevel(userID int64, level string) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET level = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, level,
	)
	return err
}

// ── Point Operations ────────────────────────────────────

// AddPoints applies a delta to the user's balance. Penalties never drive
// the balance below zero.
func (s *Store) AddPoints(userID int64, amount int) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    total_points = GREATEST(0, total_points + $2),
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, amount,
	)
	return err
}

// SpendPoints deducts cost only if the balance covers it. The condition
// lives in the UPDATE so concurrent spends cannot overdraw.
func (s *Store) SpendPoints(userID int64, cost int) error {
	result, err := s.db.Exec(
		`UPDATE user_progress SET
		    total_points = total_points - $2, updated_at = NOW()
		 WHERE user_id = $1 AND total_points >= $2`,
		userID, cost,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("insufficient points")
	}
	return nil
}

// BuyStreakFreeze bundles the deduction and the inventory bump into one
// conditional UPDATE, capped at 3 freezes.
func (s *Store) BuyStreakFreeze(userID int64, cost int) error {
	result, err := s.db.Exec(
		`UPDATE user_progress
		 SET total_points = total_points - $2, streak_freezes_owned = streak_freezes_owned + 1, updated_at = NOW()
		 WHERE user_id = $1 AND total_points >= $2 AND streak_freezes_owned < 3`,
		userID, cost,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("insufficient points or max freezes reached")
	}
	return nil
}

func (s *Store) GetTotalPoints(userID int64) (int, error) {
	var total int
	err := s.db.QueryRow(
		`SELECT total_points FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&total)
	return total, err
}

func (s *Store) LogPointEvent(userID int64, eventType string, pointAmount int, metadata map[string]interface{}) error {
	var metaJSON *string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err == nil {
			s := string(b)
			metaJSON = &s
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO point_events (user_id, event_type, points, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, eventType, pointAmount, metaJSON,
	)
	return err
}

// HasPointEventToday reports whether an event of this type was already
// logged since midnight UTC. Used for once-per-day bonuses.
func (s *Store) HasPointEventToday(userID int64, eventType string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(
		    SELECT 1 FROM point_events
		    WHERE user_id = $1 AND event_type = $2
		    AND created_at >= date_trunc('day', NOW() AT TIME ZONE 'utc')
		)`,
		userID, eventType,
	).Scan(&exists)
	return exists, err
}

// ── Achievements ────────────────────────────────────────

func (s *Store) GetUserAchievements(userID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT achievement FROM user_achievements WHERE user_id = $1 ORDER BY earned_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	defer rows.Close()

	var achievements []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	if achievements == nil {
		achievements = []string{}
	}
	return achievements, rows.Err()
}

func (s *Store) AwardAchievement(userID int64, achievement string) error {
	_, err := s.db.Exec(
		`INSERT INTO user_achievements (user_id, achievement) VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement) DO NOTHING`,
		userID, achievement,
	)
	return err
}

// ── Review Completions ──────────────────────────────────

func (s *Store) InsertReviewCompletion(userID int64, reference string, pointsEarned int, isPaid bool) error {
	_, err := s.db.Exec(
		`INSERT INTO review_completions (user_id, reference, points_earned, is_paid)
		 VALUES ($1, $2, $3, $4)`,
		userID, reference, pointsEarned, isPaid,
	)
	return err
}

// GetRecentCompletions returns the user's completions since the cutoff,
// newest first. A 24h cutoff covers the cooldown, the daily cap, and the
// diminishing-returns window.
func (s *Store) GetRecentCompletions(userID int64, since time.Time) ([]models.ReviewCompletion, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, reference, completed_at, points_earned, is_paid
		 FROM review_completions
		 WHERE user_id = $1 AND completed_at >= $2
		 ORDER BY completed_at DESC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("get recent completions: %w", err)
	}
	defer rows.Close()

	var completions []models.ReviewCompletion
	for rows.Next() {
		var c models.ReviewCompletion
		if err := rows.Scan(&c.ID, &c.UserID, &c.Reference, &c.CompletedAt, &c.PointsEarned, &c.IsPaid); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// ── Personal Verses ─────────────────────────────────────

func (s *Store) AddPersonalVerse(userID int64, reference, text string) (*models.PersonalVerse, error) {
	var v models.PersonalVerse
	err := s.db.QueryRow(
		`INSERT INTO personal_verses (user_id, reference, text)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, reference, text, created_at`,
		userID, reference, text,
	).Scan(&v.ID, &v.UserID, &v.Reference, &v.Text, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add personal verse: %w", err)
	}
	return &v, nil
}

func (s *Store) GetPersonalVerses(userID int64) ([]models.PersonalVerse, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, reference, text, created_at
		 FROM personal_verses WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get personal verses: %w", err)
	}
	defer rows.Close()

	var verses []models.PersonalVerse
	for rows.Next() {
		var v models.PersonalVerse
		if err := rows.Scan(&v.ID, &v.UserID, &v.Reference, &v.Text, &v.CreatedAt); err != nil {
			return nil, err
		}
		verses = append(verses, v)
	}
	if verses == nil {
		verses = []models.PersonalVerse{}
	}
	return verses, rows.Err()
}

func (s *Store) IsPersonalVerse(userID int64, reference string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM personal_verses WHERE user_id = $1 AND reference = $2)`,
		userID, reference,
	).Scan(&exists)
	return exists, err
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Store) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, COALESCE(u.username, ''), p.total_points, p.level, p.current_streak,
		        ROW_NUMBER() OVER (ORDER BY p.total_points DESC) as rank
		 FROM user_progress p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.total_points > 0
		 ORDER BY p.total_points DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		var fullName string
		if err := rows.Scan(&e.UserID, &fullName, &e.Username, &e.TotalPoints, &e.Level, &e.CurrentStreak, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.DisplayName = models.User{Name: fullName}.DisplayName()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetUserRank(userID int64) (int, error) {
	var rank int
	err := s.db.QueryRow(
		`SELECT COALESCE(
		    (SELECT rank FROM (
		        SELECT user_id, ROW_NUMBER() OVER (ORDER BY total_points DESC) as rank
		        FROM user_progress WHERE total_points > 0
		    ) r WHERE r.user_id = $1),
		    0
		)`,
		userID,
	).Scan(&rank)
	return rank, err
}

// ── Streak Maintenance ──────────────────────────────────

func (s *Store) GetAllProgressForStreakCheck() ([]models.UserProgress, error) {
	rows, err := s.db.Query(
		`SELECT user_id, current_streak, longest_streak, last_active_date,
		        streak_freeze_active, streak_freezes_owned
		 FROM user_progress
		 WHERE current_streak > 0`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserProgress
	for rows.Next() {
		var p models.UserProgress
		if err := rows.Scan(&p.UserID, &p.CurrentStreak, &p.LongestStreak,
			&p.LastActiveDate, &p.StreakFreezeActive, &p.StreakFreezesOwned); err != nil {
			return nil, err
		}
		users = append(users, p)
	}
	return users, rows.Err()
}

func (s *Store) UpdateStreakData(userID int64, currentStreak, longestStreak int, freezeActive bool, freezesOwned int) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    current_streak = $2, longest_streak = $3,
		    streak_freeze_active = $4, streak_freezes_owned = $5,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, currentStreak, longestStreak, freezeActive, freezesOwned,
	)
	return err
}

// CountInactivityPenaltiesSince counts inactive-day penalties already
// logged in the window, so the scheduler can cap them.
func (s *Store) CountInactivityPenaltiesSince(userID int64, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM point_events
		 WHERE user_id = $1 AND event_type = 'inactive_day' AND created_at >= $2`,
		userID, since,
	).Scan(&count)
	return count, err
}

// ── Daily Trivia ────────────────────────────────────────

func (s *Store) SaveDailyTrivia(date time.Time, question string, choicesJSON string, correctID, reference, model string) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_trivia (trivia_date, question, choices, correct_id, reference, model_used)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (trivia_date) DO NOTHING`,
		date.Format("2006-01-02"), question, choicesJSON, correctID, reference, model,
	)
	return err
}

func (s *Store) GetDailyTrivia(date time.Time) (question, choicesJSON, correctID, reference string, err error) {
	err = s.db.QueryRow(
		`SELECT question, choices, correct_id, reference
		 FROM daily_trivia WHERE trivia_date = $1`,
		date.Format("2006-01-02"),
	).Scan(&question, &choicesJSON, &correctID, &reference)
	return
}
