// Package progress ties the scoring rules to persistent user state: quiz
// submission, streaks, level-ups, achievements, reviews, and the shop.
package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sword-drill/backend/internal/achievements"
	"github.com/sword-drill/backend/internal/levels"
	"github.com/sword-drill/backend/internal/models"
	"github.com/sword-drill/backend/internal/points"
	"github.com/sword-drill/backend/internal/quiz"
	"github.com/sword-drill/backend/internal/review"
	"github.com/sword-drill/backend/internal/validation"
)

type Service struct {
	store   *Store
	catalog *achievements.Catalog
}

func NewService(store *Store, catalog *achievements.Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// ── Quiz Submission ─────────────────────────────────────

func (s *Service) SubmitQuiz(userID int64, req models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	prog, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	isCorrect, correctCount, totalCount := gradeAnswers(req)

	isPersonal := req.IsPersonalVerse
	if !isPersonal && req.Reference != "" {
		isPersonal, _ = s.store.IsPersonalVerse(userID, req.Reference)
	}

	earned := points.CalculateQuizPoints(req.QuizType, isCorrect, prog.Level, req.TimeTakenSeconds, req.IsPerfect, isPersonal)

	bonus := 0
	alreadyToday, err := s.store.HasPointEventToday(userID, "first_quiz_of_day")
	if err == nil && !alreadyToday {
		b := points.GetBonusPoints("firstQuizOfDay", 1)
		bonus += b
		s.store.LogPointEvent(userID, "first_quiz_of_day", b, nil)
	}

	streakBroken := touchStreak(prog, time.Now())
	penalty := 0
	if streakBroken {
		penalty = points.GetPenaltyPoints("streakBroken", prog.Level)
		s.store.LogPointEvent(userID, "streak_broken", penalty, map[string]interface{}{
			"longest_streak": prog.LongestStreak,
		})
	}

	if err := s.store.AddPoints(userID, earned+bonus+penalty); err != nil {
		log.Printf("[progress] failed to add points for user %d: %v", userID, err)
	}
	s.store.LogPointEvent(userID, "quiz_submit", earned, map[string]interface{}{
		"quiz_type":    req.QuizType,
		"correct":      isCorrect,
		"time_taken_s": req.TimeTakenSeconds,
		"perfect":      req.IsPerfect,
	})

	if err := s.store.IncrementQuizCounters(userID, isCorrect); err != nil {
		log.Printf("[progress] failed to increment counters: %v", err)
	}
	if req.VerseMastered && isCorrect {
		if err := s.store.IncrementVersesMemorized(userID); err != nil {
			log.Printf("[progress] failed to increment verses: %v", err)
		}
	}

	if err := s.store.UpdateProgress(userID, prog); err != nil {
		log.Printf("[progress] failed to update progress: %v", err)
	}

	// Re-read so the level and achievement checks see the new counters.
	prog, err = s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	leveledUp := false
	if progression := levels.CheckLevelProgression(*prog); progression.CanLevelUp {
		if err := s.store.SetLevel(userID, progression.NextLevel); err == nil {
			prog.Level = progression.NextLevel
			leveledUp = true
			s.store.LogPointEvent(userID, "level_up", 0, map[string]interface{}{
				"new_level": progression.NextLevel,
			})
		}
	}

	unlocked := s.awardNewAchievements(userID, prog)

	total, err := s.store.GetTotalPoints(userID)
	if err != nil {
		total = prog.TotalPoints
	}

	return &models.SubmitQuizResponse{
		IsCorrect:       isCorrect,
		CorrectCount:    correctCount,
		TotalCount:      totalCount,
		PointsEarned:    earned,
		BonusPoints:     bonus,
		TotalPoints:     total,
		Level:           prog.Level,
		LeveledUp:       leveledUp,
		NewAchievements: unlocked,
		Streak: models.StreakInfo{
			Current: prog.CurrentStreak,
			Longest: prog.LongestStreak,
		},
	}, nil
}

// gradeAnswers routes the submitted answers to the matcher for the quiz
// type and reports slot-level counts.
func gradeAnswers(req models.SubmitQuizRequest) (isCorrect bool, correctCount, totalCount int) {
	switch req.QuizType {
	case "fill-blank":
		res := validation.ValidateMultipleFillBlanks(req.UserAnswers, req.CorrectAnswers, req.CaseSensitive)
		return res.IsCorrect, res.CorrectCount, res.TotalCount
	case "reference-recall":
		if len(req.UserAnswers) == 0 || len(req.CorrectAnswers) == 0 {
			return false, 0, 1
		}
		ok := validation.MatchBiblicalReference(req.UserAnswers[0], req.CorrectAnswers[0])
		return ok, boolToInt(ok), 1
	default:
		if len(req.UserAnswers) == 0 || len(req.CorrectAnswers) == 0 {
			return false, 0, 1
		}
		ok := validation.ValidateMultipleChoice(req.UserAnswers[0], req.CorrectAnswers[0])
		return ok, boolToInt(ok), 1
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// touchStreak advances the streak for activity at now. Returns true when
// an established streak was broken.
func touchStreak(p *models.UserProgress, now time.Time) bool {
	today := now.UTC().Truncate(24 * time.Hour)
	broken := false

	if p.LastActiveDate != nil {
		lastActive := p.LastActiveDate.Truncate(24 * time.Hour)
		if lastActive.Equal(today) {
			return false
		}

		daysSinceLast := int(today.Sub(lastActive).Hours() / 24)

		switch {
		case daysSinceLast == 1:
			// Consecutive day
			p.CurrentStreak++
		case daysSinceLast == 2 && p.StreakFreezesOwned > 0:
			// Missed yesterday but a freeze covers it
			p.CurrentStreak++
			p.StreakFreezeActive = false
			p.StreakFreezesOwned--
		default:
			broken = p.CurrentStreak > 1
			p.CurrentStreak = 1
			p.StreakFreezeActive = false
		}
	} else {
		// First ever activity
		p.CurrentStreak = 1
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastActiveDate = &today
	return broken
}

// awardNewAchievements scans the catalog against fresh stats, persists
// each unlock, and pays the per-achievement bonus.
func (s *Service) awardNewAchievements(userID int64, prog *models.UserProgress) []models.UnlockedAchievement {
	unlocked := []models.UnlockedAchievement{}
	for _, id := range s.catalog.CheckForNewAchievements(*prog) {
		if err := s.store.AwardAchievement(userID, id); err != nil {
			log.Printf("[progress] failed to award achievement %s: %v", id, err)
			continue
		}
		def, _ := s.catalog.Definition(id)
		achBonus := points.GetBonusPoints("achievement", 1)
		if err := s.store.AddPoints(userID, achBonus); err != nil {
			log.Printf("[progress] failed to pay achievement bonus: %v", err)
		}
		s.store.LogPointEvent(userID, "achievement", achBonus, map[string]interface{}{
			"achievement": id,
		})
		unlocked = append(unlocked, models.UnlockedAchievement{
			ID:          id,
			Name:        def.Name,
			Icon:        def.Icon,
			BonusPoints: achBonus,
		})
	}
	return unlocked
}

// ── Progress & Levels ───────────────────────────────────

func (s *Service) GetProgress(userID int64) (*models.ProgressResponse, error) {
	prog, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	return &models.ProgressResponse{
		Level:              prog.Level,
		TotalPoints:        prog.TotalPoints,
		VersesMemorized:    prog.VersesMemorized,
		QuizzesCompleted:   prog.QuizzesCompleted,
		QuizzesCorrect:     prog.QuizzesCorrect,
		CurrentStreak:      prog.CurrentStreak,
		LongestStreak:      prog.LongestStreak,
		StreakFreezesOwned: prog.StreakFreezesOwned,
		StreakFreezeActive: prog.StreakFreezeActive,
		Achievements:       prog.Achievements,
		LastActiveDate:     prog.LastActiveDate,
	}, nil
}

func (s *Service) GetLevelProgress(userID int64) (*models.LevelProgressResponse, error) {
	prog, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}
	progression := levels.CheckLevelProgression(*prog)
	return &models.LevelProgressResponse{
		CurrentLevel: prog.Level,
		CanLevelUp:   progression.CanLevelUp,
		NextLevel:    progression.NextLevel,
		Progress:     progression.Progress,
	}, nil
}

// GetQuizConfig resolves the user's level into the shape the client
// should build the next quiz with.
func (s *Service) GetQuizConfig(userID int64, quizType string) (*models.QuizConfigResponse, error) {
	prog, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	tweaks := quiz.GetQuizDifficulty(prog.Level)
	threshold := quiz.GetTimeThreshold(quizType)
	return &models.QuizConfigResponse{
		Level:              prog.Level,
		QuizType:           quizType,
		TimeLimitSeconds:   tweaks.TimeLimit,
		Blanks:             tweaks.FillBlank.Blanks,
		WordPool:           tweaks.FillBlank.WordPool,
		Options:            tweaks.MultipleChoice.Options,
		SimilarDistractors: tweaks.MultipleChoice.Similar,
		MinTimeSeconds:     threshold.Min,
		IdealTimeSeconds:   threshold.Ideal,
		MaxTimeSeconds:     threshold.Max,
	}, nil
}

// ── Bonuses ─────────────────────────────────────────────

func (s *Service) AwardBonusTrivia(userID int64, correctAnswers int) (*models.BonusResponse, error) {
	if correctAnswers <= 0 {
		return nil, fmt.Errorf("correct_answers must be positive")
	}
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return nil, err
	}

	earned := points.GetBonusPoints("bonusTrivia", float64(correctAnswers))
	if err := s.store.AddPoints(userID, earned); err != nil {
		return nil, fmt.Errorf("add points: %w", err)
	}
	s.store.LogPointEvent(userID, "bonus_trivia", earned, map[string]interface{}{
		"correct_answers": correctAnswers,
	})

	total, _ := s.store.GetTotalPoints(userID)
	return &models.BonusResponse{PointsEarned: earned, TotalPoints: total}, nil
}

// AwardVerseOfDay pays the daily verse-check bonus, once per day.
func (s *Service) AwardVerseOfDay(userID int64) (*models.BonusResponse, error) {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return nil, err
	}

	already, err := s.store.HasPointEventToday(userID, "verse_of_day")
	if err != nil {
		return nil, err
	}
	if already {
		total, _ := s.store.GetTotalPoints(userID)
		return &models.BonusResponse{PointsEarned: 0, TotalPoints: total}, nil
	}

	earned := points.GetBonusPoints("verseOfDayChecked", 1)
	if err := s.store.AddPoints(userID, earned); err != nil {
		return nil, fmt.Errorf("add points: %w", err)
	}
	s.store.LogPointEvent(userID, "verse_of_day", earned, nil)

	total, _ := s.store.GetTotalPoints(userID)
	return &models.BonusResponse{PointsEarned: earned, TotalPoints: total}, nil
}

// ── Shop ────────────────────────────────────────────────

func (s *Service) PurchaseShopItem(userID int64, item string) (*models.ShopPurchaseResponse, error) {
	cost, ok := points.ShopItems[item]
	if !ok {
		return nil, fmt.Errorf("unknown shop item")
	}
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return nil, err
	}

	var err error
	if item == "streakFreeze" {
		err = s.store.BuyStreakFreeze(userID, cost)
	} else {
		err = s.store.SpendPoints(userID, cost)
	}
	if err != nil {
		return nil, err
	}

	s.store.LogPointEvent(userID, "shop_purchase", -cost, map[string]interface{}{
		"item": item,
	})

	remaining, _ := s.store.GetTotalPoints(userID)
	return &models.ShopPurchaseResponse{Item: item, Cost: cost, PointsRemaining: remaining}, nil
}

// ── Reviews ─────────────────────────────────────────────

func (s *Service) StartReview(userID int64, req models.StartReviewRequest) (*models.StartReviewResponse, error) {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return nil, err
	}

	now := time.Now()
	history, err := s.store.GetRecentCompletions(userID, now.Add(-review.DiminishingWindow))
	if err != nil {
		return nil, err
	}

	pol := review.EvaluatePolicy(history, req.Reference, req.PaidMode, now)
	return &models.StartReviewResponse{
		CanEarnPoints:         pol.CanEarn,
		Reasons:               pol.Reasons,
		DiminishingMultiplier: pol.Multiplier,
		RecentCompletions:     pol.RecentCompletions,
		MinTimeSeconds:        review.MinimumTime(req.WordCount),
		FreeHints:             review.FreeHintAllowance,
		NextHintCost:          review.HintCost(0),
	}, nil
}

func (s *Service) PurchaseReviewHint(userID int64, paidHintsUsed int) (*models.PurchaseHintResponse, error) {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return nil, err
	}

	cost := review.HintCost(paidHintsUsed)
	if err := s.store.SpendPoints(userID, cost); err != nil {
		return nil, err
	}
	s.store.LogPointEvent(userID, "review_hint", -cost, map[string]interface{}{
		"hint_number": paidHintsUsed + 1,
	})

	remaining, _ := s.store.GetTotalPoints(userID)
	return &models.PurchaseHintResponse{Cost: cost, PointsRemaining: remaining}, nil
}

func (s *Service) CompleteReview(userID int64, req models.CompleteReviewRequest) (*models.CompleteReviewResponse, error) {
	if req.Reference == "" || req.WordCount <= 0 {
		return nil, fmt.Errorf("reference and word_count are required")
	}
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return nil, err
	}

	now := time.Now()
	history, err := s.store.GetRecentCompletions(userID, now.Add(-review.DiminishingWindow))
	if err != nil {
		return nil, err
	}
	pol := review.EvaluatePolicy(history, req.Reference, req.PaidMode, now)
	suppressed := pol.CooldownActive || pol.DailyCapReached

	earned := 0
	if req.PaidMode {
		earned = review.CalculateReward(req.WordCount, req.CommonVerse,
			req.FreeHintsUsed, req.PaidHintsUsed, req.DurationSeconds,
			pol.Multiplier, suppressed)
	}

	if err := s.store.InsertReviewCompletion(userID, req.Reference, earned, req.PaidMode); err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}

	if earned > 0 {
		if err := s.store.AddPoints(userID, earned); err != nil {
			log.Printf("[progress] failed to add review points: %v", err)
		}
		s.store.LogPointEvent(userID, "review_complete", earned, map[string]interface{}{
			"reference":  req.Reference,
			"word_count": req.WordCount,
			"suppressed": suppressed,
		})
	}

	total, _ := s.store.GetTotalPoints(userID)
	return &models.CompleteReviewResponse{
		PointsEarned: earned,
		Suppressed:   suppressed,
		Reasons:      pol.Reasons,
		TotalPoints:  total,
	}, nil
}

// ── Personal Verses ─────────────────────────────────────

func (s *Service) AddPersonalVerse(userID int64, req models.AddPersonalVerseRequest) (*models.PersonalVerse, error) {
	if req.Reference == "" || req.Text == "" {
		return nil, fmt.Errorf("reference and text are required")
	}
	return s.store.AddPersonalVerse(userID, req.Reference, req.Text)
}

func (s *Service) ListPersonalVerses(userID int64) ([]models.PersonalVerse, error) {
	return s.store.GetPersonalVerses(userID)
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Service) GetLeaderboard(userID int64, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	entries, err := s.store.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range entries {
		if entries[i].UserID == userID {
			entries[i].IsCurrentUser = true
			found = true
		}
	}

	var currentUser *models.LeaderboardEntry
	if !found {
		rank, _ := s.store.GetUserRank(userID)
		if rank > 0 {
			prog, _ := s.store.GetOrCreateProgress(userID)
			if prog != nil {
				currentUser = &models.LeaderboardEntry{
					Rank:          rank,
					UserID:        userID,
					TotalPoints:   prog.TotalPoints,
					Level:         prog.Level,
					CurrentStreak: prog.CurrentStreak,
					IsCurrentUser: true,
				}
			}
		}
	}

	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return &models.LeaderboardResponse{Entries: entries, CurrentUser: currentUser}, nil
}

// ── Daily Trivia ────────────────────────────────────────

func (s *Service) GetDailyTrivia(now time.Time) (*models.DailyTriviaResponse, error) {
	question, choicesJSON, correctID, reference, err := s.store.GetDailyTrivia(now)
	if err != nil {
		return nil, fmt.Errorf("get daily trivia: %w", err)
	}
	return &models.DailyTriviaResponse{
		Question:  question,
		Choices:   json.RawMessage(choicesJSON),
		CorrectID: correctID,
		Reference: reference,
	}, nil
}

// ── Daily Streak Maintenance ────────────────────────────

// RunDailyStreakCheck walks active streaks at the day rollover: a missed
// day either consumes a freeze or breaks the streak, and each idle day
// costs the inactivity penalty (capped at 7 days).
func (s *Service) RunDailyStreakCheck() {
	users, err := s.store.GetAllProgressForStreakCheck()
	if err != nil {
		log.Printf("[progress] streak check: failed to get users: %v", err)
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	for _, p := range users {
		if p.LastActiveDate == nil {
			continue
		}
		lastActive := p.LastActiveDate.Truncate(24 * time.Hour)
		if !lastActive.Before(yesterday) {
			continue
		}

		if p.StreakFreezesOwned > 0 && !p.StreakFreezeActive {
			// A freeze covers the missed day
			s.store.UpdateStreakData(p.UserID, p.CurrentStreak, p.LongestStreak, true, p.StreakFreezesOwned)
			log.Printf("[progress] streak check: auto-activated freeze for user %d", p.UserID)
			continue
		}

		if p.CurrentStreak > 1 {
			penalty := points.GetPenaltyPoints("streakBroken", "")
			s.store.AddPoints(p.UserID, penalty)
			s.store.LogPointEvent(p.UserID, "streak_broken", penalty, map[string]interface{}{
				"streak_lost": p.CurrentStreak,
			})
		}
		s.store.UpdateStreakData(p.UserID, 0, p.LongestStreak, false, p.StreakFreezesOwned)

		alreadyPenalized, err := s.store.CountInactivityPenaltiesSince(p.UserID, lastActive)
		if err == nil && alreadyPenalized < 7 {
			penalty := points.GetPenaltyPoints("inactiveDay", "")
			s.store.AddPoints(p.UserID, penalty)
			s.store.LogPointEvent(p.UserID, "inactive_day", penalty, nil)
		}
	}
}
