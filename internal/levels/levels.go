// Package levels decides when accumulated progress crosses a tier's
// thresholds and how far along a user is toward the next tier.
package levels

import (
	"github.com/sword-drill/backend/internal/models"
	"github.com/sword-drill/backend/internal/points"
)

// Requirements lists what a user at a given level needs to advance.
// NextLevel is empty at the terminal tier.
type Requirements struct {
	NextLevel        string
	VersesMastered   int
	QuizzesCompleted int
	StreakDays       int
}

// LevelRequirements maps each tier to its advancement thresholds. The
// Elite row repeats the Advanced thresholds for display; its empty
// NextLevel marks it terminal.
var LevelRequirements = map[string]Requirements{
	points.LevelBeginner: {
		NextLevel:        points.LevelIntermediate,
		VersesMastered:   25,
		QuizzesCompleted: 50,
		StreakDays:       7,
	},
	points.LevelIntermediate: {
		NextLevel:        points.LevelAdvanced,
		VersesMastered:   75,
		QuizzesCompleted: 150,
		StreakDays:       21,
	},
	points.LevelAdvanced: {
		NextLevel:        points.LevelElite,
		VersesMastered:   200,
		QuizzesCompleted: 500,
		StreakDays:       90,
	},
	points.LevelElite: {
		NextLevel:        "",
		VersesMastered:   200,
		QuizzesCompleted: 500,
		StreakDays:       90,
	},
}

// Progression is the result of a level-up check. Progress fractions are
// clamped to [0, 1]; CanLevelUp is a strict AND over the raw stats, never
// partial credit.
type Progression struct {
	CanLevelUp bool
	NextLevel  string
	Progress   models.ProgressFractions
}

// CheckLevelProgression evaluates whether the user's stats cross their
// current tier's thresholds. At the terminal tier the progress fractions
// are pinned to 1 as a "complete" sentinel.
func CheckLevelProgression(user models.UserProgress) Progression {
	currentLevel := user.Level
	if currentLevel == "" {
		currentLevel = points.LevelBeginner
	}

	req, ok := LevelRequirements[currentLevel]
	if !ok || req.NextLevel == "" {
		return Progression{
			CanLevelUp: false,
			NextLevel:  "",
			Progress:   models.ProgressFractions{Verses: 1, Quizzes: 1, Streak: 1},
		}
	}

	return Progression{
		CanLevelUp: user.VersesMemorized >= req.VersesMastered &&
			user.QuizzesCompleted >= req.QuizzesCompleted &&
			user.CurrentStreak >= req.StreakDays,
		NextLevel: req.NextLevel,
		Progress: models.ProgressFractions{
			Verses:  fraction(user.VersesMemorized, req.VersesMastered),
			Quizzes: fraction(user.QuizzesCompleted, req.QuizzesCompleted),
			Streak:  fraction(user.CurrentStreak, req.StreakDays),
		},
	}
}

func fraction(stat, required int) float64 {
	if required <= 0 {
		return 1
	}
	f := float64(stat) / float64(required)
	if f > 1 {
		return 1
	}
	return f
}

// GetLevelRequirements returns the thresholds for a level, defaulting to
// Beginner for unknown names.
func GetLevelRequirements(level string) Requirements {
	if req, ok := LevelRequirements[level]; ok {
		return req
	}
	return LevelRequirements[points.LevelBeginner]
}

// GetAllLevels returns the tier names in progression order.
func GetAllLevels() []string {
	return []string{points.LevelBeginner, points.LevelIntermediate, points.LevelAdvanced, points.LevelElite}
}

// GetNextLevel returns the level after currentLevel, or "" at the top.
func GetNextLevel(currentLevel string) string {
	return LevelRequirements[currentLevel].NextLevel
}
