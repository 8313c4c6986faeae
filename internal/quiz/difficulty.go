// Package quiz resolves a user's level into quiz-shape parameters and
// maps answer times onto the scoring thresholds in the point system.
package quiz

import "github.com/sword-drill/backend/internal/points"

// GetQuizDifficulty returns the quiz-shape tweaks for a level. Unknown
// levels get the Beginner shape.
func GetQuizDifficulty(userLevel string) points.DifficultyTweaks {
	if tweaks, ok := points.LevelTweaks[userLevel]; ok {
		return tweaks
	}
	return points.LevelTweaks[points.LevelBeginner]
}

// GetTimeThreshold returns the {min, ideal, max} timing bounds for a quiz
// type, falling back to the default entry for unknown types.
func GetTimeThreshold(quizType string) points.TimeThreshold {
	if threshold, ok := points.TimeThresholds[quizType]; ok {
		return threshold
	}
	return points.DefaultTimeThreshold
}

// GetTimeLimit returns the per-quiz time limit in seconds for a level,
// or zero when the level has no time pressure.
func GetTimeLimit(userLevel string) int {
	return GetQuizDifficulty(userLevel).TimeLimit
}

// GetFillBlankConfig returns the fill-blank shape for a level.
func GetFillBlankConfig(userLevel string) points.FillBlankTweaks {
	return GetQuizDifficulty(userLevel).FillBlank
}

// GetMultipleChoiceConfig returns the multiple-choice shape for a level.
func GetMultipleChoiceConfig(userLevel string) points.MultipleChoiceTweaks {
	return GetQuizDifficulty(userLevel).MultipleChoice
}

// IsTooFast reports whether an answer came in under the minimum plausible
// time for the quiz type, which usually means guessing.
func IsTooFast(quizType string, timeTaken float64) bool {
	return timeTaken < GetTimeThreshold(quizType).Min
}

// DeservesSpeedBonus reports whether the answer landed in the bonus
// window: at or above min, strictly below ideal.
func DeservesSpeedBonus(quizType string, timeTaken float64) bool {
	threshold := GetTimeThreshold(quizType)
	return timeTaken < threshold.Ideal && timeTaken >= threshold.Min
}

// GetTimeScoreMultiplier maps an answer time onto a score multiplier:
// 0.5 below min, 1.0 through ideal, a linear decline from 1.0 to 0.5
// between ideal and max, and 0.3 beyond max.
func GetTimeScoreMultiplier(quizType string, timeTaken float64) float64 {
	threshold := GetTimeThreshold(quizType)

	if timeTaken < threshold.Min {
		return 0.5
	}

	if timeTaken <= threshold.Ideal {
		return 1.0
	}

	if timeTaken <= threshold.Max {
		span := threshold.Max - threshold.Ideal
		position := timeTaken - threshold.Ideal
		return 1.0 - (position/span)*0.5
	}

	return 0.3
}
