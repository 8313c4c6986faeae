package points

import "math"

// Level names, in progression order. These double as keys into the
// difficulty and penalty tables.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelElite        = "Elite"
)

// BaseQuizPoints holds base points per quiz type, before the level
// multiplier is applied.
var BaseQuizPoints = map[string]int{
	"fill-blank":           15,
	"multiple-choice":      5,
	"reference-recall":     10,
	"verse-scramble":       20,
	"book-order":           25,
	"sword-drill-ultimate": 50,
	"verse-detective":      30,
}

// DefaultBasePoints is used when a quiz type is not in BaseQuizPoints.
const DefaultBasePoints = 10

// LevelConfig describes how a level scales quiz scoring.
type LevelConfig struct {
	Multiplier   float64
	TimeBonus    bool
	PerfectBonus float64
}

// DifficultyMultipliers maps each level to its scoring configuration.
var DifficultyMultipliers = map[string]LevelConfig{
	LevelBeginner:     {Multiplier: 1.0, TimeBonus: false, PerfectBonus: 1.2},
	LevelIntermediate: {Multiplier: 1.5, TimeBonus: true, PerfectBonus: 1.5},
	LevelAdvanced:     {Multiplier: 2.0, TimeBonus: true, PerfectBonus: 2.0},
	LevelElite:        {Multiplier: 3.0, TimeBonus: true, PerfectBonus: 2.5},
}

// Bonuses holds fixed bonus amounts for one-off events.
var Bonuses = map[string]int{
	"verseOfDayChecked":     10,
	"dailyStreakMaintained": 5, // per day in streak
	"firstQuizOfDay":        20,
	"perfectQuiz":           50,
	"speedBonus":            25,
	"bonusTrivia":           30, // per correct trivia answer
	"courseLesson":          100,
	"courseLevel":           500,
	"courseComplete":        1500,
	"planMilestone":         200,
	"planComplete":          800,
	"achievement":           150,
}

// IncorrectAnswerPenalty scales with the user's level.
var IncorrectAnswerPenalty = map[string]int{
	LevelBeginner:     -10,
	LevelIntermediate: -20,
	LevelAdvanced:     -35,
	LevelElite:        -50,
}

// Penalties holds flat penalty amounts. incorrectAnswer is level-indexed
// and lives in IncorrectAnswerPenalty instead.
var Penalties = map[string]int{
	"streakBroken":    -50,
	"inactiveDay":     -10, // per day inactive (max 7 days)
	"quizFailed":      -20,
	"tooFastAnswer":   -10, // answered too quickly, likely guessing
	"repeatedMistake": -8,
}

// TimeThreshold bounds answer times for a quiz type, in seconds.
type TimeThreshold struct {
	Min   float64
	Ideal float64
	Max   float64
}

// TimeThresholds maps quiz types to their timing bounds.
var TimeThresholds = map[string]TimeThreshold{
	"verse-scramble":       {Min: 3, Ideal: 15, Max: 60},
	"book-order":           {Min: 5, Ideal: 20, Max: 90},
	"sword-drill-ultimate": {Min: 2, Ideal: 10, Max: 45},
	"multiple-choice":      {Min: 2, Ideal: 8, Max: 30},
	"fill-blank":           {Min: 3, Ideal: 12, Max: 45},
	"reference-recall":     {Min: 2, Ideal: 10, Max: 40},
	"verse-detective":      {Min: 15, Ideal: 30, Max: 120},
}

// DefaultTimeThreshold is used for quiz types without an entry.
var DefaultTimeThreshold = TimeThreshold{Min: 2, Ideal: 10, Max: 60}

// ShopItems maps purchasable items to their point cost.
var ShopItems = map[string]int{
	"unlockApocrypha": 1000,
	"customTheme":     500,
	"skipDifficulty":  300,
	"extraHint":       100,
	"streakFreeze":    200, // protect streak for 1 day
	"doublePoints":    400, // 2x points for next quiz
	"revealAnswer":    50,
}

// FillBlankTweaks controls how many blanks a fill-blank quiz gets and
// which word pool distractors come from.
type FillBlankTweaks struct {
	Blanks   int
	WordPool string
}

// MultipleChoiceTweaks controls option count and distractor similarity.
type MultipleChoiceTweaks struct {
	Options int
	Similar bool
}

// DifficultyTweaks shapes quizzes per level. TimeLimit is in seconds;
// zero means no time pressure.
type DifficultyTweaks struct {
	FillBlank      FillBlankTweaks
	MultipleChoice MultipleChoiceTweaks
	TimeLimit      int
}

// LevelTweaks maps each level to its quiz-shape parameters.
var LevelTweaks = map[string]DifficultyTweaks{
	LevelBeginner: {
		FillBlank:      FillBlankTweaks{Blanks: 1, WordPool: "easy"},
		MultipleChoice: MultipleChoiceTweaks{Options: 3, Similar: false},
		TimeLimit:      0,
	},
	LevelIntermediate: {
		FillBlank:      FillBlankTweaks{Blanks: 2, WordPool: "medium"},
		MultipleChoice: MultipleChoiceTweaks{Options: 4, Similar: true},
		TimeLimit:      120,
	},
	LevelAdvanced: {
		FillBlank:      FillBlankTweaks{Blanks: 3, WordPool: "hard"},
		MultipleChoice: MultipleChoiceTweaks{Options: 4, Similar: true},
		TimeLimit:      90,
	},
	LevelElite: {
		FillBlank:      FillBlankTweaks{Blanks: 4, WordPool: "expert"},
		MultipleChoice: MultipleChoiceTweaks{Options: 5, Similar: true},
		TimeLimit:      60,
	},
}

// PersonalVerseCap is the maximum award for user-submitted verses. Keeps
// people from farming points off trivially short content they wrote.
const PersonalVerseCap = 5

// CalculateQuizPoints scores a single quiz attempt. The result can be
// negative: incorrect answers return the level-indexed penalty immediately,
// with no base points, perfect bonus, or time adjustments applied.
//
// For correct answers the order matters: base points are scaled by the
// level multiplier, the perfect bonus is applied and floored, then the
// speed bonus and too-fast penalty are each checked independently (the
// current thresholds make them mutually exclusive, but both checks run),
// and finally the personal-verse cap clamps the total.
func CalculateQuizPoints(quizType string, isCorrect bool, userLevel string, timeTaken float64, isPerfect bool, isPersonalVerse bool) int {
	basePoints, ok := BaseQuizPoints[quizType]
	if !ok {
		basePoints = DefaultBasePoints
	}

	levelConfig, ok := DifficultyMultipliers[userLevel]
	if !ok {
		levelConfig = DifficultyMultipliers[LevelBeginner]
	}
	pts := float64(basePoints) * levelConfig.Multiplier

	if !isCorrect {
		if penalty, ok := IncorrectAnswerPenalty[userLevel]; ok {
			return penalty
		}
		return IncorrectAnswerPenalty[LevelBeginner]
	}

	if isPerfect && levelConfig.PerfectBonus != 0 {
		pts = math.Floor(pts * levelConfig.PerfectBonus)
	}

	if levelConfig.TimeBonus && timeTaken > 0 {
		threshold, ok := TimeThresholds[quizType]
		if !ok {
			threshold = DefaultTimeThreshold
		}

		if timeTaken < threshold.Ideal && timeTaken >= threshold.Min {
			pts += float64(Bonuses["speedBonus"])
		}

		if timeTaken < threshold.Min {
			pts += float64(Penalties["tooFastAnswer"])
		}
	}

	if isPersonalVerse {
		pts = math.Min(PersonalVerseCap, pts)
	}

	return int(math.Floor(pts))
}

// GetBonusPoints returns the bonus for an event, scaled by multiplier
// (e.g. streak day count). Unknown bonus types yield zero.
func GetBonusPoints(bonusType string, multiplier float64) int {
	baseBonus := Bonuses[bonusType]
	return int(math.Floor(float64(baseBonus) * multiplier))
}

// GetPenaltyPoints returns the penalty for an event. incorrectAnswer is
// indexed by user level; everything else is a flat lookup. Unknown
// penalty types yield zero.
func GetPenaltyPoints(penaltyType, userLevel string) int {
	if penaltyType == "incorrectAnswer" {
		if penalty, ok := IncorrectAnswerPenalty[userLevel]; ok {
			return penalty
		}
		return IncorrectAnswerPenalty[LevelBeginner]
	}
	return Penalties[penaltyType]
}
