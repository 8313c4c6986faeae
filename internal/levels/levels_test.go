package levels

import (
	"math"
	"testing"

	"github.com/sword-drill/backend/internal/models"
	"github.com/sword-drill/backend/internal/points"
)

func TestCheckLevelProgression_ConjunctiveGate(t *testing.T) {
	// Beginner needs all three: 25 verses, 50 quizzes, 7-day streak.
	tests := []struct {
		name    string
		verses  int
		quizzes int
		streak  int
		want    bool
	}{
		{"nothing", 0, 0, 0, false},
		{"verses only", 25, 0, 0, false},
		{"verses and quizzes", 25, 50, 0, false},
		{"quizzes and streak", 0, 50, 7, false},
		{"all exactly met", 25, 50, 7, true},
		{"all exceeded", 100, 100, 30, true},
		{"streak one short", 25, 50, 6, false},
	}

	for _, tt := range tests {
		user := models.UserProgress{
			Level:            points.LevelBeginner,
			VersesMemorized:  tt.verses,
			QuizzesCompleted: tt.quizzes,
			CurrentStreak:    tt.streak,
		}
		got := CheckLevelProgression(user)
		if got.CanLevelUp != tt.want {
			t.Errorf("%s: CanLevelUp = %v, want %v", tt.name, got.CanLevelUp, tt.want)
		}
		if got.NextLevel != points.LevelIntermediate {
			t.Errorf("%s: NextLevel = %q, want Intermediate", tt.name, got.NextLevel)
		}
	}
}

func TestCheckLevelProgression_Fractions(t *testing.T) {
	user := models.UserProgress{
		Level:            points.LevelBeginner,
		VersesMemorized:  5,  // 5/25 = 0.2
		QuizzesCompleted: 25, // 25/50 = 0.5
		CurrentStreak:    14, // clamped to 1
	}
	got := CheckLevelProgression(user)

	if math.Abs(got.Progress.Verses-0.2) > 1e-9 {
		t.Errorf("verses fraction = %v, want 0.2", got.Progress.Verses)
	}
	if math.Abs(got.Progress.Quizzes-0.5) > 1e-9 {
		t.Errorf("quizzes fraction = %v, want 0.5", got.Progress.Quizzes)
	}
	if got.Progress.Streak != 1 {
		t.Errorf("streak fraction = %v, want 1 (clamped)", got.Progress.Streak)
	}
}

func TestCheckLevelProgression_TerminalTier(t *testing.T) {
	user := models.UserProgress{
		Level:            points.LevelElite,
		VersesMemorized:  10000,
		QuizzesCompleted: 10000,
		CurrentStreak:    365,
	}
	got := CheckLevelProgression(user)

	if got.CanLevelUp {
		t.Error("Elite should never level up")
	}
	if got.NextLevel != "" {
		t.Errorf("Elite NextLevel = %q, want empty", got.NextLevel)
	}
	if got.Progress.Verses != 1 || got.Progress.Quizzes != 1 || got.Progress.Streak != 1 {
		t.Errorf("terminal progress = %+v, want all 1", got.Progress)
	}
}

func TestCheckLevelProgression_EmptyLevelDefaultsToBeginner(t *testing.T) {
	got := CheckLevelProgression(models.UserProgress{})
	if got.NextLevel != points.LevelIntermediate {
		t.Errorf("empty level NextLevel = %q, want Intermediate", got.NextLevel)
	}
}

func TestGetAllLevels(t *testing.T) {
	want := []string{"Beginner", "Intermediate", "Advanced", "Elite"}
	got := GetAllLevels()
	if len(got) != len(want) {
		t.Fatalf("GetAllLevels() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GetAllLevels()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetNextLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{points.LevelBeginner, points.LevelIntermediate},
		{points.LevelIntermediate, points.LevelAdvanced},
		{points.LevelAdvanced, points.LevelElite},
		{points.LevelElite, ""},
		{"NoSuchLevel", ""},
	}
	for _, tt := range tests {
		if got := GetNextLevel(tt.level); got != tt.want {
			t.Errorf("GetNextLevel(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
