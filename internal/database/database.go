package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/sword-drill/backend/internal/config"
)

func Connect(cfg config.Database) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(50) UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id              BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		level                VARCHAR(20) NOT NULL DEFAULT 'Beginner',
		total_points         BIGINT NOT NULL DEFAULT 0,
		verses_memorized     INT NOT NULL DEFAULT 0,
		quizzes_completed    INT NOT NULL DEFAULT 0,
		quizzes_correct      INT NOT NULL DEFAULT 0,
		current_streak       INT NOT NULL DEFAULT 0,
		longest_streak       INT NOT NULL DEFAULT 0,
		last_active_date     DATE,
		streak_freeze_active BOOLEAN NOT NULL DEFAULT FALSE,
		streak_freezes_owned INT NOT NULL DEFAULT 0,
		created_at           TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at           TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS user_achievements (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		achievement VARCHAR(100) NOT NULL,
		earned_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, achievement)
	);

	CREATE TABLE IF NOT EXISTS point_events (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_type  VARCHAR(50) NOT NULL,
		points      INT NOT NULL,
		metadata    JSONB,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS review_completions (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		reference     VARCHAR(100) NOT NULL,
		completed_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		points_earned INT NOT NULL DEFAULT 0,
		is_paid       BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS personal_verses (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		reference  VARCHAR(100) NOT NULL,
		text       TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, reference)
	);

	CREATE TABLE IF NOT EXISTS daily_trivia (
		id          BIGSERIAL PRIMARY KEY,
		trivia_date DATE UNIQUE NOT NULL,
		question    TEXT NOT NULL,
		choices     JSONB NOT NULL,
		correct_id  VARCHAR(1) NOT NULL,
		reference   VARCHAR(100) NOT NULL,
		model_used  VARCHAR(100),
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Idempotent for databases created before these columns existed.
	alterStatements := []string{
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS username VARCHAR(50) UNIQUE`,
		`ALTER TABLE user_progress ADD COLUMN IF NOT EXISTS quizzes_correct INT NOT NULL DEFAULT 0`,
		`ALTER TABLE user_progress ADD COLUMN IF NOT EXISTS streak_freeze_active BOOLEAN NOT NULL DEFAULT FALSE`,
		`ALTER TABLE user_progress ADD COLUMN IF NOT EXISTS streak_freezes_owned INT NOT NULL DEFAULT 0`,
		`ALTER TABLE review_completions ADD COLUMN IF NOT EXISTS is_paid BOOLEAN NOT NULL DEFAULT FALSE`,
	}

	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	// Backfill usernames for users created before the column existed.
	var usersWithoutUsername int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE username IS NULL`).Scan(&usersWithoutUsername); err == nil && usersWithoutUsername > 0 {
		rows, err := db.Query(`SELECT id, name FROM users WHERE username IS NULL`)
		if err == nil {
			defer rows.Close()
			for rows.Next() {
				var id int64
				var name string
				if rows.Scan(&id, &name) == nil {
					base := generateUsernameBase(name)
					for attempt := 0; attempt < 10; attempt++ {
						candidate := fmt.Sprintf("%s%04d", base, randomInt(10000))
						_, err := db.Exec(
							`UPDATE users SET username = $1 WHERE id = $2 AND username IS NULL`,
							candidate, id,
						)
						if err == nil {
							break
						}
					}
				}
			}
		}
	}

	db.Exec(`DO $$ BEGIN ALTER TABLE users ALTER COLUMN username SET NOT NULL; EXCEPTION WHEN others THEN NULL; END $$`)

	newIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_point_events_user ON point_events(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_achievements_user ON user_achievements(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user_time ON review_completions(user_id, completed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user_ref ON review_completions(user_id, reference, completed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_personal_verses_user ON personal_verses(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_progress_leaderboard ON user_progress(total_points DESC)`,
	}
	for _, stmt := range newIndexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index failed: %w", err)
		}
	}

	return nil
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "user"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// randomInt returns a random integer in [0, max).
func randomInt(max int) int {
	return rng.Intn(max)
}

// GenerateUsername creates a unique username from a name by appending random digits.
// It tries up to 10 times to find a unique one. Caller should handle the unique constraint.
func GenerateUsername(name string) string {
	base := generateUsernameBase(name)
	return fmt.Sprintf("%s%04d", base, randomInt(10000))
}
