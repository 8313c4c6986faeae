// Package config loads server settings from environment variables, with
// an optional config.yaml for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Config struct {
	Port      string
	JWTSecret string
	DB        Database

	AchievementsPath string

	// Trivia generation
	AnthropicModel string
	MockGenerator  bool
}

// Load reads configuration from the environment (DB_HOST, JWT_SECRET, …)
// and, when present, a config.yaml in the working directory. Environment
// variables win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "sword_user")
	v.SetDefault("db.password", "sword_password")
	v.SetDefault("db.name", "sword_drill")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("achievements_path", "assets/achievement_conditions.json")
	v.SetDefault("anthropic_model", "claude-sonnet-4-5")
	v.SetDefault("mock_generator", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:      v.GetString("port"),
		JWTSecret: v.GetString("jwt_secret"),
		DB: Database{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		AchievementsPath: v.GetString("achievements_path"),
		AnthropicModel:   v.GetString("anthropic_model"),
		MockGenerator:    v.GetBool("mock_generator"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
