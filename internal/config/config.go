package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	LogLevel      zapcore.Level
	MatchDeadline time.Duration // forced end for matches that drag on; 0 disables
}

// Load reads .env if present, then the environment. Missing values fall
// back to dev defaults; a missing DATABASE_URL just disables the result
// store.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      zapcore.InfoLevel,
		MatchDeadline: 10 * time.Minute,
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		lvl, err := zapcore.ParseLevel(raw)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	if raw := os.Getenv("MATCH_DEADLINE"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("MATCH_DEADLINE: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("MATCH_DEADLINE: must not be negative")
		}
		cfg.MatchDeadline = d
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
