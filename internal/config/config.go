// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir            string // Base directory for databases and cache artifacts
	LogLevel           string
	Port               int
	DevMode            bool
	PlayerCacheMaxAge  time.Duration // Max age of the player history cache
	DefenseCacheMaxAge time.Duration // Max age of the defensive rankings cache
	RollingGames       int           // N for the rolling-N over rate
	MinBacktestWeek    int           // First week with enough history to backtest
	MergeGiveUpAfter   time.Duration // How long past kickoff to keep retrying canonical merges
	RefreshSchedule    string        // Cron spec for the weekly stats refresh
	MergeRetrySchedule string        // Cron spec for deferred canonical-merge retries
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := os.Getenv("PROPSAGE_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	port := 8080
	if portStr := os.Getenv("PROPSAGE_PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PROPSAGE_PORT %q: %w", portStr, err)
		}
		port = p
	}

	logLevel := os.Getenv("PROPSAGE_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	cfg := &Config{
		DataDir:            absDataDir,
		LogLevel:           logLevel,
		Port:               port,
		DevMode:            os.Getenv("PROPSAGE_DEV_MODE") == "true",
		PlayerCacheMaxAge:  durationEnv("PROPSAGE_PLAYER_CACHE_MAX_AGE", 168*time.Hour),
		DefenseCacheMaxAge: durationEnv("PROPSAGE_DEFENSE_CACHE_MAX_AGE", 168*time.Hour),
		RollingGames:       intEnv("PROPSAGE_ROLLING_GAMES", 5),
		MinBacktestWeek:    intEnv("PROPSAGE_MIN_BACKTEST_WEEK", 4),
		MergeGiveUpAfter:   durationEnv("PROPSAGE_MERGE_GIVE_UP", 48*time.Hour),
		RefreshSchedule:    stringEnv("PROPSAGE_REFRESH_SCHEDULE", "0 6 * * 2"), // Tuesday mornings, after the Monday stats land
		MergeRetrySchedule: stringEnv("PROPSAGE_MERGE_RETRY_SCHEDULE", "0 * * * *"),
	}

	if cfg.RollingGames <= 0 {
		return nil, fmt.Errorf("PROPSAGE_ROLLING_GAMES must be positive, got %d", cfg.RollingGames)
	}
	if cfg.MinBacktestWeek < 1 {
		return nil, fmt.Errorf("PROPSAGE_MIN_BACKTEST_WEEK must be at least 1, got %d", cfg.MinBacktestWeek)
	}

	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
