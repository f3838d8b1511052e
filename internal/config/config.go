// Package config loads runtime settings from a .env file (if present)
// and environment variables, with defaults matching the Riot developer
// key limits.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lolreport/internal/riot"
)

type Config struct {
	RiotAPIKey   string
	GeminiAPIKey string
	GeminiModel  string

	BurstLimit         int
	BurstWindowSeconds int
	RequestsPerWindow  int
	WindowSeconds      int
	MaxRetries         int

	TopPlayers       int
	MatchesPerPlayer int
	WorkerCount      int
	MinGamesForTier  int
	OutputDir        string
}

// Load reads configuration from a .env file and the environment,
// applying defaults when values are missing or invalid. GEMINI_API_KEY
// may be empty; the pipeline falls back to the local renderer.
func Load() Config {
	// Try a few locations so the binary works from the repo root or a
	// cmd directory. Absence is fine in production.
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("[Config] loaded .env from %s", path)
			break
		}
	}

	return Config{
		RiotAPIKey:   strings.Trim(os.Getenv("RIOT_API_KEY"), "\""),
		GeminiAPIKey: strings.Trim(os.Getenv("GEMINI_API_KEY"), "\""),
		GeminiModel:  envOr("GEMINI_MODEL", ""),

		BurstLimit:         envIntOr("BURST_LIMIT", riot.DefaultBurstLimit),
		BurstWindowSeconds: envIntOr("BURST_WINDOW_SECONDS", int(riot.DefaultBurstWindow/time.Second)),
		RequestsPerWindow:  envIntOr("REQUESTS_PER_WINDOW", riot.DefaultSustainedLimit),
		WindowSeconds:      envIntOr("WINDOW_SECONDS", int(riot.DefaultSustainedWindow/time.Second)),
		MaxRetries:         envIntOr("MAX_RETRIES", riot.DefaultRetryPolicy().MaxAttempts),

		TopPlayers:       envIntOr("TOP_PLAYERS", 3),
		MatchesPerPlayer: envIntOr("MATCHES_PER_PLAYER", 5),
		WorkerCount:      envIntOr("WORKER_COUNT", 4),
		MinGamesForTier:  envIntOr("MIN_GAMES_FOR_TIER", 2),
		OutputDir:        envOr("OUTPUT_DIR", "./reports"),
	}
}

// Validate reports every problem at once rather than the first one.
func (c Config) Validate() error {
	var problems []string

	if c.RiotAPIKey == "" {
		problems = append(problems, "RIOT_API_KEY cannot be empty")
	}
	if c.BurstLimit <= 0 {
		problems = append(problems, "BURST_LIMIT must be positive")
	}
	if c.BurstWindowSeconds <= 0 {
		problems = append(problems, "BURST_WINDOW_SECONDS must be positive")
	}
	if c.RequestsPerWindow <= 0 {
		problems = append(problems, "REQUESTS_PER_WINDOW must be positive")
	}
	if c.WindowSeconds <= 0 {
		problems = append(problems, "WINDOW_SECONDS must be positive")
	}
	if c.MaxRetries <= 0 {
		problems = append(problems, "MAX_RETRIES must be positive")
	}
	if c.TopPlayers <= 0 {
		problems = append(problems, "TOP_PLAYERS must be positive")
	}
	if c.MatchesPerPlayer <= 0 || c.MatchesPerPlayer > 100 {
		problems = append(problems, "MATCHES_PER_PLAYER must be between 1 and 100")
	}
	if c.WorkerCount <= 0 {
		problems = append(problems, "WORKER_COUNT must be positive")
	}
	if c.OutputDir == "" {
		problems = append(problems, "OUTPUT_DIR cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// BudgetConfig translates the env settings into rate-limiter windows.
func (c Config) BudgetConfig() riot.BudgetConfig {
	return riot.BudgetConfig{
		BurstLimit:      c.BurstLimit,
		BurstWindow:     time.Duration(c.BurstWindowSeconds) * time.Second,
		SustainedLimit:  c.RequestsPerWindow,
		SustainedWindow: time.Duration(c.WindowSeconds) * time.Second,
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("[Config] invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
