package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lolreport/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		RiotAPIKey:         "RGAPI-test",
		BurstLimit:         20,
		BurstWindowSeconds: 1,
		RequestsPerWindow:  100,
		WindowSeconds:      120,
		MaxRetries:         5,
		TopPlayers:         3,
		MatchesPerPlayer:   5,
		WorkerCount:        4,
		OutputDir:          "./reports",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingRiotKey(t *testing.T) {
	cfg := validConfig()
	cfg.RiotAPIKey = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RIOT_API_KEY")
}

func TestValidate_EmptyGeminiKeyAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.GeminiAPIKey = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_MatchesPerPlayerRange(t *testing.T) {
	for _, count := range []int{0, -1, 101} {
		cfg := validConfig()
		cfg.MatchesPerPlayer = count

		err := cfg.Validate()
		assert.Error(t, err, "count=%d", count)
		assert.Contains(t, err.Error(), "MATCHES_PER_PLAYER")
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "RIOT_API_KEY")
	assert.Contains(t, errStr, "REQUESTS_PER_WINDOW")
	assert.Contains(t, errStr, "WINDOW_SECONDS")
	assert.Contains(t, errStr, "OUTPUT_DIR")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-from-env")
	t.Setenv("REQUESTS_PER_WINDOW", "50")
	t.Setenv("WINDOW_SECONDS", "60")
	t.Setenv("OUTPUT_DIR", "/tmp/reports")

	cfg := config.Load()

	assert.Equal(t, "RGAPI-from-env", cfg.RiotAPIKey)
	assert.Equal(t, 50, cfg.RequestsPerWindow)
	assert.Equal(t, 60, cfg.WindowSeconds)
	assert.Equal(t, "/tmp/reports", cfg.OutputDir)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-from-env")
	t.Setenv("REQUESTS_PER_WINDOW", "")
	t.Setenv("WINDOW_SECONDS", "")
	t.Setenv("BURST_LIMIT", "")

	cfg := config.Load()

	assert.Equal(t, 100, cfg.RequestsPerWindow)
	assert.Equal(t, 120, cfg.WindowSeconds)
	assert.Equal(t, 20, cfg.BurstLimit)
	assert.Equal(t, 3, cfg.TopPlayers)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("REQUESTS_PER_WINDOW", "not-a-number")

	cfg := config.Load()
	assert.Equal(t, 100, cfg.RequestsPerWindow)
}

func TestBudgetConfig_Translation(t *testing.T) {
	cfg := validConfig()
	cfg.RequestsPerWindow = 40
	cfg.WindowSeconds = 10

	bc := cfg.BudgetConfig()
	assert.Equal(t, 40, bc.SustainedLimit)
	assert.Equal(t, 10*time.Second, bc.SustainedWindow)
	assert.Equal(t, 20, bc.BurstLimit)
	assert.Equal(t, time.Second, bc.BurstWindow)
}
