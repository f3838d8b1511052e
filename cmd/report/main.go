package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"lolreport/internal/config"
	"lolreport/internal/pipeline"
	"lolreport/internal/report"
	"lolreport/internal/riot"
)

func main() {
	// Flags override the env-derived defaults.
	topPlayers := flag.Int("top", 0, "Number of challenger players to sample")
	matchCount := flag.Int("count", 0, "Number of matches to fetch per player")
	outputDir := flag.String("output-dir", "", "Directory for the HTML report")
	skipLLM := flag.Bool("skip-llm", false, "Render the report locally instead of calling the model")
	flag.Parse()

	cfg := config.Load()
	if *topPlayers > 0 {
		cfg.TopPlayers = *topPlayers
	}
	if *matchCount > 0 {
		cfg.MatchesPerPlayer = *matchCount
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	client, err := riot.NewClient(cfg.RiotAPIKey,
		riot.WithBudget(riot.NewBudget(cfg.BudgetConfig())),
		riot.WithRetryPolicy(riot.RetryPolicy{MaxAttempts: cfg.MaxRetries}),
	)
	if err != nil {
		log.Fatalf("Failed to create Riot client: %v", err)
	}

	var generator pipeline.ReportGenerator
	if *skipLLM || cfg.GeminiAPIKey == "" {
		log.Println("[Main] model disabled, using local renderer")
	} else {
		g, err := report.NewGenerator(cfg.GeminiAPIKey, report.WithModel(cfg.GeminiModel))
		if err != nil {
			log.Fatalf("Failed to create report generator: %v", err)
		}
		generator = g
	}

	runner := pipeline.New(client, generator, pipeline.Config{
		TopPlayers:       cfg.TopPlayers,
		MatchesPerPlayer: cfg.MatchesPerPlayer,
		WorkerCount:      cfg.WorkerCount,
		MinGamesForTier:  cfg.MinGamesForTier,
		OutputDir:        cfg.OutputDir,
	})

	ctx := pipeline.SignalContext(context.Background())

	start := time.Now()
	path, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, riot.ErrUnauthorized) {
			log.Fatal("Riot API rejected the key; check RIOT_API_KEY (dev keys expire after 24h)")
		}
		log.Fatalf("Pipeline failed: %v", err)
	}

	fmt.Printf("\nReport written to %s (took %s)\n", path, time.Since(start).Round(time.Second))
}
