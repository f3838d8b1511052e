// Package pipeline wires the fetch, aggregate and report steps into one
// run: top players -> match history -> match details -> champion tiers
// -> HTML report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"lolreport/internal/report"
	"lolreport/internal/riot"
	"lolreport/internal/stats"
)

const (
	DefaultTopPlayers       = 3
	DefaultMatchesPerPlayer = 5
	DefaultWorkerCount      = 4
	DefaultMinGamesForTier  = 2

	matchJobBuffer = 64
)

// MatchFetcher is the slice of the riot client the pipeline needs.
// Separate from riot.Client so tests can substitute a fake.
type MatchFetcher interface {
	GetTopPlayers(ctx context.Context, count int) ([]riot.Summoner, error)
	GetMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*riot.Match, error)
}

// ReportGenerator produces HTML from the aggregate summary.
type ReportGenerator interface {
	Generate(ctx context.Context, input *report.Input) (string, error)
}

// Config holds pipeline knobs. Zero fields get defaults.
type Config struct {
	TopPlayers       int
	MatchesPerPlayer int
	WorkerCount      int
	MinGamesForTier  int
	OutputDir        string
}

func (c Config) withDefaults() Config {
	if c.TopPlayers <= 0 {
		c.TopPlayers = DefaultTopPlayers
	}
	if c.MatchesPerPlayer <= 0 {
		c.MatchesPerPlayer = DefaultMatchesPerPlayer
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = DefaultWorkerCount
	}
	if c.MinGamesForTier <= 0 {
		c.MinGamesForTier = DefaultMinGamesForTier
	}
	if c.OutputDir == "" {
		c.OutputDir = "./reports"
	}
	return c
}

// Runner executes one pipeline run. Construct with New; not reusable
// across runs because the dedupe filter carries state.
type Runner struct {
	client    MatchFetcher
	generator ReportGenerator // nil means use the local fallback renderer
	cfg       Config

	// Match-ID dedupe across player histories. Bloom filter keeps the
	// memory flat when runs grow; the exact Dedupe pass after fetching
	// covers the (rare) false positives in the other direction.
	seenMu sync.Mutex
	seen   *bloom.BloomFilter
}

// New creates a pipeline runner. generator may be nil to render the
// report locally instead of calling the hosted model.
func New(client MatchFetcher, generator ReportGenerator, cfg Config) *Runner {
	return &Runner{
		client:    client,
		generator: generator,
		cfg:       cfg.withDefaults(),
		seen:      bloom.NewWithEstimates(100000, 0.001),
	}
}

// matchResult carries one worker's outcome.
type matchResult struct {
	match *riot.Match
	id    string
	err   error
}

// Run executes the full pipeline and returns the written report path.
// Any error other than a 404 on an individual match fails the run;
// cancellation discards in-flight work without committing partial
// aggregates.
func (r *Runner) Run(ctx context.Context) (string, error) {
	matches, err := r.CollectMatches(ctx)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pipeline: no matches collected")
	}

	matches = stats.Dedupe(matches)
	log.Printf("[Pipeline] aggregating %d unique matches", len(matches))

	byChampion, err := stats.Aggregate(matches)
	if err != nil {
		return "", err
	}

	tiers := stats.AssignTiers(byChampion, r.cfg.MinGamesForTier)
	input := report.BuildInput(tiers, len(matches), matches[0].Info.GameVersion)

	var html string
	if r.generator != nil {
		html, err = r.generator.Generate(ctx, input)
		if err != nil {
			return "", err
		}
	} else {
		log.Printf("[Pipeline] no model configured, rendering report locally")
		html, err = report.RenderFallback(input)
		if err != nil {
			return "", err
		}
	}

	return report.Write(r.cfg.OutputDir, html)
}

// CollectMatches fetches the configured players' recent matches through
// a bounded worker pool sharing the client's rate-limit budget.
func (r *Runner) CollectMatches(ctx context.Context) ([]riot.Match, error) {
	players, err := r.client.GetTopPlayers(ctx, r.cfg.TopPlayers)
	if err != nil {
		return nil, fmt.Errorf("pipeline: fetch top players: %w", err)
	}
	log.Printf("[Pipeline] fetched %d top players", len(players))

	var matchIDs []string
	for _, p := range players {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ids, err := r.client.GetMatchIDs(ctx, p.PUUID, 0, r.cfg.MatchesPerPlayer)
		if err != nil {
			if errors.Is(err, riot.ErrNotFound) {
				log.Printf("[Pipeline] no match history for %s, skipping", truncate(p.PUUID))
				continue
			}
			return nil, fmt.Errorf("pipeline: match history for %s: %w", truncate(p.PUUID), err)
		}

		for _, id := range ids {
			if r.markSeen(id) {
				matchIDs = append(matchIDs, id)
			}
		}
	}
	log.Printf("[Pipeline] %d unique match IDs to fetch", len(matchIDs))

	return r.fetchMatches(ctx, matchIDs)
}

// fetchMatches runs the worker pool: a producer feeds match IDs, workers
// fetch details, and the collector folds results. The first hard error
// cancels the remaining work.
func (r *Runner) fetchMatches(ctx context.Context, ids []string) ([]riot.Match, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string, matchJobBuffer)
	results := make(chan matchResult, matchJobBuffer)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				match, err := r.client.GetMatch(ctx, id)
				select {
				case results <- matchResult{match: match, id: id, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, id := range ids {
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var matches []riot.Match
	var firstErr error
	for res := range results {
		if res.err != nil {
			if errors.Is(res.err, riot.ErrNotFound) {
				log.Printf("[Pipeline] match %s not found, skipping", res.id)
				continue
			}
			if errors.Is(res.err, context.Canceled) && firstErr != nil {
				continue
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("pipeline: fetch match %s: %w", res.id, res.err)
				cancel()
			}
			continue
		}
		matches = append(matches, *res.match)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// markSeen records a match ID in the dedupe filter; returns true when
// the ID wasn't seen before.
func (r *Runner) markSeen(matchID string) bool {
	r.seenMu.Lock()
	defer r.seenMu.Unlock()
	if r.seen.TestString(matchID) {
		return false
	}
	r.seen.AddString(matchID)
	return true
}

func truncate(puuid string) string {
	if len(puuid) > 16 {
		return puuid[:16] + "..."
	}
	return puuid
}
