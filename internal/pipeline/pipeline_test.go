package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"lolreport/internal/riot"
)

// fakeFetcher implements MatchFetcher from canned data.
type fakeFetcher struct {
	mu         sync.Mutex
	players    []riot.Summoner
	histories  map[string][]string
	matches    map[string]*riot.Match
	matchErrs  map[string]error
	getMatches []string // order of GetMatch calls
}

func (f *fakeFetcher) GetTopPlayers(ctx context.Context, count int) ([]riot.Summoner, error) {
	if count > len(f.players) {
		count = len(f.players)
	}
	return f.players[:count], nil
}

func (f *fakeFetcher) GetMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	ids, ok := f.histories[puuid]
	if !ok {
		return nil, fmt.Errorf("%w: match-ids", riot.ErrNotFound)
	}
	if count > len(ids) {
		count = len(ids)
	}
	return ids[:count], nil
}

func (f *fakeFetcher) GetMatch(ctx context.Context, matchID string) (*riot.Match, error) {
	f.mu.Lock()
	f.getMatches = append(f.getMatches, matchID)
	f.mu.Unlock()

	if err, ok := f.matchErrs[matchID]; ok {
		return nil, err
	}
	m, ok := f.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: match", riot.ErrNotFound)
	}
	return m, nil
}

func (f *fakeFetcher) matchCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.getMatches)
}

func fakeMatch(id string, championID int, win bool) *riot.Match {
	return &riot.Match{
		Metadata: riot.MatchMetadata{
			MatchID:      id,
			Participants: []string{id + "-p0"},
		},
		Info: riot.MatchInfo{
			GameVersion: "15.4.1",
			Participants: []riot.Participant{
				{PUUID: id + "-p0", ChampionID: championID, ChampionName: fmt.Sprintf("Champ%d", championID), Win: win},
			},
		},
	}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		players: []riot.Summoner{
			{ID: "s1", PUUID: "puuid-1"},
			{ID: "s2", PUUID: "puuid-2"},
		},
		histories: map[string][]string{
			// m2 appears in both histories: must be fetched once.
			"puuid-1": {"m1", "m2"},
			"puuid-2": {"m2", "m3"},
		},
		matches: map[string]*riot.Match{
			"m1": fakeMatch("m1", 1, true),
			"m2": fakeMatch("m2", 2, false),
			"m3": fakeMatch("m3", 1, true),
		},
		matchErrs: map[string]error{},
	}
}

// TestRun_EndToEnd tests a full run with the local renderer: collect,
// dedupe, aggregate, write.
func TestRun_EndToEnd(t *testing.T) {
	fetcher := newFakeFetcher()
	outDir := t.TempDir()

	runner := New(fetcher, nil, Config{
		TopPlayers:       2,
		MatchesPerPlayer: 5,
		WorkerCount:      2,
		MinGamesForTier:  1,
		OutputDir:        outDir,
	})

	path, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "Champ1") || !strings.Contains(html, "Champ2") {
		t.Error("Report missing champion entries")
	}

	if got := fetcher.matchCallCount(); got != 3 {
		t.Errorf("Expected 3 match fetches (m2 deduped), got %d", got)
	}
}

// TestCollectMatches_DedupesSharedHistory tests that overlapping match
// histories are fetched once.
func TestCollectMatches_DedupesSharedHistory(t *testing.T) {
	fetcher := newFakeFetcher()
	runner := New(fetcher, nil, Config{TopPlayers: 2, MatchesPerPlayer: 5, WorkerCount: 3})

	matches, err := runner.CollectMatches(context.Background())
	if err != nil {
		t.Fatalf("CollectMatches failed: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("Expected 3 unique matches, got %d", len(matches))
	}
}

// TestCollectMatches_SkipsNotFound tests that a 404 on one match skips
// it without failing the run.
func TestCollectMatches_SkipsNotFound(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.matchErrs["m2"] = fmt.Errorf("%w: match", riot.ErrNotFound)

	runner := New(fetcher, nil, Config{TopPlayers: 2, MatchesPerPlayer: 5, WorkerCount: 2})

	matches, err := runner.CollectMatches(context.Background())
	if err != nil {
		t.Fatalf("CollectMatches failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches after skipping 404, got %d", len(matches))
	}
}

// TestCollectMatches_SchemaErrorFailsRun tests that a schema failure is
// fatal rather than skipped.
func TestCollectMatches_SchemaErrorFailsRun(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.matchErrs["m2"] = fmt.Errorf("%w: match", riot.ErrInvalidSchema)

	runner := New(fetcher, nil, Config{TopPlayers: 2, MatchesPerPlayer: 5, WorkerCount: 2})

	_, err := runner.CollectMatches(context.Background())
	if !errors.Is(err, riot.ErrInvalidSchema) {
		t.Fatalf("Expected ErrInvalidSchema to surface, got: %v", err)
	}
}

// TestRun_Cancellation tests that a cancelled context aborts the run
// without producing a report.
func TestRun_Cancellation(t *testing.T) {
	fetcher := newFakeFetcher()
	outDir := t.TempDir()

	runner := New(fetcher, nil, Config{TopPlayers: 2, MatchesPerPlayer: 5, OutputDir: outDir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}

	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Error("Cancelled run must not write a report")
	}
}

// TestRun_NoMatches tests the empty-collection edge case.
func TestRun_NoMatches(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.histories = map[string][]string{}

	runner := New(fetcher, nil, Config{TopPlayers: 2, OutputDir: t.TempDir()})

	if _, err := runner.Run(context.Background()); err == nil {
		t.Error("Expected error when no matches were collected")
	}
}
