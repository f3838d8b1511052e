// Package stats reshapes validated match data into per-champion
// aggregates for the report stage.
package stats

import (
	"fmt"

	"lolreport/internal/riot"
)

// ChampionStat is the per-champion accumulation across a batch of
// matches. Mutated only during aggregation; the report stage treats it
// as immutable input.
type ChampionStat struct {
	ChampionID   int    `json:"championId"`
	ChampionName string `json:"championName"`
	Games        int    `json:"games"`
	Wins         int    `json:"wins"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	TotalDamageToChampions int `json:"totalDamageToChampions"`
	TotalGoldEarned        int `json:"totalGoldEarned"`
}

// WinRate returns wins/games in [0, 1].
func (s *ChampionStat) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// KDA returns (kills+assists)/deaths, treating zero deaths as one.
func (s *ChampionStat) KDA() float64 {
	deaths := s.Deaths
	if deaths == 0 {
		deaths = 1
	}
	return float64(s.Kills+s.Assists) / float64(deaths)
}

// ValidationError reports a match that violates the participant
// invariant. It indicates upstream data corruption, so aggregation
// stops and produces no partial output.
type ValidationError struct {
	MatchID string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stats: match %s failed validation: %v", e.MatchID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Aggregate computes per-champion stats across a batch of matches. The
// accumulation is commutative, so any permutation of the same input
// yields identical output and concurrent out-of-order fetch completion
// can't make results non-deterministic.
func Aggregate(matches []riot.Match) (map[int]*ChampionStat, error) {
	// Validate everything first so a bad record can't leave a
	// half-built map behind.
	for i := range matches {
		if err := matches[i].Validate(); err != nil {
			return nil, &ValidationError{MatchID: matches[i].Metadata.MatchID, Err: err}
		}
	}

	out := make(map[int]*ChampionStat)
	for i := range matches {
		for _, p := range matches[i].Info.Participants {
			s, ok := out[p.ChampionID]
			if !ok {
				s = &ChampionStat{
					ChampionID:   p.ChampionID,
					ChampionName: p.ChampionName,
				}
				out[p.ChampionID] = s
			}
			s.Games++
			if p.Win {
				s.Wins++
			}
			s.Kills += p.Kills
			s.Deaths += p.Deaths
			s.Assists += p.Assists
			s.TotalDamageToChampions += p.TotalDamageDealtToChampions
			s.TotalGoldEarned += p.GoldEarned
		}
	}
	return out, nil
}

// Dedupe drops matches already seen by match ID, keeping the first
// occurrence. The combine step runs it after fan-out fetching, since
// two players' histories often share games.
func Dedupe(matches []riot.Match) []riot.Match {
	seen := make(map[string]bool, len(matches))
	out := make([]riot.Match, 0, len(matches))
	for i := range matches {
		id := matches[i].Metadata.MatchID
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, matches[i])
	}
	return out
}
