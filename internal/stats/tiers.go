package stats

import "sort"

// Tier buckets champions by win rate for the report, S (best) to D.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// TierOrder lists tiers best-first for rendering.
var TierOrder = []Tier{TierS, TierA, TierB, TierC, TierD}

// Win-rate floors per tier. Champions below every floor land in D.
var tierFloors = []struct {
	tier Tier
	rate float64
}{
	{TierS, 0.60},
	{TierA, 0.54},
	{TierB, 0.48},
	{TierC, 0.42},
}

// tierFor returns the tier for a win rate.
func tierFor(rate float64) Tier {
	for _, f := range tierFloors {
		if rate >= f.rate {
			return f.tier
		}
	}
	return TierD
}

// AssignTiers groups champions into tiers by win rate. Champions with
// fewer than minGames games are excluded - a 1-game 100% win rate says
// nothing. Within a tier, champions sort by win rate desc, then games
// desc, then name, so the output is deterministic.
func AssignTiers(byChampion map[int]*ChampionStat, minGames int) map[Tier][]*ChampionStat {
	if minGames < 1 {
		minGames = 1
	}

	out := make(map[Tier][]*ChampionStat)
	for _, s := range byChampion {
		if s.Games < minGames {
			continue
		}
		t := tierFor(s.WinRate())
		out[t] = append(out[t], s)
	}

	for _, list := range out {
		sort.Slice(list, func(i, j int) bool {
			if list[i].WinRate() != list[j].WinRate() {
				return list[i].WinRate() > list[j].WinRate()
			}
			if list[i].Games != list[j].Games {
				return list[i].Games > list[j].Games
			}
			return list[i].ChampionName < list[j].ChampionName
		})
	}
	return out
}
