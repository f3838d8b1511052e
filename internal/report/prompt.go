package report

import (
	"time"

	"lolreport/internal/stats"
)

// analystSystemPrompt steers the model toward a self-contained HTML
// tier report. The tier placement is precomputed so the model only has
// to present it.
const analystSystemPrompt = `You are a professional League of Legends analyst. Your task is to analyze the provided champion performance data and generate a visually appealing HTML report.

The HTML report must include:
1. A main title (e.g., "League of Legends - Champion Performance Analysis").
2. Sections for each champion tier: S, A, B, C, D (best to worst), using the precomputed "tier" field.
3. For each champion: name, a small champion image from Riot's Data Dragon CDN (http://ddragon.leagueoflegends.com/cdn/<patch>/img/champion/<ChampionNameKey>.png, e.g. Aatrox.png, MonkeyKing.png for Wukong), key statistics (win rate, KDA, games played), and a concise justification for the placement.
4. Basic inline CSS or a <style> block for a clean, professional layout: readable font, distinct visual styles per tier, good spacing, champion images around 50x50 pixels.
5. The final output MUST be a single, valid HTML string, starting with <!DOCTYPE html> and ending with </html>. No markdown fences.`

// ChampionSummary is one champion's line in the model input.
type ChampionSummary struct {
	ChampionID   int     `json:"championId"`
	ChampionName string  `json:"championName"`
	Tier         string  `json:"tier"`
	Games        int     `json:"games"`
	Wins         int     `json:"wins"`
	WinRate      float64 `json:"winRate"`
	KDA          float64 `json:"kda"`
	AvgDamage    int     `json:"avgDamageToChampions"`
	AvgGold      int     `json:"avgGoldEarned"`
}

// Input is the structured summary handed to the report stage.
type Input struct {
	GeneratedAt  string            `json:"generatedAt"`
	GameVersion  string            `json:"gameVersion,omitempty"`
	TotalMatches int               `json:"totalMatches"`
	Champions    []ChampionSummary `json:"champions"`
}

// BuildInput flattens tiered aggregates into the model input, ordered
// best tier first.
func BuildInput(tiers map[stats.Tier][]*stats.ChampionStat, totalMatches int, gameVersion string) *Input {
	in := &Input{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		GameVersion:  gameVersion,
		TotalMatches: totalMatches,
	}

	for _, tier := range stats.TierOrder {
		for _, s := range tiers[tier] {
			summary := ChampionSummary{
				ChampionID:   s.ChampionID,
				ChampionName: s.ChampionName,
				Tier:         string(tier),
				Games:        s.Games,
				Wins:         s.Wins,
				WinRate:      s.WinRate(),
				KDA:          s.KDA(),
			}
			if s.Games > 0 {
				summary.AvgDamage = s.TotalDamageToChampions / s.Games
				summary.AvgGold = s.TotalGoldEarned / s.Games
			}
			in.Champions = append(in.Champions, summary)
		}
	}
	return in
}
