package riot

import "fmt"

// Queue identifiers used by the league endpoints.
const (
	QueueRankedSolo = "RANKED_SOLO_5x5"
)

// LeagueEntry is one ladder entry from /lol/league/v4/challengerleagues.
type LeagueEntry struct {
	SummonerID   string `json:"summonerId"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// ChallengerLeague is the response from /lol/league/v4/challengerleagues/by-queue.
type ChallengerLeague struct {
	Tier    string        `json:"tier"`
	Entries []LeagueEntry `json:"entries"`
}

// Summoner is the response from /lol/summoner/v4/summoners/{summonerId}.
type Summoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	SummonerLevel int    `json:"summonerLevel"`
}

// Match is the response from /lol/match/v5/matches/{matchId}.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	DataVersion  string   `json:"dataVersion"`
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation int64         `json:"gameCreation"` // unix millis
	GameDuration int           `json:"gameDuration"`
	GameMode     string        `json:"gameMode"`
	GameType     string        `json:"gameType"`
	GameVersion  string        `json:"gameVersion"`
	MapID        int           `json:"mapId"`
	Participants []Participant `json:"participants"`
}

type Participant struct {
	PUUID                       string  `json:"puuid"`
	ChampionID                  int     `json:"championId"`
	ChampionName                string  `json:"championName"`
	Win                         bool    `json:"win"`
	Kills                       int     `json:"kills"`
	Deaths                      int     `json:"deaths"`
	Assists                     int     `json:"assists"`
	TotalDamageDealtToChampions int     `json:"totalDamageDealtToChampions"`
	GoldEarned                  int     `json:"goldEarned"`
	VisionScore                 float64 `json:"visionScore"`
	TotalMinionsKilled          int     `json:"totalMinionsKilled"`
}

// Validate checks the match invariant: the metadata PUUID list and the
// info participant list describe the same players, and every participant
// carries a champion identifier. Fails closed - a match that doesn't
// validate is never aggregated.
func (m *Match) Validate() error {
	if m.Metadata.MatchID == "" {
		return fmt.Errorf("%w: missing matchId", ErrInvalidSchema)
	}
	if len(m.Info.Participants) == 0 {
		return fmt.Errorf("%w: match %s has no participants", ErrInvalidSchema, m.Metadata.MatchID)
	}
	if len(m.Metadata.Participants) != len(m.Info.Participants) {
		return fmt.Errorf("%w: match %s has %d metadata participants but %d info participants",
			ErrInvalidSchema, m.Metadata.MatchID,
			len(m.Metadata.Participants), len(m.Info.Participants))
	}
	for i, p := range m.Info.Participants {
		if p.ChampionID == 0 && p.ChampionName == "" {
			return fmt.Errorf("%w: match %s participant %d has no champion",
				ErrInvalidSchema, m.Metadata.MatchID, i)
		}
	}
	return nil
}

// Validate checks a challenger league payload has usable entries.
func (l *ChallengerLeague) Validate() error {
	if len(l.Entries) == 0 {
		return fmt.Errorf("%w: challenger league has no entries", ErrInvalidSchema)
	}
	for i, e := range l.Entries {
		if e.SummonerID == "" {
			return fmt.Errorf("%w: league entry %d missing summonerId", ErrInvalidSchema, i)
		}
	}
	return nil
}

// Validate checks a summoner payload.
func (s *Summoner) Validate() error {
	if s.PUUID == "" {
		return fmt.Errorf("%w: summoner missing puuid", ErrInvalidSchema)
	}
	return nil
}
