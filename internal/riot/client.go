package riot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// API base URLs. Platform hosts serve summoner/league endpoints,
	// regional hosts serve match-v5.
	na1BaseURL      = "https://na1.api.riotgames.com"
	americasBaseURL = "https://americas.api.riotgames.com"

	defaultRequestTimeout = 30 * time.Second

	// match-v5 caps the ids page size at 100.
	maxMatchIDPage = 100
)

// recognizedQueues is the fixed set of queue names the league endpoint
// accepts. Checked before a rate-limit slot is consumed.
var recognizedQueues = map[string]bool{
	QueueRankedSolo:  true,
	"RANKED_FLEX_SR": true,
}

// Client is a rate-limited Riot API client. All callers share one
// Budget, so concurrent fetches collectively respect the limits.
type Client struct {
	apiKey     string
	httpClient *http.Client
	budget     *Budget
	retry      RetryPolicy

	platformURL string
	regionalURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBudget replaces the default rate-limit budget.
func WithBudget(b *Budget) ClientOption {
	return func(c *Client) { c.budget = b }
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) { c.retry = p.normalize() }
}

// WithPlatformURL overrides the platform host (useful for testing).
func WithPlatformURL(url string) ClientOption {
	return func(c *Client) { c.platformURL = url }
}

// WithRegionalURL overrides the regional host (useful for testing).
func WithRegionalURL(url string) ClientOption {
	return func(c *Client) { c.regionalURL = url }
}

// NewClient creates a Riot API client for the given key. The key is
// required; limits and retry behavior come from options or defaults.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("riot: api key is required")
	}

	c := &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		budget:      NewBudget(BudgetConfig{}),
		retry:       DefaultRetryPolicy().normalize(),
		platformURL: na1BaseURL,
		regionalURL: americasBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// get performs one rate-limited GET with retries and decodes the body
// into result. Transient failures (network errors, 5xx) back off
// exponentially; 429 waits for Retry-After; 404 and schema failures
// surface immediately.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, result interface{}) error {
	attempt := 0
	for {
		// Every attempt, including retries, consumes one budget slot.
		if err := c.budget.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("riot: %s: %w", endpoint, err)
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			attempt++
			if attempt >= c.retry.MaxAttempts {
				return fmt.Errorf("%w: %s: %v (after %d attempts)", ErrTransient, endpoint, err, attempt)
			}
			d := c.retry.Delay(attempt - 1)
			log.Printf("[Riot] %s attempt %d failed: %v, retrying in %s", endpoint, attempt, err, d.Round(time.Millisecond))
			if err := sleep(ctx, d); err != nil {
				return err
			}
			continue
		}

		done, err := c.handleResponse(ctx, endpoint, resp, result, &attempt)
		if done {
			return err
		}
	}
}

// handleResponse consumes resp and returns done=true when the call is
// finished (success or terminal error), done=false to retry.
func (c *Client) handleResponse(ctx context.Context, endpoint string, resp *http.Response, result interface{}, attempt *int) (bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return true, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, endpoint, err)
		}
		log.Printf("[Riot] %s ok", endpoint)
		return true, nil

	case resp.StatusCode == http.StatusNotFound:
		return true, fmt.Errorf("%w: %s", ErrNotFound, endpoint)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return true, fmt.Errorf("%w: %s returned %d", ErrUnauthorized, endpoint, resp.StatusCode)

	case resp.StatusCode == http.StatusTooManyRequests:
		*attempt++
		if *attempt >= c.retry.MaxAttempts {
			return true, fmt.Errorf("%w: %s (after %d attempts)", ErrRateLimited, endpoint, *attempt)
		}
		// Server-supplied Retry-After takes precedence over the
		// computed backoff.
		wait := c.retry.Delay(*attempt - 1)
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		log.Printf("[Riot] %s rate limited (429), waiting %s (attempt %d/%d)", endpoint, wait, *attempt, c.retry.MaxAttempts)
		if err := sleep(ctx, wait); err != nil {
			return true, err
		}
		return false, nil

	case resp.StatusCode >= 500:
		*attempt++
		if *attempt >= c.retry.MaxAttempts {
			return true, fmt.Errorf("%w: %s returned %d (after %d attempts)", ErrTransient, endpoint, resp.StatusCode, *attempt)
		}
		d := c.retry.Delay(*attempt - 1)
		log.Printf("[Riot] %s returned %d, retrying in %s (attempt %d/%d)", endpoint, resp.StatusCode, d.Round(time.Millisecond), *attempt, c.retry.MaxAttempts)
		if err := sleep(ctx, d); err != nil {
			return true, err
		}
		return false, nil

	default:
		return true, &StatusError{Code: resp.StatusCode, Endpoint: endpoint}
	}
}

// GetChallengerLeague fetches the challenger ladder for a queue.
func (c *Client) GetChallengerLeague(ctx context.Context, queue string) (*ChallengerLeague, error) {
	if queue == "" {
		queue = QueueRankedSolo
	}
	if !recognizedQueues[queue] {
		return nil, &ParamError{Op: "GetChallengerLeague", Reason: fmt.Sprintf("unrecognized queue %q", queue)}
	}

	u := fmt.Sprintf("%s/lol/league/v4/challengerleagues/by-queue/%s", c.platformURL, url.PathEscape(queue))

	var league ChallengerLeague
	if err := c.get(ctx, "challenger-league", u, &league); err != nil {
		return nil, err
	}
	if err := league.Validate(); err != nil {
		return nil, err
	}
	return &league, nil
}

// GetSummonerByID fetches a summoner by encrypted summoner ID.
func (c *Client) GetSummonerByID(ctx context.Context, summonerID string) (*Summoner, error) {
	if summonerID == "" {
		return nil, &ParamError{Op: "GetSummonerByID", Reason: "summonerID is empty"}
	}

	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/%s", c.platformURL, url.PathEscape(summonerID))

	var s Summoner
	if err := c.get(ctx, "summoner-by-id", u, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetTopPlayers returns the top count challenger players by league
// points, resolved to summoners.
func (c *Client) GetTopPlayers(ctx context.Context, count int) ([]Summoner, error) {
	if count <= 0 {
		return nil, &ParamError{Op: "GetTopPlayers", Reason: "count must be positive"}
	}

	league, err := c.GetChallengerLeague(ctx, QueueRankedSolo)
	if err != nil {
		return nil, err
	}

	entries := make([]LeagueEntry, len(league.Entries))
	copy(entries, league.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LeaguePoints > entries[j].LeaguePoints
	})
	if count > len(entries) {
		count = len(entries)
	}

	summoners := make([]Summoner, 0, count)
	for _, entry := range entries[:count] {
		s, err := c.GetSummonerByID(ctx, entry.SummonerID)
		if err != nil {
			return nil, fmt.Errorf("top players: summoner %s: %w", entry.SummonerID, err)
		}
		summoners = append(summoners, *s)
	}
	return summoners, nil
}

// GetMatchIDs fetches a page of match IDs for a player, most recent
// first. start/count page through history.
func (c *Client) GetMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	if puuid == "" {
		return nil, &ParamError{Op: "GetMatchIDs", Reason: "puuid is empty"}
	}
	if start < 0 {
		return nil, &ParamError{Op: "GetMatchIDs", Reason: "start must be non-negative"}
	}
	if count <= 0 || count > maxMatchIDPage {
		return nil, &ParamError{Op: "GetMatchIDs", Reason: fmt.Sprintf("count must be in 1..%d", maxMatchIDPage)}
	}

	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d",
		c.regionalURL, url.PathEscape(puuid), start, count)

	var ids []string
	if err := c.get(ctx, "match-ids", u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMatch fetches full match details and validates the payload.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	if matchID == "" {
		return nil, &ParamError{Op: "GetMatch", Reason: "matchID is empty"}
	}

	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalURL, url.PathEscape(matchID))

	var m Match
	if err := c.get(ctx, "match", u, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
