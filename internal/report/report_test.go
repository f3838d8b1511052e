package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"lolreport/internal/stats"
)

func sampleTiers() map[stats.Tier][]*stats.ChampionStat {
	return map[stats.Tier][]*stats.ChampionStat{
		stats.TierS: {
			{ChampionID: 266, ChampionName: "Aatrox", Games: 10, Wins: 7, Kills: 80, Deaths: 40, Assists: 60},
		},
		stats.TierB: {
			{ChampionID: 103, ChampionName: "Ahri", Games: 8, Wins: 4, Kills: 50, Deaths: 30, Assists: 70},
		},
	}
}

// TestBuildInput tests tier ordering and derived fields in the model input.
func TestBuildInput(t *testing.T) {
	input := BuildInput(sampleTiers(), 18, "15.4.123")

	if input.TotalMatches != 18 {
		t.Errorf("Expected 18 total matches, got %d", input.TotalMatches)
	}
	if len(input.Champions) != 2 {
		t.Fatalf("Expected 2 champions, got %d", len(input.Champions))
	}
	// S tier comes before B tier.
	if input.Champions[0].ChampionName != "Aatrox" || input.Champions[0].Tier != "S" {
		t.Errorf("Expected Aatrox/S first, got %s/%s", input.Champions[0].ChampionName, input.Champions[0].Tier)
	}
	if input.Champions[1].Tier != "B" {
		t.Errorf("Expected B tier second, got %s", input.Champions[1].Tier)
	}
	if got := input.Champions[0].WinRate; got != 0.7 {
		t.Errorf("Expected win rate 0.7, got %v", got)
	}
}

// TestGenerator_Success tests a mocked generateContent round trip.
func TestGenerator_Success(t *testing.T) {
	const wantHTML = "<!DOCTYPE html><html><body>report</body></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("Expected api key in query string")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) == 0 {
			t.Error("Expected a system instruction")
		}
		if len(req.Contents) == 0 || !strings.Contains(req.Contents[0].Parts[0].Text, "Aatrox") {
			t.Error("Expected champion data in the user content")
		}

		resp := generateResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content content `json:"content"`
		}{Content: content{Parts: []part{{Text: wantHTML}}}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	g, err := NewGenerator("test-key", WithGeneratorBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	html, err := g.Generate(context.Background(), BuildInput(sampleTiers(), 18, "15.4.123"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if html != wantHTML {
		t.Errorf("Expected model HTML back, got %q", html)
	}
}

// TestGenerator_RetriesOn429 tests that a 429 is retried after Retry-After.
func TestGenerator_RetriesOn429(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"<!DOCTYPE html><html></html>"}]}}]}`))
	}))
	defer server.Close()

	g, err := NewGenerator("test-key", WithGeneratorBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	start := time.Now()
	html, err := g.Generate(context.Background(), BuildInput(sampleTiers(), 1, ""))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if html == "" {
		t.Error("Expected HTML after retry")
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests, got %d", requests)
	}
	if time.Since(start) < time.Second {
		t.Error("Expected Retry-After wait before second attempt")
	}
}

// TestGenerator_EmptyCandidates tests that an empty response is an error.
func TestGenerator_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	g, err := NewGenerator("test-key", WithGeneratorBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if _, err := g.Generate(context.Background(), BuildInput(sampleTiers(), 1, "")); err == nil {
		t.Error("Expected error for empty candidates")
	}
}

// TestRenderFallback tests the local template renderer.
func TestRenderFallback(t *testing.T) {
	input := BuildInput(sampleTiers(), 18, "15.4.123")

	html, err := RenderFallback(input)
	if err != nil {
		t.Fatalf("RenderFallback failed: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"S Tier Champions",
		"B Tier Champions",
		"Aatrox",
		"Ahri",
		"70.0%",
		"</html>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Fallback HTML missing %q", want)
		}
	}
}

// TestChampionImageKey tests display-name to Data Dragon key mapping.
func TestChampionImageKey(t *testing.T) {
	cases := map[string]string{
		"Aatrox":         "Aatrox",
		"Wukong":         "MonkeyKing",
		"Kai'Sa":         "KaiSa",
		"Dr. Mundo":      "DrMundo",
		"Nunu & Willump": "Nunu",
	}
	for name, want := range cases {
		if got := championImageKey(name); got != want {
			t.Errorf("championImageKey(%q) = %q, want %q", name, got, want)
		}
	}
}

// TestWrite tests that the report lands in a timestamped HTML file.
func TestWrite(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir, "<!DOCTYPE html><html></html>")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !strings.HasPrefix(path, dir) {
		t.Errorf("Report written outside output dir: %s", path)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("Expected .html file, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report back: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("Report content missing")
	}
}
