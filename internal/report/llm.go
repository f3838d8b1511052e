// Package report turns champion aggregates into an HTML report, either
// via a hosted LLM or a local template fallback.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultGeminiBase  = "https://generativelanguage.googleapis.com/v1beta"
	defaultLLMTimeout  = 120 * time.Second
	maxLLMRetries      = 3
	defaultRetryWait   = 5 * time.Second
)

// generateRequest is the generateContent request body.
type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the generateContent response we use.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generator calls the hosted model API to produce the HTML report.
type Generator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithModel overrides the default model name.
func WithModel(model string) GeneratorOption {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGeneratorBaseURL overrides the API host (useful for testing).
func WithGeneratorBaseURL(url string) GeneratorOption {
	return func(g *Generator) { g.baseURL = url }
}

// WithGeneratorTimeout overrides the request timeout.
func WithGeneratorTimeout(timeout time.Duration) GeneratorOption {
	return func(g *Generator) { g.httpClient.Timeout = timeout }
}

// NewGenerator creates a report generator for the given API key.
func NewGenerator(apiKey string, opts ...GeneratorOption) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("report: model api key is required")
	}
	g := &Generator{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultGeminiBase,
		httpClient: &http.Client{Timeout: defaultLLMTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate sends the aggregate summary to the model and returns the
// HTML report. Retries on 429 with the server's Retry-After when given.
func (g *Generator) Generate(ctx context.Context, input *Input) (string, error) {
	dataJSON, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("report: marshal input: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: analystSystemPrompt}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: string(dataJSON)}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("report: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	for attempt := 0; attempt < maxLLMRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("report: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("report: model request failed: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			defer resp.Body.Close()
			var out generateResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return "", fmt.Errorf("report: decode model response: %w", err)
			}
			return extractText(&out)

		case http.StatusTooManyRequests:
			resp.Body.Close()
			wait := defaultRetryWait
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
					wait = time.Duration(secs) * time.Second
				}
			}
			log.Printf("[Report] model rate limited, waiting %s (attempt %d/%d)", wait, attempt+1, maxLLMRetries)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}

		default:
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return "", fmt.Errorf("report: model returned status %d: %s", resp.StatusCode, snippet)
		}
	}

	return "", fmt.Errorf("report: model request failed after %d retries", maxLLMRetries)
}

// extractText pulls the first candidate's text out of the response.
func extractText(out *generateResponse) (string, error) {
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("report: model returned no candidates")
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("report: model returned empty text")
	}
	return text, nil
}
