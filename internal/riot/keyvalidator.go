package riot

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	// The status endpoint is the cheapest authenticated call, so it
	// doubles as a key probe.
	statusEndpoint = "/lol/status/v4/platform-data"

	defaultValidationTimeout = 10 * time.Second
)

// KeyValidator checks whether a Riot API key is accepted, by probing
// the platform status endpoint before a run starts.
type KeyValidator struct {
	httpClient *http.Client
	baseURL    string
}

// KeyValidatorOption configures a KeyValidator.
type KeyValidatorOption func(*KeyValidator)

// WithValidatorBaseURL sets a custom base URL (useful for testing).
func WithValidatorBaseURL(url string) KeyValidatorOption {
	return func(v *KeyValidator) { v.baseURL = url }
}

// WithValidatorTimeout sets a custom timeout for the probe request.
func WithValidatorTimeout(timeout time.Duration) KeyValidatorOption {
	return func(v *KeyValidator) { v.httpClient.Timeout = timeout }
}

// NewKeyValidator creates a KeyValidator with the given options.
func NewKeyValidator(opts ...KeyValidatorOption) *KeyValidator {
	v := &KeyValidator{
		httpClient: &http.Client{Timeout: defaultValidationTimeout},
		baseURL:    na1BaseURL,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateKey probes the API with the given key. Returns:
//   - (true, nil) if the key is accepted
//   - (false, nil) if the key is rejected (401/403)
//   - (false, error) if validity couldn't be determined (network/5xx)
func (v *KeyValidator) ValidateKey(ctx context.Context, apiKey string) (bool, error) {
	if apiKey == "" {
		return false, fmt.Errorf("riot: api key cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+statusEndpoint, nil)
	if err != nil {
		return false, fmt.Errorf("riot: create probe request: %w", err)
	}
	req.Header.Set("X-Riot-Token", apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("riot: key probe failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	default:
		// Can't tell whether the key is valid.
		return false, &StatusError{Code: resp.StatusCode, Endpoint: "status-probe"}
	}
}
