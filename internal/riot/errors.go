package riot

import (
	"errors"
	"fmt"
)

// Error taxonomy for fetch failures. Callers should match with errors.Is.
var (
	// ErrNotFound means the API returned 404. Not retried - the player
	// or match simply doesn't exist.
	ErrNotFound = errors.New("riot: not found (404)")

	// ErrRateLimited means the retry budget was exhausted on 429 responses.
	ErrRateLimited = errors.New("riot: rate limit retries exhausted (429)")

	// ErrInvalidSchema means the response body didn't match the expected
	// shape. Never retried - it signals an API contract change.
	ErrInvalidSchema = errors.New("riot: response failed schema validation")

	// ErrUnauthorized means the API key was rejected (401/403).
	ErrUnauthorized = errors.New("riot: api key rejected")

	// ErrTransient wraps network failures and 5xx responses that were
	// retried with backoff until the attempt budget ran out.
	ErrTransient = errors.New("riot: transient failure")
)

// StatusError carries an unexpected HTTP status code.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riot: %s returned status %d", e.Endpoint, e.Code)
}

// ParamError reports invalid call parameters. Raised before a rate-limit
// slot is consumed, so a bad call never wastes budget.
type ParamError struct {
	Op     string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("riot: %s: %s", e.Op, e.Reason)
}
