package llmprovider

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAllProvidersFailed indicates every provider in the chain failed
	// or was cooling down. Callers degrade to a static fallback; this is
	// never fatal.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrNoProvidersConfigured indicates no providers are enabled.
	ErrNoProvidersConfigured = errors.New("no providers configured")
)

// ProviderError wraps provider-specific errors.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// isRateLimited reports whether err carries an HTTP 429 from any of the
// provider clients.
func isRateLimited(err error) bool {
	var sc interface{ HTTPStatus() int }
	if errors.As(err, &sc) {
		return sc.HTTPStatus() == http.StatusTooManyRequests
	}
	return false
}
