package gotrue

import (
	"net/http"
	"strings"
	"time"
)

// Config holds the connection and verification options for the
// identity service.
type Config struct {
	// BaseURL is the root of the auth API (e.g. "https://id.example.com/auth/v1").
	BaseURL string

	// APIKey is the public API key sent on every request.
	APIKey string

	// JWTSecret enables local HS256 verification of access tokens.
	// Leave empty to use JWKS instead.
	JWTSecret string

	// JWKSURL enables local RS256 verification via a JWKS endpoint
	// with background refresh. Ignored when JWTSecret is set.
	JWKSURL string

	// JWKSRefreshInterval is how often keys are refreshed.
	// Default: 1 hour.
	JWKSRefreshInterval time.Duration

	// HTTPClient overrides the client used for API calls (optional).
	HTTPClient *http.Client

	// Timeout bounds each API call when HTTPClient is not provided.
	// Default: 10 seconds.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a service
// secured with a shared HS256 secret.
func DefaultConfig(baseURL, apiKey, jwtSecret string) Config {
	return Config{
		BaseURL:             baseURL,
		APIKey:              apiKey,
		JWTSecret:           jwtSecret,
		JWKSRefreshInterval: time.Hour,
		Timeout:             10 * time.Second,
	}
}

func (c Config) baseURL() string {
	return strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{Timeout: timeout}
}
