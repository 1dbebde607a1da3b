package config

import (
	"strings"
	"time"
)

// APIConfig contains configuration for the backend API client.
type APIConfig struct {
	// BaseURL is the base URL of the MatchiFy backend. Endpoint paths
	// (auth/login, talent/me, ...) are resolved relative to it.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000/"`

	// Timeout bounds every request issued by the API client. A flow whose
	// request never resolves would otherwise sit in-flight forever.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// RetryLimit is the number of additional attempts for idempotent calls
	// (login, forgot-password, profile fetch). Zero keeps the source
	// behavior: fail until the user re-invokes the flow.
	RetryLimit int `env:"API_RETRY_LIMIT" envDefault:"0"`
}

// DefaultAPITimeout is applied when API_TIMEOUT is unset or non-positive.
const DefaultAPITimeout = 15 * time.Second

// Sanitize applies guardrails to API client configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimSpace(a.BaseURL)
	if a.BaseURL == "" {
		a.BaseURL = "http://localhost:3000/"
	}
	if !strings.HasSuffix(a.BaseURL, "/") {
		a.BaseURL += "/"
	}

	if a.Timeout <= 0 {
		a.Timeout = DefaultAPITimeout
	}
	if a.RetryLimit < 0 {
		a.RetryLimit = 0
	}
}
