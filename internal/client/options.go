package client

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Option configures optional Client settings.
type Option func(*options) error

type options struct {
	// httpClient is a custom HTTP client.
	httpClient *http.Client

	// timeout is the HTTP client timeout.
	timeout time.Duration
}

// WithHTTPClient sets a custom HTTP client. Overrides WithTimeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) error {
		if httpClient == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		o.httpClient = httpClient
		return nil
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

func defaultOptions() *options {
	return &options{timeout: 10 * time.Second}
}

func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
