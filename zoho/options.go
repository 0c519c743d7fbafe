package zoho

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy replaces the retry policy used for invoice fetches.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithReauthOnUnauthorized controls whether a 401 on the data path
// triggers one token refresh and retry before failing.
func WithReauthOnUnauthorized(enabled bool) Option {
	return func(c *Client) {
		c.reauthOnUnauthorized = enabled
	}
}

// WithClock overrides the time source used for token expiry checks.
// Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
