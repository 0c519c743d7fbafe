package zoho

import (
	"fmt"
	"net/http"
)

// AuthError indicates the OAuth token refresh failed or the upstream
// rejected the client's authentication. It is never retried: a stale
// refresh token does not get better by asking again.
type AuthError struct {
	StatusCode int // 0 when the failure happened before any HTTP status was received
	Message    string
	Err        error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("zoho auth error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("zoho auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError represents a Zoho Books API request failure: either a
// non-retriable 4xx response, or retries exhausted on transient
// conditions.
type APIError struct {
	StatusCode int // 0 when the last failure was a network error
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("zoho API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("zoho API error: %s", e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited checks if the error indicates request throttling
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
