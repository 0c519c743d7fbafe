package zoho

import (
	"context"
	"errors"
	"time"

	"github.com/jpillora/backoff"
)

// RetryPolicy decides whether a failed invoice fetch gets another
// attempt and how long to wait before it. Only transient conditions
// retry: network errors and 5xx responses. Authentication failures and
// other 4xx responses never do.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     *backoff.Backoff
}

// DefaultRetryPolicy returns the policy used when none is configured:
// three attempts with exponential backoff between 1s and 30s.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(3, time.Second, 30*time.Second)
}

// NewRetryPolicy creates a retry policy with exponential backoff
// between min and max. maxAttempts below 1 is clamped to 1.
func NewRetryPolicy(maxAttempts int, min, max time.Duration) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff: &backoff.Backoff{
			Min:    min,
			Max:    max,
			Factor: 2,
		},
	}
}

// ShouldRetry reports whether another attempt may follow the given
// outcome. A non-nil err means the request never produced a response;
// context cancellation is the caller's decision and is not retried.
func (p RetryPolicy) ShouldRetry(statusCode int, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return statusCode >= 500
}

// Delay returns how long to sleep before the attempt following the
// given one. Delay(1) is the wait after the first failed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.Backoff.ForAttempt(float64(attempt - 1))
}
