package fetch

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for chapter retrieval.
var (
	ErrInvalidURL  = errors.New("fetch: invalid url")
	ErrNotFound    = errors.New("fetch: not found")
	ErrRateLimited = errors.New("fetch: rate limited by server")
	ErrServer      = errors.New("fetch: server error")
	ErrStatus      = errors.New("fetch: unexpected status")
	ErrTooLarge    = errors.New("fetch: response body too large")

	errLimitWait = errors.New("fetch: rate limit wait")
)

// Error wraps the final failure for one location.
type Error struct {
	URL      string
	Status   int // 0 when no response was received
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("fetch %s: %v (after %d attempts)", e.URL, e.Err, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// retryable reports whether a failed attempt may succeed when repeated:
// server errors, throttling, per-attempt timeouts and transport failures.
// Client errors, oversize bodies and cancellation are permanent.
func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrStatus),
		errors.Is(err, ErrTooLarge),
		errors.Is(err, errLimitWait),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}
