package interfaces

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError signals a throttled external call, carrying the server's
// Retry-After hint (or the caller's fallback when the server gave none).
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// AsRateLimit unwraps err into a *RateLimitError if it is one.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
