package source

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

const MaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
// Past attempt 4 the base stays at the 30s cap.
func Backoff(attempt int) time.Duration {
	attempt = min(max(attempt, 0), 5)
	base := min(time.Duration(1<<uint(attempt))*time.Second, 30*time.Second)
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// FetchWithRetry calls f.Fetch up to attempts times, sleeping between
// retryable failures. wait is the sleep schedule; nil means Backoff.
func FetchWithRetry(ctx context.Context, f Fetcher, attempts int, wait func(int) time.Duration) (string, error) {
	if attempts <= 0 {
		attempts = 1
	}
	if wait == nil {
		wait = Backoff
	}
	var lastErr error
	for attempt := range attempts {
		text, err := f.Fetch(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == attempts-1 {
			break
		}
		select {
		case <-time.After(wait(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
