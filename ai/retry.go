package ai

import (
	"context"
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns exponential backoff with jitter.
// Base delay is doubled each attempt and capped at 30 seconds before
// jitter, with random jitter up to 25%. Doubling stops at the cap, so a
// large base delay can never overflow into a negative duration.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	const maxBackoff = 30 * time.Second

	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}

	backoff := baseDelay
	for i := 0; i < attempt && backoff < maxBackoff; i++ {
		backoff *= 2
		// A doubling that overflows lands negative; treat it as the cap.
		if backoff <= 0 {
			backoff = maxBackoff
		}
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	// Add jitter: -25% to +25% using auto-seeded math/rand/v2
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// Retry runs fn up to maxAttempts times with exponential backoff between
// attempts. It stops early when fn succeeds or the context is cancelled;
// a cancelled context surfaces as the context's error, never as a hang.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(CalculateBackoff(baseDelay, attempt)):
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
