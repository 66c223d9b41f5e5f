package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Rate limiting and retry defaults, shared by all providers.
const (
	// requestsPerSecond caps the steady-state call rate per client.
	requestsPerSecond = 2

	// burstSize allows short bursts above the steady rate.
	burstSize = 4

	// DefaultMaxRetries is the retry budget when none is configured.
	DefaultMaxRetries = 3

	// retryBaseDelay is the first backoff step; it doubles per attempt.
	retryBaseDelay = 500 * time.Millisecond
)

// caller wraps a completion client with a token-bucket rate limiter and
// exponential-backoff retries. Context cancellation aborts both the
// limiter wait and the backoff sleep.
type caller struct {
	client     completionClient
	limiter    *rate.Limiter
	maxRetries int
}

func newCaller(client completionClient, maxRetries int) *caller {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &caller{
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		maxRetries: maxRetries,
	}
}

// complete runs one rate-limited, retried completion call.
func (c *caller) complete(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			logger.Debug("Retrying %s call in %v (attempt %d/%d): %v",
				c.client.ModelName(), delay, attempt+1, c.maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}

		result, err := c.client.Complete(ctx, system, user)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Context errors are terminal; retrying cannot help.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", c.maxRetries, lastErr)
}
