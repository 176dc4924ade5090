package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy controls how transient extractor failures are retried.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the backoff before the first retry; it doubles per attempt.
	BaseDelay time.Duration

	// Jitter returns a factor in [0.5, 1) applied to every delay. Nil uses
	// a time-seeded random source.
	Jitter func() float64
}

// NewRetryPolicy builds a policy from configuration values, falling back to
// 3 retries and a 2 second base delay for out-of-range input.
func NewRetryPolicy(maxRetries, retryDelaySeconds int) RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 3
	}
	if retryDelaySeconds < 1 {
		retryDelaySeconds = 2
	}
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Duration(retryDelaySeconds) * time.Second,
	}
}

// Delay is the backoff before retry number attempt (0-based):
// BaseDelay * 2^attempt * jitter.
func (p RetryPolicy) Delay(attempt int, jitter float64) time.Duration {
	backoff := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	return time.Duration(backoff * jitter)
}

// Retry calls fn until it succeeds, returns an error that is not
// ErrTransientFailure, or the retries are used up. Waiting between attempts
// stops early when ctx is done.
func Retry(ctx context.Context, policy RetryPolicy, logger *slog.Logger, fn func(ctx context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	jitter := policy.Jitter
	if jitter == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		jitter = func() float64 { return 0.5 + rng.Float64()*0.5 }
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.InfoContext(ctx, "extractor call succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}

		if !errors.Is(err, ErrTransientFailure) {
			logger.WarnContext(ctx, "permanent extractor error, not retrying",
				"attempt", attempt+1,
				"error", err)
			return err
		}

		if attempt >= policy.MaxRetries {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_retries", policy.MaxRetries,
				"error", err)
			return fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, policy.MaxRetries, err)
		}

		delay := policy.Delay(attempt, jitter())
		logger.InfoContext(ctx, "retrying extractor call after delay",
			"attempt", attempt+1,
			"delay", delay.String())

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
