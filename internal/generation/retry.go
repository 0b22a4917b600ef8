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

// RetryConfig controls the exponential backoff applied to provider calls.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt
	MaxRetries int

	// BaseDelaySeconds is the backoff base; the delay for attempt n is
	// BaseDelaySeconds * 2^n scaled by jitter
	BaseDelaySeconds int
}

// WithRetry runs fn with exponential backoff and jitter. Transient
// errors are retried up to cfg.MaxRetries times; permanent errors
// (blocked content, malformed responses, invalid configuration) are
// returned immediately.
func WithRetry(ctx context.Context, logger *slog.Logger, cfg RetryConfig, fn func(ctx context.Context) error) error {
	maxRetries := cfg.MaxRetries
	baseDelaySeconds := cfg.BaseDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1 // 1-based for logging
		logger.DebugContext(ctx, "making provider call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		err := fn(ctx)
		if err == nil {
			return nil
		}

		logger.ErrorContext(ctx, "provider call failed",
			"attempt", attemptNum,
			"error", err)

		if IsPermanent(err) {
			logger.WarnContext(ctx, "permanent error occurred, not retrying", "error", err)
			return err
		}

		if attempt >= maxRetries {
			logger.WarnContext(ctx, "maximum retry attempts reached", "max_retries", maxRetries)
			return fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			logger.WarnContext(ctx, "provider call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}

// IsPermanent reports whether the error should not be retried.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrEmptySourceText) ||
		errors.Is(err, ErrEmptyPrompt)
}
