package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/metrics"
)

// ErrRateLimited tags an error as an upstream rate-limit rejection. Wrap it
// with RateLimitError so WithRetry keeps retrying the operation.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitError wraps err so IsRateLimit recognizes it
func RateLimitError(err error) error {
	return fmt.Errorf("%w: %v", ErrRateLimited, err)
}

// IsRateLimit reports whether err is tagged as a rate-limit rejection
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// RetryOptions controls WithRetry behavior
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryOptions matches the store write policy: three retries with
// exponential backoff starting at one second.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxRetries: 3, BaseDelay: time.Second}
}

// WithRetry invokes op, retrying on failure with delay base*2^(attempt-1).
// Rate-limit errors are always retried; every other error class shares the
// same retry budget before the final error propagates. Context cancellation
// aborts immediately regardless of remaining attempts.
func WithRetry(ctx context.Context, logger *logrus.Logger, opts RetryOptions, op func() error) error {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.BaseDelay * (1 << (attempt - 1))
			logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"max":     opts.MaxRetries + 1,
				"delay":   delay,
			}).Debug("Retrying operation")
			metrics.OperationRetriesTotal.Inc()

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if IsRateLimit(lastErr) {
			logger.WithField("attempt", attempt+1).Debug("Rate limit hit, will retry")
			continue
		}
	}
	return lastErr
}
