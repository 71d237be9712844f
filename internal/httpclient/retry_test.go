package httpclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func fastRetry() RetryOptions {
	return RetryOptions{MaxRetries: 3, BaseDelay: time.Millisecond}
}

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), testLogger(), fastRetry(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryExhaustsBudgetOnPermanentError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := WithRetry(context.Background(), testLogger(), fastRetry(), func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, calls)
}

func TestWithRetryRecoversAfterRateLimit(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), testLogger(), fastRetry(), func() error {
		calls++
		if calls < 3 {
			return RateLimitError(errors.New("status 429"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryAbortsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := WithRetry(ctx, testLogger(), RetryOptions{MaxRetries: 5, BaseDelay: 50 * time.Millisecond}, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRateLimit(t *testing.T) {
	assert.True(t, IsRateLimit(RateLimitError(errors.New("status 429"))))
	assert.False(t, IsRateLimit(errors.New("status 500")))
	assert.False(t, IsRateLimit(nil))
}
