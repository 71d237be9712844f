// Package httpclient provides rate-limited HTTP transport shared by the
// football-data API client and the document store client. Each client holds
// its own limiter instance so the two budgets never interfere.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/pitch-prophet/internal/metrics"
)

// Config holds configuration for a rate-limited HTTP client
type Config struct {
	Name              string
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RequestsPerMinute int
}

// DefaultConfig returns recommended defaults for the given budget
func DefaultConfig(name string, requestsPerMinute int) Config {
	return Config{
		Name:              name,
		Timeout:           10 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      1 * time.Second,
		RetryWaitMax:      10 * time.Second,
		RequestsPerMinute: requestsPerMinute,
	}
}

// RateLimitedClient wraps retryablehttp.Client with a minimum-interval gate.
// A budget of N requests per minute means consecutive calls through the same
// instance are spaced at least 60s/N apart.
type RateLimitedClient struct {
	name    string
	client  *retryablehttp.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// New creates a rate-limited HTTP client
func New(cfg Config, logger *logrus.Logger) *RateLimitedClient {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = nil

	interval := time.Minute / time.Duration(cfg.RequestsPerMinute)

	return &RateLimitedClient{
		name:    cfg.Name,
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

// WaitIfNeeded blocks until the minimum interval since the previous call
// through this instance has elapsed. Exposed so callers that talk to the
// same upstream outside this client can share the budget.
func (c *RateLimitedClient) WaitIfNeeded(ctx context.Context) error {
	reservation := c.limiter.Reserve()
	delay := reservation.Delay()
	if delay > 0 {
		c.logger.WithFields(logrus.Fields{
			"client": c.name,
			"wait":   delay,
		}).Debug("Rate limiting: waiting before next request")
		metrics.RateLimiterWaitsTotal.WithLabelValues(c.name).Inc()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			reservation.Cancel()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Do executes an HTTP request through the rate limiter and retry transport
func (c *RateLimitedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.WaitIfNeeded(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}

	metrics.HTTPRequestsTotal.WithLabelValues(c.name).Inc()
	resp, err := c.client.Do(retryReq)
	if err != nil {
		metrics.HTTPRequestErrorsTotal.WithLabelValues(c.name).Inc()
		return nil, err
	}
	return resp, nil
}

// Get executes a GET request
func (c *RateLimitedClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Post executes a POST request
func (c *RateLimitedClient) Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

// Close closes idle connections held by the client
func (c *RateLimitedClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// retryPolicy retries rate-limit responses and server errors; client errors
// other than 429 are returned immediately.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return true, nil
		}
		if resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}
