package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/httpclient"
)

const dateFormat = "2006-01-02"

// Client talks to the external fixtures/results API through a rate-limited
// HTTP client. The request budget follows the configured API plan.
type Client struct {
	httpClient *httpclient.RateLimitedClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewClient creates a new fixtures/results API client
func NewClient(httpClient *httpclient.RateLimitedClient, baseURL, apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// FetchFixtures retrieves all fixtures for a competition within [from, to]
func (c *Client) FetchFixtures(ctx context.Context, competitionCode string, from, to time.Time) ([]Fixture, error) {
	params := url.Values{}
	params.Set("dateFrom", from.Format(dateFormat))
	params.Set("dateTo", to.Format(dateFormat))

	var envelope matchListResponse
	endpoint := fmt.Sprintf("%s/competitions/%s/matches?%s", c.baseURL, competitionCode, params.Encode())
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures for %s: %w", competitionCode, err)
	}
	return envelope.Matches, nil
}

// FetchFinishedMatches retrieves completed matches for a competition within [from, to]
func (c *Client) FetchFinishedMatches(ctx context.Context, competitionCode string, from, to time.Time) ([]Fixture, error) {
	params := url.Values{}
	params.Set("dateFrom", from.Format(dateFormat))
	params.Set("dateTo", to.Format(dateFormat))
	params.Set("status", "FINISHED")

	var envelope matchListResponse
	endpoint := fmt.Sprintf("%s/competitions/%s/matches?%s", c.baseURL, competitionCode, params.Encode())
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch finished matches for %s: %w", competitionCode, err)
	}
	return envelope.Matches, nil
}

// FetchMatchIncidents retrieves in-match events for a single match. Only
// available on paid plans; a 403/404 response yields an empty slice rather
// than an error because enhanced data is opportunistic.
func (c *Client) FetchMatchIncidents(ctx context.Context, matchID string) ([]MatchIncident, error) {
	var envelope matchEventsResponse
	endpoint := fmt.Sprintf("%s/matches/%s/events", c.baseURL, matchID)
	err := c.getJSON(ctx, endpoint, &envelope)
	if err != nil {
		if isMissingFeature(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch incidents for match %s: %w", matchID, err)
	}
	return envelope.Events, nil
}

// TestConnection verifies the API is reachable and the key is accepted
func (c *Client) TestConnection(ctx context.Context) error {
	var envelope competitionListResponse
	if err := c.getJSON(ctx, c.baseURL+"/competitions", &envelope); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	c.logger.WithField("competitions", len(envelope.Competitions)).Info("Fixtures API connection successful")
	return nil
}

// getJSON performs an authenticated GET request and decodes the response body
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthenticationFailed
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: plan does not cover this endpoint", ErrNotFound)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return httpclient.RateLimitError(fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: unexpected status %d: %s", ErrServerError, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

func isMissingFeature(err error) bool {
	return errors.Is(err, ErrNotFound)
}
