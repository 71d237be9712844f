// Package docstore provides a client for the hosted document database's REST
// API. The pipeline treats the store as a generic CRUD collection service;
// every call goes through the shared rate-limited HTTP client so the
// document-store budget is respected process-wide.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/httpclient"
	"github.com/yourusername/pitch-prophet/internal/models"
)

// Client is a document database REST client scoped to one database
type Client struct {
	httpClient *httpclient.RateLimitedClient
	endpoint   string
	projectID  string
	apiKey     string
	databaseID string
	logger     *logrus.Logger
}

// NewClient creates a document store client
func NewClient(httpClient *httpclient.RateLimitedClient, endpoint, projectID, apiKey, databaseID string, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		projectID:  projectID,
		apiKey:     apiKey,
		databaseID: databaseID,
		logger:     logger,
	}
}

// Document is a stored record with its server-side envelope
type Document struct {
	ID   string          `json:"$id"`
	Data json.RawMessage `json:"-"`
}

// listResponse is the envelope around document listings
type listResponse struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

// createRequest is the payload for document creation
type createRequest struct {
	DocumentID string      `json:"documentId"`
	Data       interface{} `json:"data"`
}

// updateRequest is the payload for document updates
type updateRequest struct {
	Data interface{} `json:"data"`
}

// List retrieves documents matching the queries, decoding each into a fresh
// element of out's slice type. out must be a pointer to a slice.
func (c *Client) List(ctx context.Context, collection string, queries []Query, out interface{}) error {
	params := url.Values{}
	for _, q := range queries {
		encoded, err := q.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode query: %w", err)
		}
		params.Add("queries[]", encoded)
	}

	endpoint := fmt.Sprintf("%s/databases/%s/collections/%s/documents", c.endpoint, c.databaseID, collection)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var envelope listResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode document list: %w", err)
	}

	raw, err := json.Marshal(envelope.Documents)
	if err != nil {
		return fmt.Errorf("failed to re-encode documents: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode documents: %w", err)
	}
	return nil
}

// Get retrieves one document by ID, decoding it into out
func (c *Client) Get(ctx context.Context, collection, documentID string, out interface{}) error {
	endpoint := fmt.Sprintf("%s/databases/%s/collections/%s/documents/%s", c.endpoint, c.databaseID, collection, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Create stores a new document under the given client-generated ID
func (c *Client) Create(ctx context.Context, collection, documentID string, data interface{}) error {
	payload, err := json.Marshal(createRequest{DocumentID: documentID, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	endpoint := fmt.Sprintf("%s/databases/%s/collections/%s/documents", c.endpoint, c.databaseID, collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

// Update patches an existing document
func (c *Client) Update(ctx context.Context, collection, documentID string, data interface{}) error {
	payload, err := json.Marshal(updateRequest{Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	endpoint := fmt.Sprintf("%s/databases/%s/collections/%s/documents/%s", c.endpoint, c.databaseID, collection, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

// Delete removes a document
func (c *Client) Delete(ctx context.Context, collection, documentID string) error {
	endpoint := fmt.Sprintf("%s/databases/%s/collections/%s/documents/%s", c.endpoint, c.databaseID, collection, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	_, err = c.do(req)
	return err
}

// do executes the request with auth headers and maps status codes to errors
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("X-Project-ID", c.projectID)
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("document store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return nil, models.ErrAlreadyExists
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, httpclient.RateLimitError(fmt.Errorf("document store status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("document store status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
