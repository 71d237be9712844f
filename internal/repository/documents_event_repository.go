package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/pitch-prophet/internal/docstore"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const eventsCollection = "events"

// DocumentsEventRepository implements EventRepository over the hosted
// document store
type DocumentsEventRepository struct {
	client *docstore.Client
}

// NewDocumentsEventRepository creates a new event repository
func NewDocumentsEventRepository(client *docstore.Client) EventRepository {
	return &DocumentsEventRepository{client: client}
}

// Create inserts a new event
func (r *DocumentsEventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.client.Create(ctx, eventsCollection, event.ID.String(), event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *DocumentsEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event := &models.Event{}
	if err := r.client.Get(ctx, eventsCollection, id.String(), event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetByExternalID retrieves an event by its upstream provider ID
func (r *DocumentsEventRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Event, error) {
	var events []*models.Event
	queries := []docstore.Query{
		docstore.Equal("external_id", externalID),
		docstore.Limit(1),
	}
	if err := r.client.List(ctx, eventsCollection, queries, &events); err != nil {
		return nil, fmt.Errorf("failed to query event by external id: %w", err)
	}
	if len(events) == 0 {
		return nil, models.ErrNotFound
	}
	return events[0], nil
}

// GetUpcoming retrieves upcoming events ordered by kickoff time
func (r *DocumentsEventRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	var events []*models.Event
	queries := []docstore.Query{
		docstore.Equal("status", models.StatusUpcoming),
		docstore.OrderAsc("kickoff"),
		docstore.Limit(limit),
	}
	if err := r.client.List(ctx, eventsCollection, queries, &events); err != nil {
		return nil, fmt.Errorf("failed to query upcoming events: %w", err)
	}
	return events, nil
}

// GetUpcomingByLeague retrieves upcoming events for one league
func (r *DocumentsEventRepository) GetUpcomingByLeague(ctx context.Context, league string, limit int) ([]*models.Event, error) {
	var events []*models.Event
	queries := []docstore.Query{
		docstore.Equal("status", models.StatusUpcoming),
		docstore.Equal("league", league),
		docstore.OrderAsc("kickoff"),
		docstore.Limit(limit),
	}
	if err := r.client.List(ctx, eventsCollection, queries, &events); err != nil {
		return nil, fmt.Errorf("failed to query upcoming events by league: %w", err)
	}
	return events, nil
}

// UpdateStatus transitions an event's lifecycle status
func (r *DocumentsEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	patch := map[string]string{"status": status}
	if err := r.client.Update(ctx, eventsCollection, id.String(), patch); err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	return nil
}

// Delete removes an event
func (r *DocumentsEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Delete(ctx, eventsCollection, id.String())
}
