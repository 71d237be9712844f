package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/pitch-prophet/internal/docstore"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const probabilitiesCollection = "probabilities"

// DocumentsProbabilityRepository implements ProbabilityRepository over the
// hosted document store. The store has no transactions, so ReplaceForEvent
// deletes then recreates sequentially; a crash in between leaves the event
// without estimates until the next recomputation.
type DocumentsProbabilityRepository struct {
	client *docstore.Client
}

// NewDocumentsProbabilityRepository creates a new probability repository
func NewDocumentsProbabilityRepository(client *docstore.Client) ProbabilityRepository {
	return &DocumentsProbabilityRepository{client: client}
}

// GetByEvent retrieves all estimates for one event
func (r *DocumentsProbabilityRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Probability, error) {
	var probabilities []*models.Probability
	queries := []docstore.Query{
		docstore.Equal("event_id", eventID.String()),
	}
	if err := r.client.List(ctx, probabilitiesCollection, queries, &probabilities); err != nil {
		return nil, fmt.Errorf("failed to query probabilities: %w", err)
	}
	return probabilities, nil
}

// GetHighConfidence lists High-tier estimates across all events, strongest first
func (r *DocumentsProbabilityRepository) GetHighConfidence(ctx context.Context, limit int) ([]*models.Probability, error) {
	var probabilities []*models.Probability
	queries := []docstore.Query{
		docstore.Equal("confidence", models.ConfidenceHigh),
		docstore.OrderDesc("probability"),
		docstore.Limit(limit),
	}
	if err := r.client.List(ctx, probabilitiesCollection, queries, &probabilities); err != nil {
		return nil, fmt.Errorf("failed to query high-confidence probabilities: %w", err)
	}
	return probabilities, nil
}

// ReplaceForEvent clears the event's estimates and writes the new set
func (r *DocumentsProbabilityRepository) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, probabilities []*models.Probability) error {
	if err := r.deleteForEvent(ctx, eventID); err != nil {
		return err
	}

	for _, p := range probabilities {
		if err := r.client.Create(ctx, probabilitiesCollection, p.ID.String(), p); err != nil {
			return fmt.Errorf("failed to create probability: %w", err)
		}
	}
	return nil
}

// deleteForEvent removes all estimates for one event
func (r *DocumentsProbabilityRepository) deleteForEvent(ctx context.Context, eventID uuid.UUID) error {
	existing, err := r.GetByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	for _, p := range existing {
		err := r.client.Delete(ctx, probabilitiesCollection, p.ID.String())
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to delete probability: %w", err)
		}
	}
	return nil
}

// Clear removes every estimate, in pages because the store caps list sizes
func (r *DocumentsProbabilityRepository) Clear(ctx context.Context) error {
	for {
		var page []*models.Probability
		queries := []docstore.Query{docstore.Limit(100)}
		if err := r.client.List(ctx, probabilitiesCollection, queries, &page); err != nil {
			return fmt.Errorf("failed to list probabilities: %w", err)
		}
		if len(page) == 0 {
			return nil
		}

		for _, p := range page {
			err := r.client.Delete(ctx, probabilitiesCollection, p.ID.String())
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("failed to delete probability: %w", err)
			}
		}
	}
}
