package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-prophet/internal/database"
	"github.com/yourusername/pitch-prophet/internal/models"
)

// PostgresProbabilityRepository implements ProbabilityRepository for PostgreSQL
type PostgresProbabilityRepository struct {
	db *database.DB
}

// NewPostgresProbabilityRepository creates a new probability repository
func NewPostgresProbabilityRepository(db *database.DB) ProbabilityRepository {
	return &PostgresProbabilityRepository{db: db}
}

// GetByEvent retrieves all estimates for one event
func (r *PostgresProbabilityRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Probability, error) {
	query := `
		SELECT id, event_id, market, sub_market, probability, confidence, sample_size, last_calculated
		FROM probabilities
		WHERE event_id = $1
		ORDER BY market, sub_market
	`

	rows, err := r.db.GetPool().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query probabilities: %w", err)
	}
	defer rows.Close()

	var probabilities []*models.Probability
	for rows.Next() {
		p := &models.Probability{}
		err := rows.Scan(
			&p.ID, &p.EventID, &p.Market, &p.SubMarket,
			&p.Probability, &p.Confidence, &p.SampleSize, &p.LastCalculated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan probability: %w", err)
		}
		probabilities = append(probabilities, p)
	}

	return probabilities, rows.Err()
}

// GetHighConfidence lists High-tier estimates across all events, strongest first
func (r *PostgresProbabilityRepository) GetHighConfidence(ctx context.Context, limit int) ([]*models.Probability, error) {
	query := `
		SELECT id, event_id, market, sub_market, probability, confidence, sample_size, last_calculated
		FROM probabilities
		WHERE confidence = $1
		ORDER BY probability DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.ConfidenceHigh, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query high-confidence probabilities: %w", err)
	}
	defer rows.Close()

	var probabilities []*models.Probability
	for rows.Next() {
		p := &models.Probability{}
		err := rows.Scan(
			&p.ID, &p.EventID, &p.Market, &p.SubMarket,
			&p.Probability, &p.Confidence, &p.SampleSize, &p.LastCalculated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan probability: %w", err)
		}
		probabilities = append(probabilities, p)
	}

	return probabilities, rows.Err()
}

// ReplaceForEvent swaps the event's estimate set in a single transaction, so
// readers never observe the window between the delete and the inserts.
func (r *PostgresProbabilityRepository) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, probabilities []*models.Probability) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM probabilities WHERE event_id = $1", eventID); err != nil {
			return fmt.Errorf("failed to clear probabilities: %w", err)
		}

		query := `
			INSERT INTO probabilities (id, event_id, market, sub_market, probability, confidence, sample_size, last_calculated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		for _, p := range probabilities {
			_, err := tx.Exec(ctx, query,
				p.ID, p.EventID, p.Market, p.SubMarket,
				p.Probability, p.Confidence, p.SampleSize, p.LastCalculated,
			)
			if err != nil {
				return fmt.Errorf("failed to insert probability: %w", err)
			}
		}
		return nil
	})
}

// Clear removes every estimate
func (r *PostgresProbabilityRepository) Clear(ctx context.Context) error {
	if _, err := r.db.GetPool().Exec(ctx, "DELETE FROM probabilities"); err != nil {
		return fmt.Errorf("failed to clear probabilities: %w", err)
	}
	return nil
}
