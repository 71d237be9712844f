package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-prophet/internal/database"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const errScanEvent = "failed to scan event: %w"

const eventColumns = `id, home_team, away_team, league, kickoff, venue, status, season, external_id, created_at, updated_at`

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *database.DB
}

// NewPostgresEventRepository creates a new event repository
func NewPostgresEventRepository(db *database.DB) EventRepository {
	return &PostgresEventRepository{db: db}
}

// Create inserts a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, home_team, away_team, league, kickoff, venue, status, season, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		event.ID, event.HomeTeam, event.AwayTeam, event.League, event.Kickoff,
		event.Venue, event.Status, event.Season, event.ExternalID,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event := &models.Event{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&event.ID, &event.HomeTeam, &event.AwayTeam, &event.League, &event.Kickoff,
		&event.Venue, &event.Status, &event.Season, &event.ExternalID,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// GetByExternalID retrieves an event by its upstream provider ID
func (r *PostgresEventRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE external_id = $1`

	event := &models.Event{}
	err := r.db.GetPool().QueryRow(ctx, query, externalID).Scan(
		&event.ID, &event.HomeTeam, &event.AwayTeam, &event.League, &event.Kickoff,
		&event.Venue, &event.Status, &event.Season, &event.ExternalID,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by external id: %w", err)
	}

	return event, nil
}

// GetUpcoming retrieves upcoming events ordered by kickoff time
func (r *PostgresEventRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1
		ORDER BY kickoff ASC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.StatusUpcoming, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetUpcomingByLeague retrieves upcoming events for one league
func (r *PostgresEventRepository) GetUpcomingByLeague(ctx context.Context, league string, limit int) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1 AND league = $2
		ORDER BY kickoff ASC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.StatusUpcoming, league, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming events by league: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// UpdateStatus transitions an event's lifecycle status
func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes an event and, via cascade, its probabilities
func (r *PostgresEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.GetPool().Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanEvents(rows pgx.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID, &event.HomeTeam, &event.AwayTeam, &event.League, &event.Kickoff,
			&event.Venue, &event.Status, &event.Season, &event.ExternalID,
			&event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanEvent, err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
