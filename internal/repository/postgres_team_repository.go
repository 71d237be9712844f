package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-prophet/internal/database"
	"github.com/yourusername/pitch-prophet/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// GetByName retrieves a team by its display name
func (r *PostgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `
		SELECT id, name, league, season, external_id, created_at
		FROM teams WHERE name = $1
	`

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(
		&team.ID, &team.Name, &team.League, &team.Season, &team.ExternalID, &team.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// EnsureExists creates the team row if no row with the same name exists
func (r *PostgresTeamRepository) EnsureExists(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, league, season, external_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		team.ID, team.Name, team.League, team.Season, team.ExternalID,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure team: %w", err)
	}

	return nil
}
