package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitch-prophet/internal/database"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const errScanMatch = "failed to scan match: %w"

const matchColumns = `id, event_id, home_team, away_team, home_score, away_score, date, league, external_id, stats, created_at`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a new historical match
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, event_id, home_team, away_team, home_score, away_score, date, league, external_id, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.EventID, match.HomeTeam, match.AwayTeam,
		match.HomeScore, match.AwayScore, match.Date, match.League,
		match.ExternalID, match.Stats,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// GetByTeam retrieves a team's most recent matches, newest first
func (r *PostgresMatchRepository) GetByTeam(ctx context.Context, team string, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE home_team = $1 OR away_team = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, team, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by team: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetHeadToHead retrieves recent meetings between two teams in either venue order
func (r *PostgresMatchRepository) GetHeadToHead(ctx context.Context, teamA, teamB string, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (home_team = $1 AND away_team = $2) OR (home_team = $2 AND away_team = $1)
		ORDER BY date DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamA, teamB, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query head-to-head matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// ExistsByTeamsAndDate checks for a match with the same teams on the same day
func (r *PostgresMatchRepository) ExistsByTeamsAndDate(ctx context.Context, homeTeam, awayTeam string, date time.Time) (bool, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE home_team = $1 AND away_team = $2 AND date >= $3 AND date < $4
		)
	`

	var exists bool
	err := r.db.GetPool().QueryRow(ctx, query, homeTeam, awayTeam, startOfDay, endOfDay).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check match existence: %w", err)
	}

	return exists, nil
}

// GetByTeamSince retrieves a team's matches played on or after the cutoff
func (r *PostgresMatchRepository) GetByTeamSince(ctx context.Context, team string, since time.Time) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (home_team = $1 OR away_team = $1) AND date >= $2
		ORDER BY date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, team, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches since cutoff: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func scanMatches(rows pgx.Rows) ([]*models.Match, error) {
	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		err := rows.Scan(
			&match.ID, &match.EventID, &match.HomeTeam, &match.AwayTeam,
			&match.HomeScore, &match.AwayScore, &match.Date, &match.League,
			&match.ExternalID, &match.Stats, &match.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}
