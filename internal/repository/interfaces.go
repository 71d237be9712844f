// Package repository defines the persistence interfaces for events, matches,
// probabilities and teams, with interchangeable document-store and PostgreSQL
// drivers selected by configuration.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// EventRepository manages fixture rows
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Event, error)
	GetUpcoming(ctx context.Context, limit int) ([]*models.Event, error)
	GetUpcomingByLeague(ctx context.Context, league string, limit int) ([]*models.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MatchRepository manages historical results. Matches are append-only facts.
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByTeam(ctx context.Context, team string, limit int) ([]*models.Match, error)
	GetHeadToHead(ctx context.Context, teamA, teamB string, limit int) ([]*models.Match, error)
	ExistsByTeamsAndDate(ctx context.Context, homeTeam, awayTeam string, date time.Time) (bool, error)
	GetByTeamSince(ctx context.Context, team string, since time.Time) ([]*models.Match, error)
}

// ProbabilityRepository manages derived estimates for events
type ProbabilityRepository interface {
	GetByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Probability, error)
	// GetHighConfidence lists High-tier estimates across all events,
	// strongest first.
	GetHighConfidence(ctx context.Context, limit int) ([]*models.Probability, error)
	// ReplaceForEvent removes the event's existing estimates and writes the
	// new set. Drivers make this as atomic as their backend allows.
	ReplaceForEvent(ctx context.Context, eventID uuid.UUID, probabilities []*models.Probability) error
	// Clear removes every estimate, forcing a full recomputation.
	Clear(ctx context.Context) error
}

// TeamRepository manages denormalized team reference rows
type TeamRepository interface {
	GetByName(ctx context.Context, name string) (*models.Team, error)
	EnsureExists(ctx context.Context, team *models.Team) error
}

// Store bundles the per-entity repositories of one storage driver
type Store struct {
	Events        EventRepository
	Matches       MatchRepository
	Probabilities ProbabilityRepository
	Teams         TeamRepository
}
