package models

import (
	"time"

	"github.com/google/uuid"
)

// NewTeam builds a reference row with a fresh client-generated ID
func NewTeam(name, league, season string) *Team {
	return &Team{
		ID:        uuid.New(),
		Name:      name,
		League:    league,
		Season:    season,
		CreatedAt: time.Now(),
	}
}

// Team is a denormalized reference row kept to avoid redundant external
// lookups. Not authoritative; never updated once created.
type Team struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required"`
	Name       string    `db:"name" json:"name" validate:"required"`
	League     string    `db:"league" json:"league"`
	Season     string    `db:"season" json:"season"`
	ExternalID string    `db:"external_id" json:"external_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
