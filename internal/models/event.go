package models

import (
	"time"

	"github.com/google/uuid"
)

// Event lifecycle statuses
const (
	StatusUpcoming = "upcoming"
	StatusLive     = "live"
	StatusFinished = "finished"
)

// Event represents a scheduled or completed fixture
type Event struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required"`
	HomeTeam   string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string    `db:"away_team" json:"away_team" validate:"required"`
	League     string    `db:"league" json:"league" validate:"required"`
	Kickoff    time.Time `db:"kickoff" json:"kickoff" validate:"required"`
	Venue      string    `db:"venue" json:"venue"`
	Status     string    `db:"status" json:"status" validate:"oneof=upcoming live finished"`
	Season     string    `db:"season" json:"season"`
	ExternalID string    `db:"external_id" json:"external_id" validate:"required"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// IsUpcoming checks if the fixture hasn't kicked off yet
func (e *Event) IsUpcoming() bool {
	return e.Status == StatusUpcoming
}

// TimeToKickoff returns the duration until kickoff
func (e *Event) TimeToKickoff() time.Duration {
	return time.Until(e.Kickoff)
}

// CanonicalStatus derives the lifecycle status from kickoff time rather than
// trusting the upstream status string. A future kickoff always means upcoming,
// even when the upstream source erroneously reports FINISHED.
func CanonicalStatus(kickoff time.Time, upstreamStatus string, now time.Time) string {
	if kickoff.After(now) {
		return StatusUpcoming
	}
	if upstreamStatus == "IN_PLAY" || upstreamStatus == "PAUSED" {
		return StatusLive
	}
	return StatusFinished
}
