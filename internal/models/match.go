package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatsSchemaVersion is the current MatchStats payload version. Consumers
// must check the version and fail closed when fields are absent.
const StatsSchemaVersion = 1

// Match represents a completed historical result. Scores are immutable once
// set; a match is a historical fact and is never updated, only bulk-cleared.
type Match struct {
	ID         uuid.UUID       `db:"id" json:"id" validate:"required"`
	EventID    uuid.UUID       `db:"event_id" json:"event_id"`
	HomeTeam   string          `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string          `db:"away_team" json:"away_team" validate:"required"`
	HomeScore  int             `db:"home_score" json:"home_score" validate:"gte=0"`
	AwayScore  int             `db:"away_score" json:"away_score" validate:"gte=0"`
	Date       time.Time       `db:"date" json:"date" validate:"required"`
	League     string          `db:"league" json:"league"`
	ExternalID string          `db:"external_id" json:"external_id"`
	Stats      json.RawMessage `db:"stats" json:"stats,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// MatchStats is the optional auxiliary statistics payload attached to a
// match. Populated opportunistically from enhanced data; never required.
type MatchStats struct {
	Version           int          `json:"version"`
	HomeCorners       int          `json:"home_corners"`
	AwayCorners       int          `json:"away_corners"`
	HomeYellowCards   int          `json:"home_yellow_cards"`
	AwayYellowCards   int          `json:"away_yellow_cards"`
	HomeRedCards      int          `json:"home_red_cards"`
	AwayRedCards      int          `json:"away_red_cards"`
	HomeShots         int          `json:"home_shots"`
	AwayShots         int          `json:"away_shots"`
	HalfTimeHomeScore int          `json:"half_time_home_score"`
	HalfTimeAwayScore int          `json:"half_time_away_score"`
	GoalScorers       []MatchEvent `json:"goal_scorers,omitempty"`
	Bookings          []MatchEvent `json:"bookings,omitempty"`
	Substitutions     int          `json:"substitutions"`
}

// MatchEvent is a single in-match incident (goal, card) with its minute.
type MatchEvent struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Minute int    `json:"minute"`
}

// TotalGoals returns the combined full-time score
func (m *Match) TotalGoals() int {
	return m.HomeScore + m.AwayScore
}

// BothTeamsScored reports whether both sides found the net
func (m *Match) BothTeamsScored() bool {
	return m.HomeScore > 0 && m.AwayScore > 0
}

// Involves reports whether the given team played in this match
func (m *Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// ParseStats decodes the auxiliary statistics payload. Returns ErrInvalidData
// for an unknown schema version so consumers fail closed instead of guessing.
func (m *Match) ParseStats() (*MatchStats, error) {
	if len(m.Stats) == 0 {
		return nil, nil
	}
	var stats MatchStats
	if err := json.Unmarshal(m.Stats, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse match stats: %w", err)
	}
	if stats.Version != StatsSchemaVersion {
		return nil, fmt.Errorf("%w: unsupported stats schema version %d", ErrInvalidData, stats.Version)
	}
	return &stats, nil
}

// SetStats encodes and attaches the auxiliary statistics payload
func (m *Match) SetStats(stats *MatchStats) error {
	if stats == nil {
		m.Stats = nil
		return nil
	}
	stats.Version = StatsSchemaVersion
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode match stats: %w", err)
	}
	m.Stats = raw
	return nil
}
