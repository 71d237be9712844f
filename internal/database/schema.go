package database

import (
	"context"
	"fmt"
)

// schemaStatements create the tables the postgres storage driver expects.
// Statements are idempotent so startup can apply them unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		league TEXT NOT NULL DEFAULT '',
		season TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		league TEXT NOT NULL,
		kickoff TIMESTAMPTZ NOT NULL,
		venue TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		season TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS events_external_id_idx
		ON events (external_id) WHERE external_id <> ''`,
	`CREATE INDEX IF NOT EXISTS events_status_kickoff_idx ON events (status, kickoff)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		event_id UUID,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		home_score INT NOT NULL,
		away_score INT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		league TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		stats JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS matches_home_date_idx ON matches (home_team, date DESC)`,
	`CREATE INDEX IF NOT EXISTS matches_away_date_idx ON matches (away_team, date DESC)`,
	`CREATE TABLE IF NOT EXISTS probabilities (
		id UUID PRIMARY KEY,
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		market TEXT NOT NULL,
		sub_market TEXT NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		confidence TEXT NOT NULL,
		sample_size INT NOT NULL,
		last_calculated TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS probabilities_event_idx ON probabilities (event_id)`,
}

// Migrate applies the schema to the connected database
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
