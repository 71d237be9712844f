package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pitch-prophet/internal/docstore"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const matchesCollection = "matches"

// DocumentsMatchRepository implements MatchRepository over the hosted
// document store. The store has no OR filter, so team lookups issue one
// query per venue side and merge the results.
type DocumentsMatchRepository struct {
	client *docstore.Client
}

// NewDocumentsMatchRepository creates a new match repository
func NewDocumentsMatchRepository(client *docstore.Client) MatchRepository {
	return &DocumentsMatchRepository{client: client}
}

// Create inserts a new historical match
func (r *DocumentsMatchRepository) Create(ctx context.Context, match *models.Match) error {
	if err := r.client.Create(ctx, matchesCollection, match.ID.String(), match); err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// GetByTeam retrieves a team's most recent matches, newest first
func (r *DocumentsMatchRepository) GetByTeam(ctx context.Context, team string, limit int) ([]*models.Match, error) {
	home, err := r.list(ctx,
		docstore.Equal("home_team", team),
		docstore.OrderDesc("date"),
		docstore.Limit(limit),
	)
	if err != nil {
		return nil, err
	}
	away, err := r.list(ctx,
		docstore.Equal("away_team", team),
		docstore.OrderDesc("date"),
		docstore.Limit(limit),
	)
	if err != nil {
		return nil, err
	}

	return mergeMatches(limit, home, away), nil
}

// GetHeadToHead retrieves recent meetings between two teams in either venue order
func (r *DocumentsMatchRepository) GetHeadToHead(ctx context.Context, teamA, teamB string, limit int) ([]*models.Match, error) {
	first, err := r.list(ctx,
		docstore.Equal("home_team", teamA),
		docstore.Equal("away_team", teamB),
		docstore.OrderDesc("date"),
		docstore.Limit(limit),
	)
	if err != nil {
		return nil, err
	}
	second, err := r.list(ctx,
		docstore.Equal("home_team", teamB),
		docstore.Equal("away_team", teamA),
		docstore.OrderDesc("date"),
		docstore.Limit(limit),
	)
	if err != nil {
		return nil, err
	}

	return mergeMatches(limit, first, second), nil
}

// ExistsByTeamsAndDate checks for a match with the same teams on the same day
func (r *DocumentsMatchRepository) ExistsByTeamsAndDate(ctx context.Context, homeTeam, awayTeam string, date time.Time) (bool, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.Add(24 * time.Hour)

	matches, err := r.list(ctx,
		docstore.Equal("home_team", homeTeam),
		docstore.Equal("away_team", awayTeam),
		docstore.GreaterThanEqual("date", startOfDay.Format(time.RFC3339)),
		docstore.LessThanEqual("date", endOfDay.Format(time.RFC3339)),
		docstore.Limit(1),
	)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// GetByTeamSince retrieves a team's matches played on or after the cutoff
func (r *DocumentsMatchRepository) GetByTeamSince(ctx context.Context, team string, since time.Time) ([]*models.Match, error) {
	cutoff := since.Format(time.RFC3339)
	home, err := r.list(ctx,
		docstore.Equal("home_team", team),
		docstore.GreaterThanEqual("date", cutoff),
		docstore.OrderDesc("date"),
	)
	if err != nil {
		return nil, err
	}
	away, err := r.list(ctx,
		docstore.Equal("away_team", team),
		docstore.GreaterThanEqual("date", cutoff),
		docstore.OrderDesc("date"),
	)
	if err != nil {
		return nil, err
	}

	return mergeMatches(0, home, away), nil
}

func (r *DocumentsMatchRepository) list(ctx context.Context, queries ...docstore.Query) ([]*models.Match, error) {
	var matches []*models.Match
	if err := r.client.List(ctx, matchesCollection, queries, &matches); err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	return matches, nil
}

// mergeMatches combines result sets, deduplicates by ID and returns the
// newest matches first. A limit of zero means unbounded.
func mergeMatches(limit int, sets ...[]*models.Match) []*models.Match {
	seen := make(map[uuid.UUID]bool)
	var merged []*models.Match
	for _, set := range sets {
		for _, m := range set {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
