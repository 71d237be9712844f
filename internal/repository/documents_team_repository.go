package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/pitch-prophet/internal/docstore"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const teamsCollection = "teams"

// DocumentsTeamRepository implements TeamRepository over the hosted
// document store
type DocumentsTeamRepository struct {
	client *docstore.Client
}

// NewDocumentsTeamRepository creates a new team repository
func NewDocumentsTeamRepository(client *docstore.Client) TeamRepository {
	return &DocumentsTeamRepository{client: client}
}

// GetByName retrieves a team by its display name
func (r *DocumentsTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	var teams []*models.Team
	queries := []docstore.Query{
		docstore.Equal("name", name),
		docstore.Limit(1),
	}
	if err := r.client.List(ctx, teamsCollection, queries, &teams); err != nil {
		return nil, fmt.Errorf("failed to query team: %w", err)
	}
	if len(teams) == 0 {
		return nil, models.ErrNotFound
	}
	return teams[0], nil
}

// EnsureExists creates the team row if no row with the same name exists.
// A concurrent create racing on the same document ID is treated as success.
func (r *DocumentsTeamRepository) EnsureExists(ctx context.Context, team *models.Team) error {
	_, err := r.GetByName(ctx, team.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	err = r.client.Create(ctx, teamsCollection, team.ID.String(), team)
	if err != nil && !errors.Is(err, models.ErrAlreadyExists) {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}
