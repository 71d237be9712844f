package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/pitch-prophet/internal/estimator"
	"github.com/yourusername/pitch-prophet/internal/footballdata"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/repository"
)

// MockEventRepository mocks the event repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Event, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetUpcomingByLeague(ctx context.Context, league string, limit int) ([]*models.Event, error) {
	args := m.Called(ctx, league, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMatchRepository mocks the match repository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByTeam(ctx context.Context, team string, limit int) ([]*models.Match, error) {
	args := m.Called(ctx, team, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetHeadToHead(ctx context.Context, teamA, teamB string, limit int) ([]*models.Match, error) {
	args := m.Called(ctx, teamA, teamB, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) ExistsByTeamsAndDate(ctx context.Context, homeTeam, awayTeam string, date time.Time) (bool, error) {
	args := m.Called(ctx, homeTeam, awayTeam, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepository) GetByTeamSince(ctx context.Context, team string, since time.Time) ([]*models.Match, error) {
	args := m.Called(ctx, team, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

// MockProbabilityRepository mocks the probability repository
type MockProbabilityRepository struct {
	mock.Mock
}

func (m *MockProbabilityRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Probability, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Probability), args.Error(1)
}

func (m *MockProbabilityRepository) GetHighConfidence(ctx context.Context, limit int) ([]*models.Probability, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Probability), args.Error(1)
}

func (m *MockProbabilityRepository) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, probabilities []*models.Probability) error {
	args := m.Called(ctx, eventID, probabilities)
	return args.Error(0)
}

func (m *MockProbabilityRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTeamRepository mocks the team repository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) EnsureExists(ctx context.Context, team *models.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

// MockFixtureSource mocks the football-data client
type MockFixtureSource struct {
	mock.Mock
}

func (m *MockFixtureSource) FetchFixtures(ctx context.Context, competitionCode string, from, to time.Time) ([]footballdata.Fixture, error) {
	args := m.Called(ctx, competitionCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]footballdata.Fixture), args.Error(1)
}

func (m *MockFixtureSource) FetchFinishedMatches(ctx context.Context, competitionCode string, from, to time.Time) ([]footballdata.Fixture, error) {
	args := m.Called(ctx, competitionCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]footballdata.Fixture), args.Error(1)
}

func (m *MockFixtureSource) FetchMatchIncidents(ctx context.Context, matchID string) ([]footballdata.MatchIncident, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]footballdata.MatchIncident), args.Error(1)
}

// MockEstimator mocks the estimation strategy
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Name() string { return "mock" }

func (m *MockEstimator) Estimate(ctx context.Context, in *estimator.Input) (*estimator.Analysis, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estimator.Analysis), args.Error(1)
}

func mockStore(events *MockEventRepository, matches *MockMatchRepository, probabilities *MockProbabilityRepository, teams *MockTeamRepository) *repository.Store {
	return &repository.Store{
		Events:        events,
		Matches:       matches,
		Probabilities: probabilities,
		Teams:         teams,
	}
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }
