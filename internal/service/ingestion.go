// Package service holds the pipeline workflows: fixture and result
// ingestion, probability recomputation, the read path, the chat assistant
// and the sync orchestrator.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/footballdata"
	"github.com/yourusername/pitch-prophet/internal/httpclient"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/repository"
)

// historicalCompetitions are the leagues crawled for result history
var historicalCompetitions = []string{
	footballdata.PremierLeague,
	footballdata.LaLiga,
	footballdata.Bundesliga,
}

// IngestionResult reports one ingestion run's outcome
type IngestionResult struct {
	EventsCreated  int
	MatchesCreated int
	Duplicates     int
	Errors         []error
}

// FixtureSource is the slice of the football-data client ingestion needs
type FixtureSource interface {
	FetchFixtures(ctx context.Context, competitionCode string, from, to time.Time) ([]footballdata.Fixture, error)
	FetchFinishedMatches(ctx context.Context, competitionCode string, from, to time.Time) ([]footballdata.Fixture, error)
	FetchMatchIncidents(ctx context.Context, matchID string) ([]footballdata.MatchIncident, error)
}

// IngestionService pulls fixtures and results from the football-data API
// into the configured store
type IngestionService struct {
	client   FixtureSource
	store    *repository.Store
	cfg      *config.SyncConfig
	logger   *logrus.Logger
	retry    httpclient.RetryOptions
	enhanced bool

	// sleep is swapped out in tests to avoid real pacing delays
	sleep func(ctx context.Context, d time.Duration) error
}

// NewIngestionService creates an ingestion service
func NewIngestionService(client FixtureSource, store *repository.Store, cfg *config.SyncConfig, logger *logrus.Logger) *IngestionService {
	return &IngestionService{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: logger,
		retry:  httpclient.DefaultRetryOptions(),
		sleep:  sleepCtx,
	}
}

// EnableEnhancedData turns on the per-match incidents crawl for ingested
// results. Requires an API plan that covers the match events feed.
func (s *IngestionService) EnableEnhancedData() {
	s.enhanced = true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IngestFixtures crawls upcoming fixtures for one competition and stores the
// new ones. Fixtures already known by external ID count as duplicates, not
// errors. Writes are paced in small batches to respect store quotas.
func (s *IngestionService) IngestFixtures(ctx context.Context, competitionCode string, days int) (*IngestionResult, error) {
	result := &IngestionResult{}
	now := time.Now()

	fixtures, err := s.client.FetchFixtures(ctx, competitionCode, now, now.AddDate(0, 0, days))
	if err != nil {
		return result, fmt.Errorf("failed to fetch fixtures: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"competition": competitionCode,
		"fixtures":    len(fixtures),
		"window_days": days,
	}).Info("Fetched fixtures")

	batchSize := s.cfg.FixtureBatchSize
	if batchSize <= 0 {
		batchSize = 3
	}
	batchDelay := time.Duration(s.cfg.BatchDelayMs) * time.Millisecond

	for i := 0; i < len(fixtures); i += batchSize {
		if i > 0 {
			if err := s.sleep(ctx, batchDelay); err != nil {
				return result, err
			}
		}

		end := i + batchSize
		if end > len(fixtures) {
			end = len(fixtures)
		}
		for _, fixture := range fixtures[i:end] {
			if err := s.ingestFixture(ctx, fixture, now, result); err != nil {
				result.Errors = append(result.Errors, err)
				s.logger.WithError(err).WithField("fixture_id", fixture.ID).Warn("Failed to ingest fixture")
			}
		}
	}

	return result, nil
}

func (s *IngestionService) ingestFixture(ctx context.Context, fixture footballdata.Fixture, now time.Time, result *IngestionResult) error {
	event, err := footballdata.ConvertFixtureToEvent(fixture, now)
	if err != nil {
		return err
	}

	_, err = s.store.Events.GetByExternalID(ctx, event.ExternalID)
	if err == nil {
		result.Duplicates++
		metrics.IngestDuplicatesTotal.Inc()
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check for existing event: %w", err)
	}

	if err := s.ensureTeams(ctx, event); err != nil {
		return err
	}

	err = httpclient.WithRetry(ctx, s.logger, s.retry, func() error {
		return s.store.Events.Create(ctx, event)
	})
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	result.EventsCreated++
	metrics.EventsCreatedTotal.Inc()
	return nil
}

func (s *IngestionService) ensureTeams(ctx context.Context, event *models.Event) error {
	for _, name := range []string{event.HomeTeam, event.AwayTeam} {
		team := models.NewTeam(name, event.League, event.Season)
		if err := s.store.Teams.EnsureExists(ctx, team); err != nil {
			return fmt.Errorf("failed to ensure team %s: %w", name, err)
		}
	}
	return nil
}

// IngestHistoricalMatches crawls finished results across the historical
// competitions, pacing between competitions to stay inside the API budget.
// Results already present for the same teams on the same day are skipped.
func (s *IngestionService) IngestHistoricalMatches(ctx context.Context, days int) (*IngestionResult, error) {
	result := &IngestionResult{}
	now := time.Now()
	competitionDelay := time.Duration(s.cfg.CompetitionDelayMs) * time.Millisecond

	for i, code := range historicalCompetitions {
		if i > 0 {
			if err := s.sleep(ctx, competitionDelay); err != nil {
				return result, err
			}
		}

		fixtures, err := s.client.FetchFinishedMatches(ctx, code, now.AddDate(0, 0, -days), now)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("competition %s: %w", code, err))
			s.logger.WithError(err).WithField("competition", code).Warn("Failed to fetch finished matches")
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"competition": code,
			"matches":     len(fixtures),
		}).Info("Fetched finished matches")

		for _, fixture := range fixtures {
			if err := s.ingestMatch(ctx, fixture, now, result); err != nil {
				result.Errors = append(result.Errors, err)
			}
		}
	}

	return result, nil
}

// IngestTeamHistory crawls one team's recent results within the configured
// history window, deduplicating by external ID.
func (s *IngestionService) IngestTeamHistory(ctx context.Context, team, competitionCode string) (*IngestionResult, error) {
	result := &IngestionResult{}
	now := time.Now()
	windowDays := s.cfg.TeamHistoryWindowDays
	if windowDays <= 0 {
		windowDays = 90
	}

	fixtures, err := s.client.FetchFinishedMatches(ctx, competitionCode, now.AddDate(0, 0, -windowDays), now)
	if err != nil {
		return result, fmt.Errorf("failed to fetch team history: %w", err)
	}

	for _, fixture := range fixtures {
		if fixture.HomeTeam.Name != team && fixture.AwayTeam.Name != team {
			continue
		}
		if err := s.ingestMatch(ctx, fixture, now, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"team":            team,
		"matches_created": result.MatchesCreated,
		"duplicates":      result.Duplicates,
	}).Info("Team history ingested")

	return result, nil
}

func (s *IngestionService) ingestMatch(ctx context.Context, fixture footballdata.Fixture, now time.Time, result *IngestionResult) error {
	match, err := footballdata.ConvertFixtureToMatch(fixture, now)
	if err != nil {
		return err
	}

	exists, err := s.store.Matches.ExistsByTeamsAndDate(ctx, match.HomeTeam, match.AwayTeam, match.Date)
	if err != nil {
		return fmt.Errorf("failed to check for existing match: %w", err)
	}
	if exists {
		result.Duplicates++
		metrics.IngestDuplicatesTotal.Inc()
		return nil
	}

	if s.enhanced {
		s.attachEnhancedStats(ctx, match)
	}

	err = httpclient.WithRetry(ctx, s.logger, s.retry, func() error {
		return s.store.Matches.Create(ctx, match)
	})
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	result.MatchesCreated++
	metrics.MatchesCreatedTotal.Inc()
	return nil
}

// attachEnhancedStats folds the incidents feed into the match stats payload.
// Enhanced data is opportunistic: any failure leaves the basic stats intact.
func (s *IngestionService) attachEnhancedStats(ctx context.Context, match *models.Match) {
	incidents, err := s.client.FetchMatchIncidents(ctx, match.ExternalID)
	if err != nil {
		s.logger.WithError(err).WithField("match_id", match.ExternalID).Debug("Enhanced data unavailable")
		return
	}
	if len(incidents) == 0 {
		return
	}

	stats := footballdata.BuildStatsFromIncidents(match.HomeTeam, incidents)
	if existing, err := match.ParseStats(); err == nil && existing != nil {
		stats.HalfTimeHomeScore = existing.HalfTimeHomeScore
		stats.HalfTimeAwayScore = existing.HalfTimeAwayScore
	}
	if err := match.SetStats(stats); err != nil {
		s.logger.WithError(err).WithField("match_id", match.ExternalID).Warn("Failed to attach enhanced stats")
	}
}
