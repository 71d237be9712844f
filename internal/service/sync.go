package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/footballdata"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/repository"
)

// Progress is one orchestration step report, delivered to the caller's
// callback as work proceeds
type Progress struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ProgressFunc receives progress reports during a sync
type ProgressFunc func(Progress)

// SyncResult reports a sync run. Partial success is the normal case: some
// events process while others fail.
type SyncResult struct {
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors,omitempty"`
}

// SyncOrchestrator runs the full pipeline for a league: crawl fixtures,
// backfill team history and recompute probabilities.
type SyncOrchestrator struct {
	ingestion *IngestionService
	engine    *ProbabilityEngine
	store     *repository.Store
	cfg       *config.Config
	reader    *Reader
	logger    *logrus.Logger
}

// NewSyncOrchestrator creates a sync orchestrator
func NewSyncOrchestrator(ingestion *IngestionService, engine *ProbabilityEngine, store *repository.Store, reader *Reader, cfg *config.Config, logger *logrus.Logger) *SyncOrchestrator {
	return &SyncOrchestrator{
		ingestion: ingestion,
		engine:    engine,
		store:     store,
		reader:    reader,
		cfg:       cfg,
		logger:    logger,
	}
}

// SyncLeague refreshes one league end to end: fixtures, per-event matchup
// history, then probabilities for up to count upcoming events. progressFn
// may be nil.
func (o *SyncOrchestrator) SyncLeague(ctx context.Context, leagueName string, count int, progressFn ProgressFunc) (*SyncResult, error) {
	code, ok := footballdata.LeagueNameToCode[leagueName]
	if !ok {
		return nil, fmt.Errorf("unknown league: %s", leagueName)
	}

	metrics.SyncInProgress.Set(1)
	defer metrics.SyncInProgress.Set(0)
	start := time.Now()
	defer func() {
		metrics.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	report := func(p Progress) {
		if progressFn != nil {
			progressFn(p)
		}
	}
	result := &SyncResult{}

	report(Progress{Stage: "fixtures", Message: "Crawling upcoming fixtures"})
	fixtures, err := o.ingestion.IngestFixtures(ctx, code, o.cfg.FootballData.FixtureWindow)
	if err != nil {
		return nil, fmt.Errorf("fixture crawl failed: %w", err)
	}
	collectErrors(result, fixtures.Errors)
	report(Progress{
		Stage:   "fixtures",
		Message: fmt.Sprintf("%d new fixtures, %d already known", fixtures.EventsCreated, fixtures.Duplicates),
	})

	events, err := o.store.Events.GetUpcomingByLeague(ctx, leagueName, count)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}

	for i, event := range events {
		report(Progress{
			Stage:     "history",
			Message:   fmt.Sprintf("Crawling history for %s vs %s", event.HomeTeam, event.AwayTeam),
			Completed: i,
			Total:     len(events),
		})
		o.crawlMatchupHistory(ctx, event, code, result)

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	report(Progress{Stage: "probabilities", Message: "Recomputing probabilities", Total: len(events)})
	recompute, err := o.engine.RecomputeBatch(ctx, events)
	if err != nil {
		return result, err
	}
	collectErrors(result, recompute.Errors)
	result.Processed = recompute.Processed
	result.Success = recompute.Processed > 0 || len(events) == 0

	o.reader.InvalidateCache()

	report(Progress{
		Stage:     "done",
		Message:   fmt.Sprintf("Sync complete: %d events processed, %d errors", result.Processed, len(result.Errors)),
		Completed: len(events),
		Total:     len(events),
	})

	o.logger.WithFields(logrus.Fields{
		"league":    leagueName,
		"processed": result.Processed,
		"errors":    len(result.Errors),
		"duration":  time.Since(start),
	}).Info("League sync finished")

	return result, nil
}

// historyFreshness is how recent a team's newest stored result must be for
// its history crawl to be skipped during a league sync.
const historyFreshness = 3 * 24 * time.Hour

func (o *SyncOrchestrator) crawlMatchupHistory(ctx context.Context, event *models.Event, code string, result *SyncResult) {
	for _, team := range []string{event.HomeTeam, event.AwayTeam} {
		if recent, err := o.store.Matches.GetByTeamSince(ctx, team, time.Now().Add(-historyFreshness)); err == nil && len(recent) > 0 {
			o.logger.WithField("team", team).Debug("Stored history is fresh, skipping crawl")
			continue
		}

		history, err := o.ingestion.IngestTeamHistory(ctx, team, code)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("history for %s: %v", team, err))
			continue
		}
		collectErrors(result, history.Errors)
	}
}

// FullSync refreshes fixtures for every configured competition plus the
// rolling result history. Used by the scheduler.
func (o *SyncOrchestrator) FullSync(ctx context.Context) error {
	metrics.SyncInProgress.Set(1)
	defer metrics.SyncInProgress.Set(0)
	start := time.Now()
	defer func() {
		metrics.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	for _, code := range o.cfg.FootballData.Competitions {
		if _, err := o.ingestion.IngestFixtures(ctx, code, o.cfg.FootballData.FixtureWindow); err != nil {
			o.logger.WithError(err).WithField("competition", code).Warn("Fixture crawl failed")
		}
	}

	if _, err := o.ingestion.IngestHistoricalMatches(ctx, o.cfg.FootballData.HistoryWindow); err != nil {
		return fmt.Errorf("historical crawl failed: %w", err)
	}

	o.reader.InvalidateCache()
	return nil
}

func collectErrors(result *SyncResult, errs []error) {
	for _, err := range errs {
		result.Errors = append(result.Errors, err.Error())
	}
}
