// Package scheduler runs the periodic crawls: upcoming fixtures and the
// rolling result history.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/service"
)

// jobTimeout bounds a single scheduled crawl
const jobTimeout = 30 * time.Minute

// Scheduler manages the cron-driven crawl jobs. All expressions run in UTC.
type Scheduler struct {
	cron      *cron.Cron
	ingestion *service.IngestionService
	cfg       *config.Config
	logger    *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler over the ingestion service
func NewScheduler(ingestion *service.IngestionService, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		ingestion: ingestion,
		cfg:       cfg,
		logger:    logger,
		jobIDs:    make([]cron.EntryID, 0),
	}
}

// ScheduleFixtureCrawl schedules the upcoming-fixtures crawl across all
// configured competitions
func (s *Scheduler) ScheduleFixtureCrawl(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		for _, code := range s.cfg.FootballData.Competitions {
			result, err := s.ingestion.IngestFixtures(ctx, code, s.cfg.FootballData.FixtureWindow)
			if err != nil {
				s.logger.WithError(err).WithField("competition", code).Error("Scheduled fixture crawl failed")
				continue
			}
			s.logger.WithFields(logrus.Fields{
				"competition": code,
				"created":     result.EventsCreated,
				"duplicates":  result.Duplicates,
				"errors":      len(result.Errors),
			}).Info("Scheduled fixture crawl completed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add fixture crawl job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled fixture crawl")
	return nil
}

// ScheduleHistoricalCrawl schedules the finished-results crawl
func (s *Scheduler) ScheduleHistoricalCrawl(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		result, err := s.ingestion.IngestHistoricalMatches(ctx, s.cfg.FootballData.HistoryWindow)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled historical crawl failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"created":    result.MatchesCreated,
			"duplicates": result.Duplicates,
			"errors":     len(result.Errors),
		}).Info("Scheduled historical crawl completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add historical crawl job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled historical crawl")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs to finish, then stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether the scheduler has been started
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming job time, or zero when idle
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}
