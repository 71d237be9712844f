package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/estimator"
	"github.com/yourusername/pitch-prophet/internal/form"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/repository"
)

// RecomputeResult reports a batch recomputation's outcome
type RecomputeResult struct {
	Processed int
	Errors    []error
}

// ProbabilityEngine recomputes the derived probability rows for events
type ProbabilityEngine struct {
	store  *repository.Store
	est    estimator.Estimator
	cfg    *config.EstimatorConfig
	sync   *config.SyncConfig
	logger *logrus.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewProbabilityEngine creates a probability engine
func NewProbabilityEngine(store *repository.Store, est estimator.Estimator, cfg *config.EstimatorConfig, syncCfg *config.SyncConfig, logger *logrus.Logger) *ProbabilityEngine {
	return &ProbabilityEngine{
		store:  store,
		est:    est,
		cfg:    cfg,
		sync:   syncCfg,
		logger: logger,
		sleep:  sleepCtx,
	}
}

// RecomputeEvent replaces an event's probability rows with freshly derived
// estimates. ReplaceForEvent owns the old-for-new swap, so a recomputation
// never leaves a mix of old and new estimates behind.
func (e *ProbabilityEngine) RecomputeEvent(ctx context.Context, event *models.Event) error {
	teamLimit := e.cfg.TeamMatchLimit
	if teamLimit <= 0 {
		teamLimit = 20
	}
	h2hLimit := e.cfg.HeadToHeadLimit
	if h2hLimit <= 0 {
		h2hLimit = 10
	}

	homeMatches, err := e.store.Matches.GetByTeam(ctx, event.HomeTeam, teamLimit)
	if err != nil {
		return fmt.Errorf("failed to load home history: %w", err)
	}
	awayMatches, err := e.store.Matches.GetByTeam(ctx, event.AwayTeam, teamLimit)
	if err != nil {
		return fmt.Errorf("failed to load away history: %w", err)
	}
	h2hMatches, err := e.store.Matches.GetHeadToHead(ctx, event.HomeTeam, event.AwayTeam, h2hLimit)
	if err != nil {
		return fmt.Errorf("failed to load head-to-head history: %w", err)
	}

	in := &estimator.Input{
		HomeTeam:   event.HomeTeam,
		AwayTeam:   event.AwayTeam,
		HomeForm:   form.Aggregate(event.HomeTeam, homeMatches),
		AwayForm:   form.Aggregate(event.AwayTeam, awayMatches),
		HeadToHead: form.SummarizeHeadToHead(event.HomeTeam, event.AwayTeam, h2hMatches),
	}
	if e.cfg.EnhancedData {
		in.Enhanced = renderEnhancedLines(in.HomeForm.Recent, in.AwayForm.Recent)
	}

	analysis, err := e.est.Estimate(ctx, in)
	if err != nil {
		return fmt.Errorf("estimation failed: %w", err)
	}

	rows := e.buildRows(event, analysis, len(homeMatches), len(awayMatches), len(h2hMatches))
	if err := e.store.Probabilities.ReplaceForEvent(ctx, event.ID, rows); err != nil {
		return fmt.Errorf("failed to store probabilities: %w", err)
	}
	metrics.ProbabilitiesWrittenTotal.Add(float64(len(rows)))

	e.logger.WithFields(logrus.Fields{
		"event_id":  event.ID,
		"home_team": event.HomeTeam,
		"away_team": event.AwayTeam,
		"rows":      len(rows),
	}).Info("Probabilities recomputed")

	return nil
}

// buildRows maps an analysis to probability rows. The Match Result market is
// always present; Over/Under and BTTS require the minimum combined sample.
func (e *ProbabilityEngine) buildRows(event *models.Event, analysis *estimator.Analysis, homeN, awayN, h2hN int) []*models.Probability {
	now := time.Now()
	row := func(market, subMarket string, p float64, sampleSize int) *models.Probability {
		return &models.Probability{
			ID:             uuid.New(),
			EventID:        event.ID,
			Market:         market,
			SubMarket:      subMarket,
			Probability:    p,
			Confidence:     analysis.Confidence,
			SampleSize:     sampleSize,
			LastCalculated: now,
		}
	}

	rows := []*models.Probability{
		row(models.MarketMatchResult, models.SubMarketHomeWin, analysis.HomeWin, homeN+h2hN),
		row(models.MarketMatchResult, models.SubMarketDraw, analysis.Draw, homeN+awayN),
		row(models.MarketMatchResult, models.SubMarketAwayWin, analysis.AwayWin, awayN+h2hN),
	}

	minSample := e.cfg.MinSampleSize
	if minSample <= 0 {
		minSample = 5
	}
	if homeN+awayN < minSample {
		return rows
	}

	combined := homeN + awayN
	rows = append(rows,
		row(models.MarketOverUnder, models.SubMarketOver25, analysis.Over25, combined),
		row(models.MarketOverUnder, models.SubMarketUnder25, analysis.Under25, combined),
		row(models.MarketBTTS, models.SubMarketBTTSYes, analysis.BTTSYes, combined),
		row(models.MarketBTTS, models.SubMarketBTTSNo, analysis.BTTSNo, combined),
	)
	return rows
}

// RecomputeBatch recomputes each event in turn with a pacing delay between
// events. Per-event failures are collected, never fatal for the batch.
func (e *ProbabilityEngine) RecomputeBatch(ctx context.Context, events []*models.Event) (*RecomputeResult, error) {
	result := &RecomputeResult{}
	eventDelay := time.Duration(e.sync.EventDelaySeconds) * time.Second

	for i, event := range events {
		if i > 0 {
			if err := e.sleep(ctx, eventDelay); err != nil {
				return result, err
			}
		}

		if err := e.RecomputeEvent(ctx, event); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("event %s: %w", event.ID, err))
			e.logger.WithError(err).WithField("event_id", event.ID).Warn("Failed to recompute event")
			continue
		}
		result.Processed++
	}

	return result, nil
}

// renderEnhancedLines turns stored auxiliary statistics into prompt lines.
// Matches without a stats payload, or with an unknown schema version, are
// silently skipped.
func renderEnhancedLines(sets ...[]*models.Match) []string {
	var lines []string
	seen := make(map[uuid.UUID]bool)

	for _, set := range sets {
		for _, m := range set {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true

			stats, err := m.ParseStats()
			if err != nil || stats == nil {
				continue
			}
			lines = append(lines, fmt.Sprintf(
				"%s %d-%d %s (HT %d-%d): corners %d-%d, cards %d-%d, shots %d-%d",
				m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam,
				stats.HalfTimeHomeScore, stats.HalfTimeAwayScore,
				stats.HomeCorners, stats.AwayCorners,
				stats.HomeYellowCards+stats.HomeRedCards, stats.AwayYellowCards+stats.AwayRedCards,
				stats.HomeShots, stats.AwayShots,
			))
		}
	}
	return lines
}
