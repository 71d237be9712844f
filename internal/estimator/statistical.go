package estimator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/metrics"
)

// homeAdvantage is the fixed shift applied to win rates before
// renormalization, reflecting the home side's historical edge.
const homeAdvantage = 0.05

// Statistical estimates probabilities from raw result frequencies
type Statistical struct {
	logger *logrus.Logger
}

// NewStatistical creates a frequency-based estimator
func NewStatistical(logger *logrus.Logger) *Statistical {
	return &Statistical{logger: logger}
}

// Name identifies the strategy in logs and metrics
func (s *Statistical) Name() string { return StrategyStatistical }

// Estimate derives market probabilities from win/draw/goal frequencies
func (s *Statistical) Estimate(ctx context.Context, in *Input) (*Analysis, error) {
	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	}()
	metrics.AnalysisRequestsTotal.WithLabelValues(s.Name()).Inc()

	if in.HomeForm == nil || in.AwayForm == nil || (in.HomeForm.Neutral && in.AwayForm.Neutral) {
		s.logger.WithFields(logrus.Fields{
			"home_team": in.HomeTeam,
			"away_team": in.AwayTeam,
		}).Debug("No history for either side, using neutral defaults")
		return defaultAnalysis("No recent history for either team; neutral defaults applied"), nil
	}

	matchResult := []float64{
		in.HomeForm.WinRate() + homeAdvantage,
		(in.HomeForm.DrawRate() + in.AwayForm.DrawRate()) / 2,
		in.AwayForm.WinRate() - homeAdvantage,
	}
	normalize(matchResult)

	over := (in.HomeForm.Over25Rate() + in.AwayForm.Over25Rate()) / 2
	overUnder := []float64{over, 1 - over}
	normalize(overUnder)

	btts := (in.HomeForm.BTTSRate() + in.AwayForm.BTTSRate()) / 2
	bothScore := []float64{btts, 1 - btts}
	normalize(bothScore)

	maxResult := matchResult[0]
	for _, p := range matchResult[1:] {
		if p > maxResult {
			maxResult = p
		}
	}

	sampleSize := in.SampleSize()
	analysis := &Analysis{
		HomeWin:    matchResult[0],
		Draw:       matchResult[1],
		AwayWin:    matchResult[2],
		Over25:     overUnder[0],
		Under25:    overUnder[1],
		BTTSYes:    bothScore[0],
		BTTSNo:     bothScore[1],
		Confidence: confidenceFor(maxResult, sampleSize),
		Reasoning: fmt.Sprintf(
			"Frequency analysis over %d matches: %s recent form %s, %s recent form %s",
			sampleSize,
			in.HomeTeam, in.HomeForm.RecentString(),
			in.AwayTeam, in.AwayForm.RecentString(),
		),
	}

	return analysis, nil
}
