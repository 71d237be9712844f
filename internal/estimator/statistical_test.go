package estimator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/form"
	"github.com/yourusername/pitch-prophet/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func playedMatch(home, away string, homeScore, awayScore, daysAgo int) *models.Match {
	return &models.Match{
		ID:        uuid.New(),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Date:      time.Now().AddDate(0, 0, -daysAgo),
	}
}

func formOf(team string, matches ...*models.Match) *form.TeamForm {
	return form.Aggregate(team, matches)
}

func TestStatisticalColdStartDefaults(t *testing.T) {
	s := NewStatistical(testLogger())

	analysis, err := s.Estimate(context.Background(), &Input{
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		HomeForm: formOf("Arsenal"),
		AwayForm: formOf("Chelsea"),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.40, analysis.HomeWin, 1e-9)
	assert.InDelta(t, 0.30, analysis.Draw, 1e-9)
	assert.InDelta(t, 0.30, analysis.AwayWin, 1e-9)
	assert.InDelta(t, 0.55, analysis.Over25, 1e-9)
	assert.InDelta(t, 0.45, analysis.Under25, 1e-9)
	assert.InDelta(t, 0.50, analysis.BTTSYes, 1e-9)
	assert.Equal(t, models.ConfidenceLow, analysis.Confidence)
}

func TestStatisticalGroupsSumToOne(t *testing.T) {
	home := formOf("Arsenal",
		playedMatch("Arsenal", "Spurs", 2, 0, 1),
		playedMatch("Fulham", "Arsenal", 0, 3, 8),
		playedMatch("Arsenal", "Everton", 1, 1, 15),
	)
	away := formOf("Chelsea",
		playedMatch("Chelsea", "Brighton", 1, 2, 2),
		playedMatch("Wolves", "Chelsea", 2, 2, 9),
	)

	s := NewStatistical(testLogger())
	analysis, err := s.Estimate(context.Background(), &Input{
		HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		HomeForm: home, AwayForm: away,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, analysis.HomeWin+analysis.Draw+analysis.AwayWin, 1e-9)
	assert.InDelta(t, 1.0, analysis.Over25+analysis.Under25, 1e-9)
	assert.InDelta(t, 1.0, analysis.BTTSYes+analysis.BTTSNo, 1e-9)
}

func TestStatisticalHomeAdvantageShiftsResult(t *testing.T) {
	// identical records on both sides; the home side should still edge ahead
	homeMatches := []*models.Match{
		playedMatch("Arsenal", "Spurs", 2, 0, 1),
		playedMatch("Arsenal", "Fulham", 0, 1, 8),
	}
	awayMatches := []*models.Match{
		playedMatch("Chelsea", "Brighton", 2, 0, 1),
		playedMatch("Chelsea", "Wolves", 0, 1, 8),
	}

	s := NewStatistical(testLogger())
	analysis, err := s.Estimate(context.Background(), &Input{
		HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		HomeForm: formOf("Arsenal", homeMatches...),
		AwayForm: formOf("Chelsea", awayMatches...),
	})
	require.NoError(t, err)

	assert.Greater(t, analysis.HomeWin, analysis.AwayWin)
}

func TestConfidenceBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		p          float64
		n          int
		confidence string
	}{
		{"high at both thresholds", 0.80, 15, models.ConfidenceHigh},
		{"sample one short of high", 0.80, 14, models.ConfidenceMedium},
		{"probability below high", 0.79, 20, models.ConfidenceMedium},
		{"medium at both thresholds", 0.65, 10, models.ConfidenceMedium},
		{"sample one short of medium", 0.65, 9, models.ConfidenceLow},
		{"low probability", 0.40, 40, models.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.confidence, confidenceFor(tt.p, tt.n))
		})
	}
}

func TestNormalizeHandlesDefensiveCases(t *testing.T) {
	group := []float64{0.5, 0.2, 0.2}
	normalize(group)
	assert.InDelta(t, 0.5/0.9, group[0], 1e-9)
	assert.InDelta(t, 0.2/0.9, group[1], 1e-9)
	assert.InDelta(t, 0.2/0.9, group[2], 1e-9)

	degenerate := []float64{0, 0}
	normalize(degenerate)
	assert.InDelta(t, 0.5, degenerate[0], 1e-9)
	assert.InDelta(t, 0.5, degenerate[1], 1e-9)

	negative := []float64{-0.1, 0.4}
	normalize(negative)
	assert.Zero(t, negative[0])
	assert.InDelta(t, 1.0, negative[1], 1e-9)
}
