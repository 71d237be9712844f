package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/estimator"
	"github.com/yourusername/pitch-prophet/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func estimatorConfig() *config.EstimatorConfig {
	return &config.EstimatorConfig{
		Strategy:        estimator.StrategyStatistical,
		MinSampleSize:   5,
		TeamMatchLimit:  20,
		HeadToHeadLimit: 10,
	}
}

func upcomingEvent(home, away string) *models.Event {
	return &models.Event{
		ID:       uuid.New(),
		HomeTeam: home,
		AwayTeam: away,
		League:   "Premier League",
		Kickoff:  time.Now().Add(48 * time.Hour),
		Status:   models.StatusUpcoming,
	}
}

func finishedMatch(home, away string, homeScore, awayScore, daysAgo int) *models.Match {
	return &models.Match{
		ID:        uuid.New(),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Date:      time.Now().AddDate(0, 0, -daysAgo),
	}
}

func flatAnalysis() *estimator.Analysis {
	return &estimator.Analysis{
		HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2,
		Over25: 0.6, Under25: 0.4,
		BTTSYes: 0.5, BTTSNo: 0.5,
		Confidence: models.ConfidenceMedium,
	}
}

func nMatches(home, away string, n int) []*models.Match {
	matches := make([]*models.Match, 0, n)
	for i := 0; i < n; i++ {
		matches = append(matches, finishedMatch(home, away, 1, 0, i+1))
	}
	return matches
}

func TestRecomputeEventWritesSevenRowsWithFullHistory(t *testing.T) {
	event := upcomingEvent("Arsenal", "Chelsea")
	matches := &MockMatchRepository{}
	probabilities := &MockProbabilityRepository{}
	est := &MockEstimator{}

	matches.On("GetByTeam", mock.Anything, "Arsenal", 20).Return(nMatches("Arsenal", "X", 8), nil)
	matches.On("GetByTeam", mock.Anything, "Chelsea", 20).Return(nMatches("Chelsea", "Y", 6), nil)
	matches.On("GetHeadToHead", mock.Anything, "Arsenal", "Chelsea", 10).Return(nMatches("Arsenal", "Chelsea", 4), nil)
	est.On("Estimate", mock.Anything, mock.Anything).Return(flatAnalysis(), nil)

	var written []*models.Probability
	probabilities.On("ReplaceForEvent", mock.Anything, event.ID, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(2).([]*models.Probability)
		}).Return(nil)

	engine := NewProbabilityEngine(mockStore(nil, matches, probabilities, nil), est, estimatorConfig(), &config.SyncConfig{}, testLogger())
	require.NoError(t, engine.RecomputeEvent(context.Background(), event))

	require.Len(t, written, 7)

	bySubMarket := make(map[string]*models.Probability)
	for _, p := range written {
		bySubMarket[p.SubMarket] = p
		assert.Equal(t, event.ID, p.EventID)
		assert.Equal(t, models.ConfidenceMedium, p.Confidence)
	}

	// sample sizes follow the per-market rules
	assert.Equal(t, 12, bySubMarket[models.SubMarketHomeWin].SampleSize) // home + h2h
	assert.Equal(t, 14, bySubMarket[models.SubMarketDraw].SampleSize)    // home + away
	assert.Equal(t, 10, bySubMarket[models.SubMarketAwayWin].SampleSize) // away + h2h
	assert.Equal(t, 14, bySubMarket[models.SubMarketOver25].SampleSize)
	assert.Equal(t, 14, bySubMarket[models.SubMarketBTTSYes].SampleSize)

	// the swap is a single repository call; ReplaceForEvent owns the delete
	require.Len(t, probabilities.Calls, 1)
}

func TestRecomputeEventOmitsThinMarkets(t *testing.T) {
	event := upcomingEvent("Arsenal", "Chelsea")
	matches := &MockMatchRepository{}
	probabilities := &MockProbabilityRepository{}
	est := &MockEstimator{}

	// combined home+away sample of 4 is below the minimum of 5
	matches.On("GetByTeam", mock.Anything, "Arsenal", 20).Return(nMatches("Arsenal", "X", 2), nil)
	matches.On("GetByTeam", mock.Anything, "Chelsea", 20).Return(nMatches("Chelsea", "Y", 2), nil)
	matches.On("GetHeadToHead", mock.Anything, "Arsenal", "Chelsea", 10).Return([]*models.Match{}, nil)
	est.On("Estimate", mock.Anything, mock.Anything).Return(flatAnalysis(), nil)

	var written []*models.Probability
	probabilities.On("ReplaceForEvent", mock.Anything, event.ID, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(2).([]*models.Probability)
		}).Return(nil)

	engine := NewProbabilityEngine(mockStore(nil, matches, probabilities, nil), est, estimatorConfig(), &config.SyncConfig{}, testLogger())
	require.NoError(t, engine.RecomputeEvent(context.Background(), event))

	require.Len(t, written, 3)
	for _, p := range written {
		assert.Equal(t, models.MarketMatchResult, p.Market)
	}
}

func TestRecomputeEventPropagatesEstimatorError(t *testing.T) {
	event := upcomingEvent("Arsenal", "Chelsea")
	matches := &MockMatchRepository{}
	probabilities := &MockProbabilityRepository{}
	est := &MockEstimator{}

	matches.On("GetByTeam", mock.Anything, mock.Anything, 20).Return([]*models.Match{}, nil)
	matches.On("GetHeadToHead", mock.Anything, "Arsenal", "Chelsea", 10).Return([]*models.Match{}, nil)
	est.On("Estimate", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	engine := NewProbabilityEngine(mockStore(nil, matches, probabilities, nil), est, estimatorConfig(), &config.SyncConfig{}, testLogger())
	err := engine.RecomputeEvent(context.Background(), event)

	assert.ErrorContains(t, err, "estimation failed")
	probabilities.AssertNotCalled(t, "ReplaceForEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecomputeBatchCollectsPerEventErrors(t *testing.T) {
	good := upcomingEvent("Arsenal", "Chelsea")
	bad := upcomingEvent("Spurs", "Everton")

	matches := &MockMatchRepository{}
	probabilities := &MockProbabilityRepository{}
	est := &MockEstimator{}

	matches.On("GetByTeam", mock.Anything, mock.Anything, 20).Return([]*models.Match{}, nil)
	matches.On("GetHeadToHead", mock.Anything, mock.Anything, mock.Anything, 10).Return([]*models.Match{}, nil)
	est.On("Estimate", mock.Anything, mock.Anything).Return(flatAnalysis(), nil)
	probabilities.On("ReplaceForEvent", mock.Anything, good.ID, mock.Anything).Return(nil)
	probabilities.On("ReplaceForEvent", mock.Anything, bad.ID, mock.Anything).Return(errors.New("store down"))

	engine := NewProbabilityEngine(mockStore(nil, matches, probabilities, nil), est, estimatorConfig(), &config.SyncConfig{}, testLogger())
	engine.sleep = noSleep

	result, err := engine.RecomputeBatch(context.Background(), []*models.Event{good, bad})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Errors, 1)
	assert.ErrorContains(t, result.Errors[0], bad.ID.String())
}
