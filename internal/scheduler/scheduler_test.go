package scheduler

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/service"
)

func testScheduler() *Scheduler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{
		FootballData: config.FootballDataConfig{
			Competitions:  []string{"PL"},
			FixtureWindow: 7,
			HistoryWindow: 7,
		},
	}
	return NewScheduler(&service.IngestionService{}, cfg, logger)
}

func TestStartWithoutJobsFails(t *testing.T) {
	s := testScheduler()
	assert.ErrorContains(t, s.Start(), "no jobs scheduled")
}

func TestInvalidCronExpressionRejected(t *testing.T) {
	s := testScheduler()
	assert.Error(t, s.ScheduleFixtureCrawl("not a cron line"))
}

func TestScheduleAndLifecycle(t *testing.T) {
	s := testScheduler()

	require.NoError(t, s.ScheduleFixtureCrawl("0 6 * * *"))
	require.NoError(t, s.ScheduleHistoricalCrawl("30 6 * * *"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.False(t, s.NextRun().IsZero())

	s.Stop()
	assert.False(t, s.IsRunning())
	// stopping twice is harmless
	s.Stop()
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := testScheduler()
	require.NoError(t, s.ScheduleFixtureCrawl("@hourly"))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.ErrorContains(t, s.ScheduleHistoricalCrawl("@daily"), "while scheduler is running")
}
