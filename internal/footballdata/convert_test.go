package footballdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/models"
)

func intPtr(n int) *int { return &n }

func testFixture(utcDate, status string) Fixture {
	fixture := Fixture{
		ID:      4021,
		UTCDate: utcDate,
		Status:  status,
		Venue:   "Emirates Stadium",
	}
	fixture.HomeTeam.Name = "Arsenal FC"
	fixture.AwayTeam.Name = "Chelsea FC"
	fixture.Competition.Name = "Premier League"
	fixture.Season.StartDate = "2025-08-01"
	fixture.Season.EndDate = "2026-05-30"
	return fixture
}

func TestConvertFixtureToEvent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		utcDate    string
		status     string
		wantStatus string
	}{
		{
			name:       "future kickoff is upcoming",
			utcDate:    "2026-03-14T15:00:00Z",
			status:     "SCHEDULED",
			wantStatus: models.StatusUpcoming,
		},
		{
			name:       "future kickoff overrides upstream status",
			utcDate:    "2026-03-14T15:00:00Z",
			status:     "FINISHED",
			wantStatus: models.StatusUpcoming,
		},
		{
			name:       "past kickoff in play is live",
			utcDate:    "2026-03-10T11:15:00Z",
			status:     "IN_PLAY",
			wantStatus: models.StatusLive,
		},
		{
			name:       "past kickoff otherwise finished",
			utcDate:    "2026-03-07T15:00:00Z",
			status:     "FINISHED",
			wantStatus: models.StatusFinished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ConvertFixtureToEvent(testFixture(tt.utcDate, tt.status), now)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, event.Status)
			assert.Equal(t, "Arsenal FC", event.HomeTeam)
			assert.Equal(t, "Chelsea FC", event.AwayTeam)
			assert.Equal(t, "Premier League", event.League)
			assert.Equal(t, "2025-2026", event.Season)
			assert.Equal(t, "4021", event.ExternalID)
		})
	}
}

func TestConvertFixtureToEventRejectsBadKickoff(t *testing.T) {
	_, err := ConvertFixtureToEvent(testFixture("next saturday", "SCHEDULED"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestConvertFixtureToMatch(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	fixture := testFixture("2026-03-07T15:00:00Z", "FINISHED")
	fixture.Score.FullTime.Home = intPtr(3)
	fixture.Score.FullTime.Away = intPtr(1)
	fixture.Score.HalfTime.Home = intPtr(2)
	fixture.Score.HalfTime.Away = intPtr(0)

	match, err := ConvertFixtureToMatch(fixture, now)
	require.NoError(t, err)

	assert.Equal(t, 3, match.HomeScore)
	assert.Equal(t, 1, match.AwayScore)
	assert.Equal(t, "4021", match.ExternalID)

	stats, err := match.ParseStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.HalfTimeHomeScore)
	assert.Equal(t, 0, stats.HalfTimeAwayScore)
}

func TestConvertFixtureToMatchRequiresFullTimeScore(t *testing.T) {
	fixture := testFixture("2026-03-07T15:00:00Z", "FINISHED")
	fixture.Score.FullTime.Home = intPtr(2)

	_, err := ConvertFixtureToMatch(fixture, time.Now())
	assert.ErrorIs(t, err, ErrInvalidData)
}

func testIncident(kind string, minute int, player, team string) MatchIncident {
	incident := MatchIncident{Type: kind, Minute: minute}
	incident.Player.Name = player
	incident.Team.Name = team
	return incident
}

func TestBuildStatsFromIncidents(t *testing.T) {
	incidents := []MatchIncident{
		testIncident(IncidentGoal, 23, "Bukayo Saka", "Arsenal FC"),
		testIncident(IncidentYellowCard, 41, "Enzo Fernandez", "Chelsea FC"),
		testIncident(IncidentYellowCard, 60, "Declan Rice", "Arsenal FC"),
		testIncident(IncidentRedCard, 77, "Moises Caicedo", "Chelsea FC"),
		testIncident(IncidentSubstitution, 65, "", "Arsenal FC"),
		testIncident(IncidentSubstitution, 70, "", "Chelsea FC"),
	}

	stats := BuildStatsFromIncidents("Arsenal FC", incidents)

	assert.Equal(t, 1, stats.HomeYellowCards)
	assert.Equal(t, 1, stats.AwayYellowCards)
	assert.Equal(t, 0, stats.HomeRedCards)
	assert.Equal(t, 1, stats.AwayRedCards)
	assert.Equal(t, 2, stats.Substitutions)
	require.Len(t, stats.GoalScorers, 1)
	assert.Equal(t, "Bukayo Saka", stats.GoalScorers[0].Player)
	assert.Len(t, stats.Bookings, 3)
}

func TestLeagueNameToCode(t *testing.T) {
	assert.Equal(t, PremierLeague, LeagueNameToCode["Premier League"])
	assert.Equal(t, LaLiga, LeagueNameToCode["Primera Division"])
	_, known := LeagueNameToCode["Eredivisie"]
	assert.False(t, known)
}
