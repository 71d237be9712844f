package footballdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// ConvertFixtureToEvent maps an upstream fixture to an Event record. The
// status is derived from kickoff time versus now; the upstream status string
// is only consulted for fixtures already underway.
func ConvertFixtureToEvent(fixture Fixture, now time.Time) (*models.Event, error) {
	kickoff, err := time.Parse(time.RFC3339, fixture.UTCDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad kickoff time %q: %v", ErrInvalidData, fixture.UTCDate, err)
	}

	return &models.Event{
		ID:         uuid.New(),
		HomeTeam:   fixture.HomeTeam.Name,
		AwayTeam:   fixture.AwayTeam.Name,
		League:     fixture.Competition.Name,
		Kickoff:    kickoff,
		Venue:      fixture.Venue,
		Status:     models.CanonicalStatus(kickoff, fixture.Status, now),
		Season:     seasonLabel(fixture.Season.StartDate, fixture.Season.EndDate),
		ExternalID: strconv.Itoa(fixture.ID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ConvertFixtureToMatch maps a finished upstream fixture to a historical
// Match record. The half-time score goes into the versioned stats payload;
// the remaining stats fields stay zero until enhanced data is fetched.
func ConvertFixtureToMatch(fixture Fixture, now time.Time) (*models.Match, error) {
	date, err := time.Parse(time.RFC3339, fixture.UTCDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad match date %q: %v", ErrInvalidData, fixture.UTCDate, err)
	}
	if fixture.Score.FullTime.Home == nil || fixture.Score.FullTime.Away == nil {
		return nil, fmt.Errorf("%w: finished match %d has no full-time score", ErrInvalidData, fixture.ID)
	}

	match := &models.Match{
		ID:         uuid.New(),
		HomeTeam:   fixture.HomeTeam.Name,
		AwayTeam:   fixture.AwayTeam.Name,
		HomeScore:  *fixture.Score.FullTime.Home,
		AwayScore:  *fixture.Score.FullTime.Away,
		Date:       date,
		League:     fixture.Competition.Name,
		ExternalID: strconv.Itoa(fixture.ID),
		CreatedAt:  now,
	}

	stats := &models.MatchStats{}
	if fixture.Score.HalfTime.Home != nil {
		stats.HalfTimeHomeScore = *fixture.Score.HalfTime.Home
	}
	if fixture.Score.HalfTime.Away != nil {
		stats.HalfTimeAwayScore = *fixture.Score.HalfTime.Away
	}
	if err := match.SetStats(stats); err != nil {
		return nil, err
	}

	return match, nil
}

// BuildStatsFromIncidents assembles the enhanced statistics payload from the
// paid-plan match events feed.
func BuildStatsFromIncidents(homeTeam string, incidents []MatchIncident) *models.MatchStats {
	stats := &models.MatchStats{}

	for _, incident := range incidents {
		isHome := incident.Team.Name == homeTeam
		event := models.MatchEvent{
			Player: incident.Player.Name,
			Team:   incident.Team.Name,
			Minute: incident.Minute,
		}

		switch incident.Type {
		case IncidentGoal:
			stats.GoalScorers = append(stats.GoalScorers, event)
		case IncidentYellowCard:
			if isHome {
				stats.HomeYellowCards++
			} else {
				stats.AwayYellowCards++
			}
			stats.Bookings = append(stats.Bookings, event)
		case IncidentRedCard:
			if isHome {
				stats.HomeRedCards++
			} else {
				stats.AwayRedCards++
			}
			stats.Bookings = append(stats.Bookings, event)
		case IncidentSubstitution:
			stats.Substitutions++
		}
	}

	return stats
}

// seasonLabel derives a "2025-2026" style label from the season date bounds
func seasonLabel(startDate, endDate string) string {
	start := strings.SplitN(startDate, "-", 2)[0]
	end := strings.SplitN(endDate, "-", 2)[0]
	if start == "" || end == "" {
		return ""
	}
	return start + "-" + end
}
