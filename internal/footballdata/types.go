// Package footballdata provides the client for the external fixtures/results
// API (football-data.org v4 wire shape).
package footballdata

import "errors"

// Competition codes for the major leagues
const (
	PremierLeague   = "PL"
	LaLiga          = "PD"
	Bundesliga      = "BL1"
	SerieA          = "SA"
	Ligue1          = "FL1"
	ChampionsLeague = "CL"
	EuropaLeague    = "EL"
)

// LeagueNameToCode maps upstream league display names to competition codes
var LeagueNameToCode = map[string]string{
	"Premier League":        PremierLeague,
	"Primera Division":      LaLiga,
	"Bundesliga":            Bundesliga,
	"Serie A":               SerieA,
	"Ligue 1":               Ligue1,
	"UEFA Champions League": ChampionsLeague,
	"UEFA Europa League":    EuropaLeague,
}

// Fixture is a scheduled or completed match as returned by the upstream API
type Fixture struct {
	ID      int    `json:"id"`
	UTCDate string `json:"utcDate"`
	Status  string `json:"status"`
	Season  struct {
		ID        int    `json:"id"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"season"`
	HomeTeam struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"awayTeam"`
	Score struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
		HalfTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"halfTime"`
	} `json:"score"`
	Competition struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"competition"`
	Venue string `json:"venue"`
}

// matchListResponse is the envelope around fixture lists
type matchListResponse struct {
	Matches []Fixture `json:"matches"`
}

// MatchIncident is an in-match event (goal, card, substitution) from the
// paid-plan events endpoint
type MatchIncident struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	Minute int    `json:"minute"`
	Player struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// Incident types
const (
	IncidentGoal         = "GOAL"
	IncidentYellowCard   = "YELLOW_CARD"
	IncidentRedCard      = "RED_CARD"
	IncidentSubstitution = "SUBSTITUTION"
)

// matchEventsResponse is the envelope around incident lists
type matchEventsResponse struct {
	Events []MatchIncident `json:"events"`
}

// competitionListResponse is the envelope around the competitions listing
type competitionListResponse struct {
	Competitions []struct {
		ID   int    `json:"id"`
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"competitions"`
}

// API error classes
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrServerError          = errors.New("server error")
)
