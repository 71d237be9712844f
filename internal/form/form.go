// Package form turns raw match history into the aggregates the estimators
// consume: result counts, goal tallies, venue splits and head-to-head
// summaries.
package form

import (
	"fmt"
	"strings"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// TeamForm summarizes a team's recent results from that team's perspective
type TeamForm struct {
	Team         string
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	Over25       int
	BTTS         int
	HomePlayed   int
	HomeWins     int
	AwayPlayed   int
	AwayWins     int
	// Neutral marks a form built from zero matches; rates fall back to
	// even-chance defaults instead of dividing by zero.
	Neutral bool
	// Recent holds up to the 5 newest matches for prompt building
	Recent []*models.Match
}

const recentWindow = 5

// Aggregate builds a TeamForm from the team's matches, newest first
func Aggregate(team string, matches []*models.Match) *TeamForm {
	f := &TeamForm{Team: team}

	for _, m := range matches {
		if !m.Involves(team) {
			continue
		}
		f.Played++

		goalsFor, goalsAgainst := m.HomeScore, m.AwayScore
		if m.AwayTeam == team {
			goalsFor, goalsAgainst = m.AwayScore, m.HomeScore
			f.AwayPlayed++
		} else {
			f.HomePlayed++
		}

		f.GoalsFor += goalsFor
		f.GoalsAgainst += goalsAgainst

		switch {
		case goalsFor > goalsAgainst:
			f.Wins++
			if m.HomeTeam == team {
				f.HomeWins++
			} else {
				f.AwayWins++
			}
		case goalsFor == goalsAgainst:
			f.Draws++
		default:
			f.Losses++
		}

		if m.TotalGoals() > 2 {
			f.Over25++
		}
		if m.BothTeamsScored() {
			f.BTTS++
		}

		if len(f.Recent) < recentWindow {
			f.Recent = append(f.Recent, m)
		}
	}

	if f.Played == 0 {
		f.Neutral = true
	}
	return f
}

// WinRate returns the fraction of matches won
func (f *TeamForm) WinRate() float64 { return f.rate(f.Wins) }

// DrawRate returns the fraction of matches drawn
func (f *TeamForm) DrawRate() float64 { return f.rate(f.Draws) }

// LossRate returns the fraction of matches lost
func (f *TeamForm) LossRate() float64 { return f.rate(f.Losses) }

// Over25Rate returns the fraction of matches with 3+ goals
func (f *TeamForm) Over25Rate() float64 { return f.rate(f.Over25) }

// BTTSRate returns the fraction of matches where both sides scored
func (f *TeamForm) BTTSRate() float64 { return f.rate(f.BTTS) }

func (f *TeamForm) rate(count int) float64 {
	if f.Played == 0 {
		return 0
	}
	return float64(count) / float64(f.Played)
}

// AverageGoalsFor returns mean goals scored per match
func (f *TeamForm) AverageGoalsFor() float64 {
	if f.Played == 0 {
		return 0
	}
	return float64(f.GoalsFor) / float64(f.Played)
}

// AverageGoalsAgainst returns mean goals conceded per match
func (f *TeamForm) AverageGoalsAgainst() float64 {
	if f.Played == 0 {
		return 0
	}
	return float64(f.GoalsAgainst) / float64(f.Played)
}

// RecentString renders the last results as a compact W/D/L string, newest first
func (f *TeamForm) RecentString() string {
	if len(f.Recent) == 0 {
		return "no recent matches"
	}

	letters := make([]string, 0, len(f.Recent))
	for _, m := range f.Recent {
		goalsFor, goalsAgainst := m.HomeScore, m.AwayScore
		if m.AwayTeam == f.Team {
			goalsFor, goalsAgainst = m.AwayScore, m.HomeScore
		}
		switch {
		case goalsFor > goalsAgainst:
			letters = append(letters, "W")
		case goalsFor == goalsAgainst:
			letters = append(letters, "D")
		default:
			letters = append(letters, "L")
		}
	}
	return strings.Join(letters, "")
}

// HeadToHead summarizes past meetings between two specific teams
type HeadToHead struct {
	Played    int
	TeamAWins int
	TeamBWins int
	Draws     int
	Over25    int
	BTTS      int
}

// SummarizeHeadToHead builds a HeadToHead from meetings between teamA and
// teamB, counting wins from teamA's perspective.
func SummarizeHeadToHead(teamA, teamB string, matches []*models.Match) *HeadToHead {
	h := &HeadToHead{}
	for _, m := range matches {
		if !m.Involves(teamA) || !m.Involves(teamB) {
			continue
		}
		h.Played++

		aGoals, bGoals := m.HomeScore, m.AwayScore
		if m.HomeTeam == teamB {
			aGoals, bGoals = m.AwayScore, m.HomeScore
		}
		switch {
		case aGoals > bGoals:
			h.TeamAWins++
		case aGoals < bGoals:
			h.TeamBWins++
		default:
			h.Draws++
		}

		if m.TotalGoals() > 2 {
			h.Over25++
		}
		if m.BothTeamsScored() {
			h.BTTS++
		}
	}
	return h
}

// Describe renders the summary for prompt building
func (h *HeadToHead) Describe(teamA, teamB string) string {
	if h.Played == 0 {
		return fmt.Sprintf("%s and %s have no recorded meetings", teamA, teamB)
	}
	return fmt.Sprintf("%d meetings: %s won %d, %s won %d, %d draws",
		h.Played, teamA, h.TeamAWins, teamB, h.TeamBWins, h.Draws)
}
