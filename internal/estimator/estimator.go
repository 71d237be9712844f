// Package estimator derives market probabilities for a fixture from the two
// teams' aggregated form. Strategies share one interface; the configured
// strategy is wired in at startup rather than probed at call time.
package estimator

import (
	"context"

	"github.com/yourusername/pitch-prophet/internal/form"
	"github.com/yourusername/pitch-prophet/internal/models"
)

// Strategy names as they appear in configuration
const (
	StrategyStatistical = "statistical"
	StrategyOpenAI      = "openai"
)

// Input is everything a strategy may consider for one fixture
type Input struct {
	HomeTeam   string
	AwayTeam   string
	HomeForm   *form.TeamForm
	AwayForm   *form.TeamForm
	HeadToHead *form.HeadToHead
	// Enhanced holds pre-rendered auxiliary statistics lines (corners,
	// cards, half-time scores). Optional; only prompts consume it.
	Enhanced []string
}

// SampleSize is the combined number of matches behind the estimate
func (in *Input) SampleSize() int {
	n := 0
	if in.HomeForm != nil {
		n += in.HomeForm.Played
	}
	if in.AwayForm != nil {
		n += in.AwayForm.Played
	}
	return n
}

// Analysis is a full set of market estimates for one fixture. Each
// mutually-exclusive group (1X2, over/under, BTTS) sums to 1.
type Analysis struct {
	HomeWin    float64
	Draw       float64
	AwayWin    float64
	Over25     float64
	Under25    float64
	BTTSYes    float64
	BTTSNo     float64
	Confidence string
	Reasoning  string
}

// Estimator produces an Analysis for a fixture
type Estimator interface {
	Estimate(ctx context.Context, in *Input) (*Analysis, error)
	Name() string
}

// confidenceFor applies the shared confidence rule: the tier depends on the
// strongest 1X2 estimate and the sample size behind it.
func confidenceFor(maxProbability float64, sampleSize int) string {
	switch {
	case maxProbability >= 0.8 && sampleSize >= 15:
		return models.ConfidenceHigh
	case maxProbability >= 0.65 && sampleSize >= 10:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// normalize scales a group of probabilities to sum to 1. A degenerate group
// (zero or negative total) becomes a uniform distribution.
func normalize(group []float64) {
	total := 0.0
	for _, p := range group {
		if p > 0 {
			total += p
		}
	}
	if total <= 0 {
		for i := range group {
			group[i] = 1.0 / float64(len(group))
		}
		return
	}
	for i, p := range group {
		if p < 0 {
			p = 0
		}
		group[i] = p / total
	}
}

// defaultAnalysis is the cold-start output when no history exists for
// either team.
func defaultAnalysis(reasoning string) *Analysis {
	return &Analysis{
		HomeWin:    0.40,
		Draw:       0.30,
		AwayWin:    0.30,
		Over25:     0.55,
		Under25:    0.45,
		BTTSYes:    0.50,
		BTTSNo:     0.50,
		Confidence: models.ConfidenceLow,
		Reasoning:  reasoning,
	}
}
