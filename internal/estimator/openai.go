package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/metrics"
)

const analysisSystemPrompt = `You are a football betting analyst. Respond with a single JSON object ` +
	`containing integer percentages 0-100 under the keys "homeWin", "draw", "awayWin", ` +
	`"over25", "under25", "bttsYes", "bttsNo", a "confidence" string of High, Medium or Low, ` +
	`and a short "reasoning" string. homeWin+draw+awayWin must total 100, as must ` +
	`over25+under25 and bttsYes+bttsNo.`

// llmAnalysis is the strict-JSON shape the model is instructed to return
type llmAnalysis struct {
	HomeWin    float64 `json:"homeWin"`
	Draw       float64 `json:"draw"`
	AwayWin    float64 `json:"awayWin"`
	Over25     float64 `json:"over25"`
	Under25    float64 `json:"under25"`
	BTTSYes    float64 `json:"bttsYes"`
	BTTSNo     float64 `json:"bttsNo"`
	Confidence string  `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// OpenAI estimates probabilities with a language model and never propagates
// provider failures: any error falls back to the wrapped strategy.
type OpenAI struct {
	client   *OpenAIClient
	fallback Estimator
	logger   *logrus.Logger
}

// NewOpenAI creates an LLM-backed estimator with a fallback strategy
func NewOpenAI(client *OpenAIClient, fallback Estimator, logger *logrus.Logger) *OpenAI {
	return &OpenAI{client: client, fallback: fallback, logger: logger}
}

// Name identifies the strategy in logs and metrics
func (o *OpenAI) Name() string { return StrategyOpenAI }

// Estimate asks the language model for market percentages, falling back to
// the statistical strategy when the provider misbehaves in any way.
func (o *OpenAI) Estimate(ctx context.Context, in *Input) (*Analysis, error) {
	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues(o.Name()).Observe(time.Since(start).Seconds())
	}()
	metrics.AnalysisRequestsTotal.WithLabelValues(o.Name()).Inc()

	content, err := o.client.Complete(ctx, analysisSystemPrompt, buildAnalysisPrompt(in), true)
	if err != nil {
		return o.fallBack(ctx, in, fmt.Errorf("completion failed: %w", err))
	}

	var parsed llmAnalysis
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return o.fallBack(ctx, in, fmt.Errorf("malformed analysis JSON: %w", err))
	}

	analysis := parsed.toAnalysis(in.SampleSize())
	return analysis, nil
}

func (o *OpenAI) fallBack(ctx context.Context, in *Input, cause error) (*Analysis, error) {
	o.logger.WithError(cause).WithFields(logrus.Fields{
		"home_team": in.HomeTeam,
		"away_team": in.AwayTeam,
	}).Warn("Language model analysis failed, using statistical fallback")
	metrics.AnalysisFallbacksTotal.Inc()

	return o.fallback.Estimate(ctx, in)
}

// toAnalysis converts model percentages to fractions. Groups are
// renormalized first, so replies that do not quite total 100 still produce
// coherent probabilities.
func (a *llmAnalysis) toAnalysis(sampleSize int) *Analysis {
	matchResult := []float64{a.HomeWin, a.Draw, a.AwayWin}
	normalize(matchResult)
	overUnder := []float64{a.Over25, a.Under25}
	normalize(overUnder)
	bothScore := []float64{a.BTTSYes, a.BTTSNo}
	normalize(bothScore)

	confidence := a.Confidence
	switch confidence {
	case "High", "Medium", "Low":
	default:
		maxResult := matchResult[0]
		for _, p := range matchResult[1:] {
			if p > maxResult {
				maxResult = p
			}
		}
		confidence = confidenceFor(maxResult, sampleSize)
	}

	return &Analysis{
		HomeWin:    matchResult[0],
		Draw:       matchResult[1],
		AwayWin:    matchResult[2],
		Over25:     overUnder[0],
		Under25:    overUnder[1],
		BTTSYes:    bothScore[0],
		BTTSNo:     bothScore[1],
		Confidence: confidence,
		Reasoning:  a.Reasoning,
	}
}

// buildAnalysisPrompt renders the fixture context the model reasons over
func buildAnalysisPrompt(in *Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the upcoming match: %s (home) vs %s (away).\n\n", in.HomeTeam, in.AwayTeam)

	if in.HomeForm != nil && !in.HomeForm.Neutral {
		fmt.Fprintf(&b, "%s last %d matches: %s, %d wins %d draws %d losses, %.1f goals scored and %.1f conceded per game (%d home, %d away).\n",
			in.HomeTeam, in.HomeForm.Played, in.HomeForm.RecentString(),
			in.HomeForm.Wins, in.HomeForm.Draws, in.HomeForm.Losses,
			in.HomeForm.AverageGoalsFor(), in.HomeForm.AverageGoalsAgainst(),
			in.HomeForm.HomePlayed, in.HomeForm.AwayPlayed)
	} else {
		fmt.Fprintf(&b, "%s has no recent recorded matches.\n", in.HomeTeam)
	}

	if in.AwayForm != nil && !in.AwayForm.Neutral {
		fmt.Fprintf(&b, "%s last %d matches: %s, %d wins %d draws %d losses, %.1f goals scored and %.1f conceded per game (%d home, %d away).\n",
			in.AwayTeam, in.AwayForm.Played, in.AwayForm.RecentString(),
			in.AwayForm.Wins, in.AwayForm.Draws, in.AwayForm.Losses,
			in.AwayForm.AverageGoalsFor(), in.AwayForm.AverageGoalsAgainst(),
			in.AwayForm.HomePlayed, in.AwayForm.AwayPlayed)
	} else {
		fmt.Fprintf(&b, "%s has no recent recorded matches.\n", in.AwayTeam)
	}

	if in.HeadToHead != nil {
		fmt.Fprintf(&b, "Head to head: %s.\n", in.HeadToHead.Describe(in.HomeTeam, in.AwayTeam))
	}

	if len(in.Enhanced) > 0 {
		b.WriteString("\nDetailed match statistics:\n")
		for _, line := range in.Enhanced {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	return b.String()
}
