package models

import (
	"time"

	"github.com/google/uuid"
)

// Markets
const (
	MarketMatchResult = "Match Result"
	MarketOverUnder   = "Over/Under 2.5"
	MarketBTTS        = "Both Teams to Score"
)

// Sub-markets
const (
	SubMarketHomeWin = "Home Win"
	SubMarketDraw    = "Draw"
	SubMarketAwayWin = "Away Win"
	SubMarketOver25  = "Over 2.5"
	SubMarketUnder25 = "Under 2.5"
	SubMarketBTTSYes = "Yes"
	SubMarketBTTSNo  = "No"
)

// Confidence tiers
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Probability is one market/sub-market estimate for one event. The full set
// for an event is deleted and recreated on every recomputation.
type Probability struct {
	ID             uuid.UUID `db:"id" json:"id" validate:"required"`
	EventID        uuid.UUID `db:"event_id" json:"event_id" validate:"required"`
	Market         string    `db:"market" json:"market" validate:"required"`
	SubMarket      string    `db:"sub_market" json:"sub_market" validate:"required"`
	Probability    float64   `db:"probability" json:"probability" validate:"gte=0,lte=1"`
	Confidence     string    `db:"confidence" json:"confidence" validate:"oneof=High Medium Low"`
	SampleSize     int       `db:"sample_size" json:"sample_size" validate:"gte=0"`
	LastCalculated time.Time `db:"last_calculated" json:"last_calculated"`
}
