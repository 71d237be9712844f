package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/repository"
)

// readCacheTTL keeps the dashboard listing snappy without serving stale
// estimates for long.
const readCacheTTL = 30 * time.Second

// ProbabilityView is one estimate with its fair decimal odds (1/p)
type ProbabilityView struct {
	models.Probability
	FairOdds decimal.Decimal `json:"fair_odds"`
}

// EventView is an upcoming event with its estimates, strongest first
type EventView struct {
	Event         *models.Event      `json:"event"`
	Probabilities []*ProbabilityView `json:"probabilities"`
}

// Reader serves the dashboard read path
type Reader struct {
	store  *repository.Store
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewReader creates a reader with a short-TTL cache in front of the store
func NewReader(store *repository.Store, logger *logrus.Logger) *Reader {
	return &Reader{
		store:  store,
		cache:  cache.New(readCacheTTL, readCacheTTL*2),
		logger: logger,
	}
}

// EventsWithProbabilities lists upcoming events with their estimates. An
// empty league lists all leagues. Events without estimates are included with
// an empty probability set.
func (r *Reader) EventsWithProbabilities(ctx context.Context, league string, limit int) ([]*EventView, error) {
	key := fmt.Sprintf("%s:%d", league, limit)
	if cached, found := r.cache.Get(key); found {
		if views, ok := cached.([]*EventView); ok {
			return views, nil
		}
	}

	var events []*models.Event
	var err error
	if league == "" {
		events, err = r.store.Events.GetUpcoming(ctx, limit)
	} else {
		events, err = r.store.Events.GetUpcomingByLeague(ctx, league, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming events: %w", err)
	}
	metrics.UpcomingEvents.Set(float64(len(events)))

	views := make([]*EventView, 0, len(events))
	for _, event := range events {
		probabilities, err := r.store.Probabilities.GetByEvent(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load probabilities for event %s: %w", event.ID, err)
		}

		view := &EventView{Event: event, Probabilities: make([]*ProbabilityView, 0, len(probabilities))}
		for _, p := range probabilities {
			view.Probabilities = append(view.Probabilities, &ProbabilityView{
				Probability: *p,
				FairOdds:    fairOdds(p.Probability),
			})
		}
		sort.SliceStable(view.Probabilities, func(i, j int) bool {
			return view.Probabilities[i].Probability.Probability > view.Probabilities[j].Probability.Probability
		})

		views = append(views, view)
	}

	r.cache.Set(key, views, cache.DefaultExpiration)
	return views, nil
}

// PickView is one high-confidence estimate joined with its event
type PickView struct {
	Event       *models.Event    `json:"event"`
	Probability *ProbabilityView `json:"probability"`
}

// TopPicks lists the strongest High-confidence estimates whose events have
// not kicked off yet. Rows for events that have since started or vanished
// are dropped rather than erroring.
func (r *Reader) TopPicks(ctx context.Context, limit int) ([]*PickView, error) {
	key := fmt.Sprintf("picks:%d", limit)
	if cached, found := r.cache.Get(key); found {
		if picks, ok := cached.([]*PickView); ok {
			return picks, nil
		}
	}

	rows, err := r.store.Probabilities.GetHighConfidence(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load high-confidence estimates: %w", err)
	}

	events := make(map[uuid.UUID]*models.Event)
	picks := make([]*PickView, 0, len(rows))
	for _, p := range rows {
		event, ok := events[p.EventID]
		if !ok {
			event, err = r.store.Events.GetByID(ctx, p.EventID)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to load event %s: %w", p.EventID, err)
			}
			events[p.EventID] = event
		}
		if !event.IsUpcoming() {
			continue
		}

		picks = append(picks, &PickView{
			Event:       event,
			Probability: &ProbabilityView{Probability: *p, FairOdds: fairOdds(p.Probability)},
		})
	}

	r.cache.Set(key, picks, cache.DefaultExpiration)
	return picks, nil
}

// InvalidateCache drops cached listings, forcing the next read to hit the store
func (r *Reader) InvalidateCache() {
	r.cache.Flush()
}

// fairOdds converts a probability to decimal odds rounded to 2 places.
// A zero probability has no finite odds and yields zero.
func fairOdds(p float64) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(decimal.NewFromFloat(p)).Round(2)
}
