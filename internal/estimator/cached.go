package estimator

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Cached wraps another strategy with a TTL cache. The key includes the
// newest match date on either side, so fresh results invalidate naturally.
type Cached struct {
	inner  Estimator
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewCached creates a caching wrapper around an estimator
func NewCached(inner Estimator, ttl time.Duration, logger *logrus.Logger) *Cached {
	return &Cached{
		inner:  inner,
		cache:  cache.New(ttl, ttl*2),
		logger: logger,
	}
}

// Name identifies the wrapped strategy
func (c *Cached) Name() string { return c.inner.Name() }

// Estimate returns a cached analysis when one exists for the same matchup
// and history state
func (c *Cached) Estimate(ctx context.Context, in *Input) (*Analysis, error) {
	key := cacheKey(in)

	if cached, found := c.cache.Get(key); found {
		if analysis, ok := cached.(*Analysis); ok {
			c.logger.WithField("cache_key", key).Debug("Cache hit for analysis")
			return analysis, nil
		}
	}

	analysis, err := c.inner.Estimate(ctx, in)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, analysis, cache.DefaultExpiration)
	return analysis, nil
}

// Clear flushes all cached analyses
func (c *Cached) Clear() {
	c.cache.Flush()
}

func cacheKey(in *Input) string {
	newest := time.Time{}
	if in.HomeForm != nil && len(in.HomeForm.Recent) > 0 {
		newest = in.HomeForm.Recent[0].Date
	}
	if in.AwayForm != nil && len(in.AwayForm.Recent) > 0 {
		if d := in.AwayForm.Recent[0].Date; d.After(newest) {
			newest = d
		}
	}
	return fmt.Sprintf("%s:%s:%d", in.HomeTeam, in.AwayTeam, newest.Unix())
}
