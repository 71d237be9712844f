package estimator

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/config"
)

// NewFromConfig builds the configured strategy, wrapped in the TTL cache
// when one is configured. The cleanup function releases provider clients.
func NewFromConfig(cfg *config.Config, logger *logrus.Logger) (Estimator, func(), error) {
	statistical := NewStatistical(logger)

	var est Estimator
	cleanup := func() {}

	switch cfg.Estimator.Strategy {
	case StrategyStatistical:
		est = statistical
	case StrategyOpenAI:
		client := NewOpenAIClient(&cfg.OpenAI, logger)
		est = NewOpenAI(client, statistical, logger)
		cleanup = func() { _ = client.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown estimator strategy: %s", cfg.Estimator.Strategy)
	}

	if cfg.Estimator.CacheTTLSeconds > 0 {
		est = NewCached(est, time.Duration(cfg.Estimator.CacheTTLSeconds)*time.Second, logger)
	}

	logger.WithField("strategy", cfg.Estimator.Strategy).Info("Estimator strategy initialized")
	return est, cleanup, nil
}
