package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/database"
	"github.com/yourusername/pitch-prophet/internal/docstore"
	"github.com/yourusername/pitch-prophet/internal/httpclient"
)

// NewStore builds the repository set for the configured storage driver.
// The returned cleanup function releases the driver's connections.
func NewStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverDocuments:
		return newDocumentsStore(cfg, logger)
	case config.StorageDriverPostgres:
		return newPostgresStore(ctx, cfg, logger)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

func newDocumentsStore(cfg *config.Config, logger *logrus.Logger) (*Store, func(), error) {
	httpClient := httpclient.New(
		httpclient.DefaultConfig("documents", cfg.Storage.RequestsPerMinute),
		logger,
	)
	client := docstore.NewClient(
		httpClient,
		cfg.Storage.Documents.Endpoint,
		cfg.Storage.Documents.ProjectID,
		cfg.Storage.Documents.APIKey,
		cfg.Storage.Documents.DatabaseID,
		logger,
	)

	logger.WithField("driver", config.StorageDriverDocuments).Info("Storage driver initialized")

	store := &Store{
		Events:        NewDocumentsEventRepository(client),
		Matches:       NewDocumentsMatchRepository(client),
		Probabilities: NewDocumentsProbabilityRepository(client),
		Teams:         NewDocumentsTeamRepository(client),
	}
	cleanup := func() {
		_ = httpClient.Close()
	}
	return store, cleanup, nil
}

func newPostgresStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, func(), error) {
	db, err := database.NewDB(ctx, &cfg.Storage.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("postgres health check failed: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.WithField("driver", config.StorageDriverPostgres).Info("Storage driver initialized")

	store := &Store{
		Events:        NewPostgresEventRepository(db),
		Matches:       NewPostgresMatchRepository(db),
		Probabilities: NewPostgresProbabilityRepository(db),
		Teams:         NewPostgresTeamRepository(db),
	}
	return store, db.Close, nil
}
