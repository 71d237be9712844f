// Package main provides the entry point for the dashboard server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/estimator"
	"github.com/yourusername/pitch-prophet/internal/footballdata"
	"github.com/yourusername/pitch-prophet/internal/httpclient"
	"github.com/yourusername/pitch-prophet/internal/logger"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/repository"
	"github.com/yourusername/pitch-prophet/internal/scheduler"
	"github.com/yourusername/pitch-prophet/internal/server"
	"github.com/yourusername/pitch-prophet/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("PITCH_PROPHET_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProduction() && cfg.FootballData.APIKey == "" {
		log.Fatalf("football_data.api_key must be set in production")
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"storage":     cfg.Storage.Driver,
	}).Info("Pitch Prophet dashboard starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	store, closeStore, err := repository.NewStore(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize storage")
	}
	defer closeStore()

	appLog.Info("Storage initialized")

	// Initialize the fixtures API client
	apiCfg := httpclient.DefaultConfig("football-data", cfg.APIRequestsPerMinute())
	apiCfg.Timeout = cfg.APITimeout()
	fixtures := footballdata.NewClient(httpclient.New(apiCfg, appLog), cfg.FootballData.BaseURL, cfg.FootballData.APIKey, appLog)

	// Initialize the probability estimator
	est, closeEstimator, err := estimator.NewFromConfig(cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize estimator")
	}
	defer closeEstimator()

	appLog.WithField("strategy", est.Name()).Info("Estimator initialized")

	// Wire services
	ingestion := service.NewIngestionService(fixtures, store, &cfg.Sync, appLog)
	if cfg.Estimator.EnhancedData {
		ingestion.EnableEnhancedData()
	}
	engine := service.NewProbabilityEngine(store, est, &cfg.Estimator, &cfg.Sync, appLog)
	reader := service.NewReader(store, appLog)
	syncOrch := service.NewSyncOrchestrator(ingestion, engine, store, reader, cfg, appLog)

	chatClient := estimator.NewOpenAIClient(&cfg.OpenAI, appLog)
	defer chatClient.Close()
	chat := service.NewChatService(store, chatClient, appLog)

	// Scheduled crawls
	if cfg.Schedule.Enabled {
		sched := scheduler.NewScheduler(ingestion, cfg, appLog)
		if err := sched.ScheduleFixtureCrawl(cfg.Schedule.FixtureCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule fixture crawl")
		}
		if err := sched.ScheduleHistoricalCrawl(cfg.Schedule.HistoricalCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule historical crawl")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer sched.Stop()

		appLog.WithField("next_run", sched.NextRun()).Info("Scheduler started")
	}

	// Websocket origin checks are relaxed in development so the local
	// frontend dev server can connect.
	var allowOrigin func(*http.Request) bool
	if cfg.IsDevelopment() {
		allowOrigin = func(*http.Request) bool { return true }
	}
	hub := server.NewHub(allowOrigin, appLog)
	srv := server.NewServer(cfg, reader, syncOrch, chat, hub, appLog)

	// Cancel the server context on SIGINT/SIGTERM for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLog.WithField("signal", sig).Info("Shutdown signal received")
		cancel()
	}()

	appLog.WithField("port", cfg.Server.Port).Info("Dashboard server listening")
	if err := srv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Server error")
	}

	appLog.Info("Pitch Prophet dashboard shut down successfully")
}
