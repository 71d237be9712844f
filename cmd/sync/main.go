// Package main provides the sync CLI for running crawls outside the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/estimator"
	"github.com/yourusername/pitch-prophet/internal/footballdata"
	"github.com/yourusername/pitch-prophet/internal/httpclient"
	"github.com/yourusername/pitch-prophet/internal/logger"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/repository"
	"github.com/yourusername/pitch-prophet/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	eventCount int

	appLog         *logrus.Logger
	cfg            *config.Config
	fixtures       *footballdata.Client
	store          *repository.Store
	orchestrator   *service.SyncOrchestrator
	closeStore     func()
	closeEstimator func()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	leagueCmd.Flags().IntVarP(&eventCount, "count", "n", 5, "Number of upcoming events to process")

	rootCmd.AddCommand(leagueCmd)
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run fixture and history crawls",
	Long:  `Crawls fixtures and historical results, then recomputes outcome probabilities for upcoming events.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := setup(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

var leagueCmd = &cobra.Command{
	Use:   "league [name]",
	Short: "Sync one league end to end",
	Long:  `Crawls fixtures for the league, loads matchup history for each upcoming event, and recomputes probabilities.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orchestrator.SyncLeague(cmd.Context(), args[0], eventCount, func(p service.Progress) {
			if p.Total > 0 {
				fmt.Printf("[%s] %s (%d/%d)\n", p.Stage, p.Message, p.Completed, p.Total)
			} else {
				fmt.Printf("[%s] %s\n", p.Stage, p.Message)
			}
		})
		if err != nil {
			return err
		}
		fmt.Printf("\nProcessed: %d events\n", result.Processed)
		for _, e := range result.Errors {
			fmt.Printf("  warning: %s\n", e)
		}
		if !result.Success {
			return fmt.Errorf("sync finished without processing any events")
		}
		return nil
	},
}

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Crawl fixtures and history for every configured competition",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		if err := orchestrator.FullSync(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Full sync completed in %s\n", time.Since(start).Round(time.Second))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all derived probabilities",
	Long:  `Removes every stored probability row. The next sync recomputes them from match history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Probabilities.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear probabilities: %w", err)
		}
		fmt.Println("Probabilities cleared")
		return nil
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check connectivity to the fixtures API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		if err := fixtures.TestConnection(ctx); err != nil {
			return fmt.Errorf("fixtures API unreachable: %w", err)
		}
		fmt.Println("Fixtures API: OK")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sync %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(cfg, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	var cleanup func()
	store, cleanup, err = repository.NewStore(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	closeStore = cleanup

	apiCfg := httpclient.DefaultConfig("football-data", cfg.APIRequestsPerMinute())
	apiCfg.Timeout = cfg.APITimeout()
	fixtures = footballdata.NewClient(httpclient.New(apiCfg, appLog), cfg.FootballData.BaseURL, cfg.FootballData.APIKey, appLog)

	est, estCleanup, err := estimator.NewFromConfig(cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize estimator: %w", err)
	}
	closeEstimator = estCleanup

	ingestion := service.NewIngestionService(fixtures, store, &cfg.Sync, appLog)
	if cfg.Estimator.EnhancedData {
		ingestion.EnableEnhancedData()
	}
	engine := service.NewProbabilityEngine(store, est, &cfg.Estimator, &cfg.Sync, appLog)
	reader := service.NewReader(store, appLog)
	orchestrator = service.NewSyncOrchestrator(ingestion, engine, store, reader, cfg, appLog)

	return nil
}

func teardown() {
	if closeEstimator != nil {
		closeEstimator()
	}
	if closeStore != nil {
		closeStore()
	}
}
