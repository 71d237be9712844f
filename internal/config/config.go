// Package config provides configuration management for the Pitch Prophet application.
package config

import (
	"time"
)

// Storage drivers
const (
	StorageDriverDocuments = "documents"
	StorageDriverPostgres  = "postgres"
)

// Estimator strategies
const (
	StrategyStatistical = "statistical"
	StrategyOpenAI      = "openai"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Storage      StorageConfig      `mapstructure:"storage" validate:"required"`
	FootballData FootballDataConfig `mapstructure:"football_data" validate:"required"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Estimator    EstimatorConfig    `mapstructure:"estimator" validate:"required"`
	Sync         SyncConfig         `mapstructure:"sync" validate:"required"`
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Schedule     ScheduleConfig     `mapstructure:"schedule"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StorageConfig selects and configures the persistence driver
type StorageConfig struct {
	Driver            string          `mapstructure:"driver" validate:"required,storagedriver"`
	RequestsPerMinute int             `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	Documents         DocumentsConfig `mapstructure:"documents"`
	Postgres          PostgresConfig  `mapstructure:"postgres"`
}

// DocumentsConfig configures the hosted document store backend
type DocumentsConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	ProjectID  string `mapstructure:"project_id"`
	APIKey     string `mapstructure:"api_key"`
	DatabaseID string `mapstructure:"database_id"`
}

// PostgresConfig configures the self-hosted Postgres backend
type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// FootballDataConfig represents the external fixtures/results API configuration
type FootballDataConfig struct {
	BaseURL        string   `mapstructure:"base_url" validate:"required,url"`
	APIKey         string   `mapstructure:"api_key"`
	Plan           string   `mapstructure:"plan" validate:"required,apiplan"`
	Competitions   []string `mapstructure:"competitions" validate:"required,min=1"`
	FixtureWindow  int      `mapstructure:"fixture_window_days" validate:"required,gt=0"`
	HistoryWindow  int      `mapstructure:"history_window_days" validate:"required,gt=0"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// OpenAIConfig represents the language-model provider configuration
type OpenAIConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// EstimatorConfig selects the probability estimation strategy
type EstimatorConfig struct {
	Strategy        string `mapstructure:"strategy" validate:"required,strategy"`
	MinSampleSize   int    `mapstructure:"min_sample_size" validate:"required,gt=0"`
	TeamMatchLimit  int    `mapstructure:"team_match_limit" validate:"required,gt=0"`
	HeadToHeadLimit int    `mapstructure:"head_to_head_limit" validate:"required,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	EnhancedData    bool   `mapstructure:"enhanced_data"`
}

// SyncConfig controls orchestration pacing
type SyncConfig struct {
	FixtureBatchSize      int `mapstructure:"fixture_batch_size" validate:"required,gt=0"`
	BatchDelayMs          int `mapstructure:"batch_delay_ms" validate:"gte=0"`
	EventDelaySeconds     int `mapstructure:"event_delay_seconds" validate:"gte=0"`
	CompetitionDelayMs    int `mapstructure:"competition_delay_ms" validate:"gte=0"`
	TeamHistoryWindowDays int `mapstructure:"team_history_window_days" validate:"required,gt=0"`
}

// ServerConfig represents the dashboard HTTP server configuration
type ServerConfig struct {
	Port            int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int `mapstructure:"read_timeout_seconds" validate:"gt=0"`
	WriteTimeoutSec int `mapstructure:"write_timeout_seconds" validate:"gt=0"`
}

// ScheduleConfig represents scheduled crawl configuration
type ScheduleConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	FixtureCron    string `mapstructure:"fixture_cron"`
	HistoricalCron string `mapstructure:"historical_cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// APITimeout returns the per-request timeout for the football-data client
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.FootballData.TimeoutSeconds) * time.Second
}

// APIRequestsPerMinute maps the configured API plan to its request budget.
// The plan is an explicit configuration choice; it is never probed from the
// upstream at call time.
func (c *Config) APIRequestsPerMinute() int {
	return planRequestsPerMinute(c.FootballData.Plan)
}

// API plan names accepted by football_data.plan
var apiPlans = map[string]int{
	"FREE":          10,
	"ML_PACK_LIGHT": 20,
	"DEEP_DATA":     30,
	"STANDARD":      60,
	"ADVANCED":      100,
	"PRO":           120,
}

func planRequestsPerMinute(plan string) int {
	if rpm, ok := apiPlans[plan]; ok {
		return rpm
	}
	return apiPlans["FREE"]
}
