// Package config provides configuration management for the Pitch Prophet application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand ${VAR} placeholders before parsing
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("PITCH_PROPHET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields; a missing config file is tolerated so the binary can run from
// environment variables alone.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("PITCH_PROPHET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "pitch-prophet")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("storage.driver", StorageDriverDocuments)
	v.SetDefault("storage.requests_per_minute", 30)
	v.SetDefault("football_data.base_url", "https://api.football-data.org/v4")
	v.SetDefault("football_data.plan", "FREE")
	v.SetDefault("football_data.competitions", []string{"PL", "PD", "BL1"})
	v.SetDefault("football_data.fixture_window_days", 7)
	v.SetDefault("football_data.history_window_days", 30)
	v.SetDefault("football_data.timeout_seconds", 10)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.timeout_seconds", 30)
	v.SetDefault("estimator.strategy", StrategyStatistical)
	v.SetDefault("estimator.min_sample_size", 5)
	v.SetDefault("estimator.team_match_limit", 20)
	v.SetDefault("estimator.head_to_head_limit", 10)
	v.SetDefault("estimator.cache_ttl_seconds", 300)
	v.SetDefault("sync.fixture_batch_size", 3)
	v.SetDefault("sync.batch_delay_ms", 800)
	v.SetDefault("sync.event_delay_seconds", 5)
	v.SetDefault("sync.competition_delay_ms", 6100)
	v.SetDefault("sync.team_history_window_days", 90)
	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.fixture_cron", "0 */6 * * *")
	v.SetDefault("schedule.historical_cron", "30 2 * * *")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 120)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
