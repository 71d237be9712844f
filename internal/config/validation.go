// Package config provides configuration management for the Pitch Prophet application.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("storagedriver", validateStorageDriver)
	_ = v.RegisterValidation("apiplan", validateAPIPlan)
	_ = v.RegisterValidation("strategy", validateStrategy)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("configuration validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return cv.validateCrossFields(cfg)
}

// validateCrossFields enforces rules that span multiple sections
func (cv *CustomValidator) validateCrossFields(cfg *Config) error {
	switch cfg.Storage.Driver {
	case StorageDriverDocuments:
		if cfg.Storage.Documents.Endpoint == "" {
			return fmt.Errorf("storage.documents.endpoint is required for the documents driver")
		}
		if cfg.Storage.Documents.DatabaseID == "" {
			return fmt.Errorf("storage.documents.database_id is required for the documents driver")
		}
	case StorageDriverPostgres:
		if cfg.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host is required for the postgres driver")
		}
		if cfg.Storage.Postgres.Port <= 0 || cfg.Storage.Postgres.Port > 65535 {
			return fmt.Errorf("storage.postgres.port must be a valid port")
		}
	}

	if cfg.Estimator.Strategy == StrategyOpenAI && cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required when estimator.strategy is %q", StrategyOpenAI)
	}

	return nil
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	}
	return false
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		return true
	}
	return false
}

func validateStorageDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case StorageDriverDocuments, StorageDriverPostgres:
		return true
	}
	return false
}

func validateAPIPlan(fl validator.FieldLevel) bool {
	_, ok := apiPlans[fl.Field().String()]
	return ok
}

func validateStrategy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case StrategyStatistical, StrategyOpenAI:
		return true
	}
	return false
}
