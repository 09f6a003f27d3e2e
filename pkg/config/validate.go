package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "export.storage_path").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateRepository(&cfg.Repository)...)
	errs = append(errs, validateBackend("storage", cfg.Storage.Backend, &cfg.Storage.SQLite)...)
	if cfg.History.IsEnabled() {
		errs = append(errs, validateBackend("history", cfg.History.Backend, &cfg.History.SQLite)...)
	}
	errs = append(errs, validateCleanup(&cfg.Cleanup)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	if cfg.StoragePath == "" {
		errs = append(errs, FieldError{
			Field:   "export.storage_path",
			Message: "storage path is required",
		})
	}
	if cfg.AttributesFile == "" {
		errs = append(errs, FieldError{
			Field:   "export.attributes_file",
			Message: "attributes file is required",
		})
	}
	if cfg.Version == "" {
		errs = append(errs, FieldError{
			Field:   "export.version",
			Message: "export format version is required",
		})
	}

	return errs
}

func validateRepository(cfg *RepositoryConfig) []FieldError {
	var errs []FieldError

	if cfg.GitBinary == "" {
		errs = append(errs, FieldError{
			Field:   "repository.git_binary",
			Message: "git binary is required",
		})
	}
	if cfg.BundleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "repository.bundle_timeout",
			Message: "bundle timeout cannot be negative",
		})
	}

	return errs
}

func validateBackend(section, backend string, sqlite *SQLiteConfig) []FieldError {
	var errs []FieldError

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[backend] {
		errs = append(errs, FieldError{
			Field:   section + ".backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory' or 'sqlite'", backend),
		})
	}

	if backend == "sqlite" {
		if sqlite.Path == "" {
			errs = append(errs, FieldError{
				Field:   section + ".sqlite.path",
				Message: "SQLite path is required when backend is 'sqlite'",
			})
		}
		if sqlite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   section + ".sqlite.max_open_conns",
				Message: "must be at least 1",
			})
		}
	}

	return errs
}

func validateCleanup(cfg *CleanupConfig) []FieldError {
	var errs []FieldError

	if cfg.TTL <= 0 {
		errs = append(errs, FieldError{
			Field:   "cleanup.ttl",
			Message: "ttl must be positive",
		})
	}
	if cfg.HistoryRetention < 0 {
		errs = append(errs, FieldError{
			Field:   "cleanup.history_retention",
			Message: "history_retention cannot be negative",
		})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "cleanup.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path is required when metrics are enabled",
		})
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "tracing endpoint is required when tracing is enabled",
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: "sample ratio must be between 0.0 and 1.0",
			})
		}
	}

	return errs
}
