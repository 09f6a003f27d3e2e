package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, applies defaults and validates the
// result.
func Parse(data []byte) (*Config, error) {
	cfg := Config{}
	// Metrics default to on; an explicit "enabled: false" in the file wins.
	cfg.Telemetry.Metrics.Enabled = true

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PORTAGE_SECTION_FIELD (e.g., PORTAGE_EXPORT_STORAGE_PATH).
// Environment variables always take precedence over file-based configuration.
//
// A missing file is not an error: defaults plus environment overrides are
// used instead, so the CLI works without any configuration file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if _, statErr := os.Stat(path); statErr != nil && os.IsNotExist(statErr) {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format PORTAGE_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Export overrides
	if val := os.Getenv("PORTAGE_EXPORT_STORAGE_PATH"); val != "" {
		cfg.Export.StoragePath = val
	}
	if val := os.Getenv("PORTAGE_EXPORT_ATTRIBUTES_FILE"); val != "" {
		cfg.Export.AttributesFile = val
	}
	if val := os.Getenv("PORTAGE_EXPORT_ARCHIVE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Export.Archive = b
		}
	}
	if val := os.Getenv("PORTAGE_EXPORT_ARCHIVE_PATH"); val != "" {
		cfg.Export.ArchivePath = val
	}

	// Repository overrides
	if val := os.Getenv("PORTAGE_REPOSITORY_GIT_BINARY"); val != "" {
		cfg.Repository.GitBinary = val
	}
	if val := os.Getenv("PORTAGE_REPOSITORY_BUNDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Repository.BundleTimeout = d
		}
	}

	// Storage overrides
	if val := os.Getenv("PORTAGE_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("PORTAGE_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}

	// History overrides
	if val := os.Getenv("PORTAGE_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = &b
		}
	}
	if val := os.Getenv("PORTAGE_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}

	// Cleanup overrides
	if val := os.Getenv("PORTAGE_CLEANUP_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cleanup.TTL = d
		}
	}
	if val := os.Getenv("PORTAGE_CLEANUP_SCHEDULE"); val != "" {
		cfg.Cleanup.Schedule = val
	}
	if val := os.Getenv("PORTAGE_CLEANUP_HISTORY_RETENTION"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cleanup.HistoryRetention = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("PORTAGE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PORTAGE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PORTAGE_TELEMETRY_LOGGING_FILE"); val != "" {
		cfg.Telemetry.Logging.File.Path = val
	}
	if val := os.Getenv("PORTAGE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PORTAGE_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("PORTAGE_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}
