package config

import "time"

// Default values for configuration fields.
const (
	// Export defaults
	DefaultExportStoragePath    = "data/exports"
	DefaultExportAttributesFile = "import_export.yml"
	DefaultExportVersion        = "0.2.4"

	// Repository defaults
	DefaultGitBinary     = "git"
	DefaultBundleTimeout = 30 * time.Minute

	// Storage defaults
	DefaultStorageBackend     = "sqlite"
	DefaultStorageSQLitePath  = "data/projects.db"
	DefaultHistoryBackend     = "sqlite"
	DefaultHistorySQLitePath  = "data/export_history.db"
	DefaultSQLiteMaxOpenConns = 4
	DefaultSQLiteBusyTimeout  = 5 * time.Second

	// Cleanup defaults
	DefaultCleanupTTL      = 24 * time.Hour
	DefaultCleanupSchedule = "@hourly"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultLogFileMaxSizeMB   = 10
	DefaultLogFileMaxBackups  = 10
	DefaultLogFileMaxAgeDays  = 30
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "portage"
	DefaultMetricsSubsystem   = "export"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "otlp"
	DefaultTracingServiceName = "portage"
	DefaultOTLPTimeout        = 10 * time.Second
)

// DefaultStageDurationBuckets are histogram buckets (seconds) covering small
// metadata files through multi-minute repository bundles.
var DefaultStageDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Export defaults
	if cfg.Export.StoragePath == "" {
		cfg.Export.StoragePath = DefaultExportStoragePath
	}
	if cfg.Export.AttributesFile == "" {
		cfg.Export.AttributesFile = DefaultExportAttributesFile
	}
	if cfg.Export.Version == "" {
		cfg.Export.Version = DefaultExportVersion
	}

	// Repository defaults
	if cfg.Repository.GitBinary == "" {
		cfg.Repository.GitBinary = DefaultGitBinary
	}
	if cfg.Repository.BundleTimeout == 0 {
		cfg.Repository.BundleTimeout = DefaultBundleTimeout
	}

	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultStorageSQLitePath
	}
	applySQLiteDefaults(&cfg.Storage.SQLite)

	// History defaults
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultHistorySQLitePath
	}
	applySQLiteDefaults(&cfg.History.SQLite)

	// Cleanup defaults
	if cfg.Cleanup.TTL == 0 {
		cfg.Cleanup.TTL = DefaultCleanupTTL
	}
	if cfg.Cleanup.Schedule == "" {
		cfg.Cleanup.Schedule = DefaultCleanupSchedule
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Logging.RedactSecrets == nil {
		redact := true
		cfg.Telemetry.Logging.RedactSecrets = &redact
	}
	if cfg.Telemetry.Logging.File.MaxSizeMB == 0 {
		cfg.Telemetry.Logging.File.MaxSizeMB = DefaultLogFileMaxSizeMB
	}
	if cfg.Telemetry.Logging.File.MaxBackups == 0 {
		cfg.Telemetry.Logging.File.MaxBackups = DefaultLogFileMaxBackups
	}
	if cfg.Telemetry.Logging.File.MaxAgeDays == 0 {
		cfg.Telemetry.Logging.File.MaxAgeDays = DefaultLogFileMaxAgeDays
	}

	// Metrics defaults
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.StageDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.StageDurationBuckets = append([]float64(nil), DefaultStageDurationBuckets...)
	}

	// Tracing defaults
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}

func applySQLiteDefaults(cfg *SQLiteConfig) {
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultSQLiteBusyTimeout
	}
}

// Default returns a configuration with every default applied. Metrics are
// enabled; everything optional stays off.
func Default() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}
