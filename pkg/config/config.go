package config

import "time"

// Config is the root configuration structure for Portage.
// It contains all configuration sections for the export engine, the project
// store, repository bundling, history, cleanup, and telemetry settings.
type Config struct {
	// Export contains configuration for export sessions including the
	// storage location, the attribute rule file, and archive settings.
	Export ExportConfig `yaml:"export"`

	// Repository contains configuration for the version-control collaborator
	// used to bundle project and wiki repositories.
	Repository RepositoryConfig `yaml:"repository"`

	// Storage contains configuration for the project store that exports
	// read project metadata and entity graphs from.
	Storage StorageConfig `yaml:"storage"`

	// History contains configuration for recording export attempts.
	History HistoryConfig `yaml:"history"`

	// Cleanup contains configuration for pruning stale export directories.
	Cleanup CleanupConfig `yaml:"cleanup"`

	// Notification contains configuration for export notifications.
	Notification NotificationConfig `yaml:"notification"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ExportConfig contains configuration for export sessions.
type ExportConfig struct {
	// StoragePath is the root directory under which every export session
	// creates its own unique destination directory.
	// Default: "data/exports"
	StoragePath string `yaml:"storage_path"`

	// AttributesFile is the path to the attribute rule file that lists the
	// project tree and the per-entity included/excluded attributes.
	// Default: "import_export.yml"
	AttributesFile string `yaml:"attributes_file"`

	// WatchAttributes reloads the attribute rule file when it changes.
	// Sessions already running keep the rules they started with.
	// Default: false
	WatchAttributes bool `yaml:"watch_attributes"`

	// Archive packs the export directory into a tar.gz after all stages
	// succeed.
	// Default: false
	Archive bool `yaml:"archive"`

	// ArchivePath is the directory receiving archives. Empty means next to
	// the export directory.
	ArchivePath string `yaml:"archive_path"`

	// Version is the export format version written to the VERSION file.
	// Default: "0.2.4"
	Version string `yaml:"version"`
}

// RepositoryConfig contains configuration for repository bundling.
type RepositoryConfig struct {
	// GitBinary is the git executable used for `git bundle create`.
	// Default: "git"
	GitBinary string `yaml:"git_binary"`

	// BundleTimeout bounds a single bundle invocation.
	// Default: 30m
	BundleTimeout time.Duration `yaml:"bundle_timeout"`
}

// StorageConfig contains configuration for the project store.
type StorageConfig struct {
	// Backend selects the project store.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database.
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// HistoryConfig contains configuration for the export history recorder.
type HistoryConfig struct {
	// Enabled controls whether export attempts are recorded.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Backend selects the history store.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// IsEnabled reports whether history recording is enabled, treating an unset
// value as enabled.
func (h HistoryConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// CleanupConfig contains configuration for stale export pruning.
type CleanupConfig struct {
	// TTL is the age after which export directories and archives are removed.
	// Default: 24h
	TTL time.Duration `yaml:"ttl"`

	// Schedule is a cron expression for scheduled pruning.
	// Default: "@hourly"
	Schedule string `yaml:"schedule"`

	// HistoryRetention is the age after which export history entries are
	// removed by the pruner. Zero keeps history forever.
	HistoryRetention time.Duration `yaml:"history_retention"`
}

// NotificationConfig contains configuration for export notifications.
type NotificationConfig struct {
	// Enabled controls whether success and failure notifications are emitted.
	// Default: true
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether notifications are enabled, treating an unset
// value as enabled.
func (n NotificationConfig) IsEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets scrubs tokens, passwords and URL credentials from
	// log arguments.
	// Default: true
	RedactSecrets *bool `yaml:"redact_secrets"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`

	// File, when set, sends logs to a rotating file instead of stdout.
	File LogFileConfig `yaml:"file"`
}

// LogFileConfig contains rotating log file configuration.
type LogFileConfig struct {
	// Path is the log file path. Empty disables file output.
	Path string `yaml:"path"`

	// MaxSizeMB is the size in megabytes before a file is rotated.
	// Default: 10
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to retain.
	// Default: 10
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is the number of days to retain rotated files.
	// Default: 30
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `yaml:"compress"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Address is the listen address for the metrics endpoint served by
	// long-running commands. Empty disables the endpoint.
	Address string `yaml:"address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "portage"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "export"
	Subsystem string `yaml:"subsystem"`

	// StageDurationBuckets defines histogram buckets for stage duration (seconds).
	// Default: [0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300]
	StageDurationBuckets []float64 `yaml:"stage_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the trace collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "portage"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
