package config

import (
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Export.StoragePath != DefaultExportStoragePath {
		t.Errorf("StoragePath = %q", cfg.Export.StoragePath)
	}
	if cfg.Export.AttributesFile != DefaultExportAttributesFile {
		t.Errorf("AttributesFile = %q", cfg.Export.AttributesFile)
	}
	if cfg.Repository.GitBinary != DefaultGitBinary || cfg.Repository.BundleTimeout != DefaultBundleTimeout {
		t.Errorf("Repository = %+v", cfg.Repository)
	}
	if cfg.Storage.SQLite.MaxOpenConns != DefaultSQLiteMaxOpenConns {
		t.Errorf("Storage.SQLite.MaxOpenConns = %d", cfg.Storage.SQLite.MaxOpenConns)
	}
	if cfg.History.SQLite.Path != DefaultHistorySQLitePath {
		t.Errorf("History.SQLite.Path = %q", cfg.History.SQLite.Path)
	}
	if cfg.Cleanup.TTL != DefaultCleanupTTL || cfg.Cleanup.Schedule != DefaultCleanupSchedule {
		t.Errorf("Cleanup = %+v", cfg.Cleanup)
	}
	if cfg.Cleanup.HistoryRetention != 0 {
		t.Errorf("HistoryRetention = %v, want 0 (keep forever)", cfg.Cleanup.HistoryRetention)
	}
	if cfg.Telemetry.Logging.RedactSecrets == nil || !*cfg.Telemetry.Logging.RedactSecrets {
		t.Error("secret redaction should default to on")
	}
	if len(cfg.Telemetry.Metrics.StageDurationBuckets) == 0 {
		t.Error("stage duration buckets not defaulted")
	}
	if !cfg.History.IsEnabled() || !cfg.Notification.IsEnabled() {
		t.Error("history and notifications should default to enabled")
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	redact := false
	cfg := &Config{}
	cfg.Export.StoragePath = "/srv/exports"
	cfg.Cleanup.Schedule = "0 3 * * *"
	cfg.Telemetry.Logging.RedactSecrets = &redact

	ApplyDefaults(cfg)

	if cfg.Export.StoragePath != "/srv/exports" {
		t.Errorf("StoragePath overwritten: %q", cfg.Export.StoragePath)
	}
	if cfg.Cleanup.Schedule != "0 3 * * *" {
		t.Errorf("Schedule overwritten: %q", cfg.Cleanup.Schedule)
	}
	if *cfg.Telemetry.Logging.RedactSecrets {
		t.Error("explicit redact_secrets=false overwritten")
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if cfg.Export != first.Export || cfg.Cleanup != first.Cleanup || cfg.Repository != first.Repository {
		t.Error("ApplyDefaults is not idempotent")
	}
}
