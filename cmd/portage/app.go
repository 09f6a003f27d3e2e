package main

import (
	"context"
	"fmt"
	"log/slog"

	"drepo-hq/portage/pkg/cli"
	"drepo-hq/portage/pkg/config"
	"drepo-hq/portage/pkg/importexport/history"
	"drepo-hq/portage/pkg/project"
	"drepo-hq/portage/pkg/telemetry/logging"
	"drepo-hq/portage/pkg/telemetry/metrics"
	"drepo-hq/portage/pkg/telemetry/tracing"
)

// app holds the process-wide collaborators of one command invocation.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer

	projects project.Store
	history  history.Store
}

// newApp loads the configuration and sets up logging, metrics and tracing.
// Stores are opened on first use.
func newApp() (*app, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	cfg := config.GetConfig()

	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.FromConfig(logCfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		logger.Close()
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:  tracer,
	}, nil
}

// projectStore opens the configured project store.
func (a *app) projectStore() (project.Store, error) {
	if a.projects != nil {
		return a.projects, nil
	}

	switch a.cfg.Storage.Backend {
	case "memory":
		a.projects = project.NewMemoryStore()
	case "sqlite":
		store, err := project.NewSQLiteStore(project.SQLiteConfig{
			Path:         a.cfg.Storage.SQLite.Path,
			MaxOpenConns: a.cfg.Storage.SQLite.MaxOpenConns,
			BusyTimeout:  a.cfg.Storage.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open project store: %w", err)
		}
		a.projects = store
	default:
		return nil, cli.NewConfigError("storage.backend", fmt.Sprintf("unsupported backend %q", a.cfg.Storage.Backend))
	}
	return a.projects, nil
}

// historyStore opens the configured history store, or returns nil when
// history is disabled.
func (a *app) historyStore() (history.Store, error) {
	if !a.cfg.History.IsEnabled() {
		return nil, nil
	}
	if a.history != nil {
		return a.history, nil
	}

	switch a.cfg.History.Backend {
	case "memory":
		a.history = history.NewMemoryStore()
	case "sqlite":
		store, err := history.NewSQLiteStore(a.cfg.History.SQLite.Path, a.cfg.History.SQLite.BusyTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		a.history = store
	default:
		return nil, cli.NewConfigError("history.backend", fmt.Sprintf("unsupported backend %q", a.cfg.History.Backend))
	}
	return a.history, nil
}

// Close releases every opened resource.
func (a *app) Close() {
	if a.projects != nil {
		if err := a.projects.Close(); err != nil {
			a.logger.Error("failed to close project store", "error", err)
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Error("failed to close history store", "error", err)
		}
	}
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.Error("failed to shut down tracer", "error", err)
	}
	a.logger.Close()
}
