package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"drepo-hq/portage/pkg/cli"
	"drepo-hq/portage/pkg/importexport/cleanup"
	"drepo-hq/portage/pkg/telemetry/health"
)

var cleanupFlags struct {
	ttl      time.Duration
	schedule bool
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stale exports",
	Long: `Remove export sessions and archives older than cleanup.ttl, and export
history older than cleanup.history_retention.

Without --schedule a single pass runs. With --schedule the command keeps
running, pruning on cleanup.schedule. When telemetry.metrics.address is set
it serves /healthz, /readyz and /version there, plus Prometheus metrics on
telemetry.metrics.path when metrics are enabled.

Examples:
  portage cleanup
  portage cleanup --ttl 6h
  portage cleanup --schedule`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().DurationVar(&cleanupFlags.ttl, "ttl", 0, "override cleanup.ttl")
	cleanupCmd.Flags().BoolVar(&cleanupFlags.schedule, "schedule", false, "keep running and prune on cleanup.schedule")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	pruneCfg := &cleanup.Config{
		StoragePath:      cfg.Export.StoragePath,
		ArchiveDir:       cfg.Export.ArchivePath,
		TTL:              cfg.Cleanup.TTL,
		HistoryRetention: cfg.Cleanup.HistoryRetention,
		Schedule:         cfg.Cleanup.Schedule,
	}
	if cleanupFlags.ttl > 0 {
		pruneCfg.TTL = cleanupFlags.ttl
	}

	opts := []cleanup.Option{cleanup.WithMetrics(a.metrics)}
	historyStore, err := a.historyStore()
	if err != nil {
		return err
	}
	if historyStore != nil {
		opts = append(opts, cleanup.WithHistory(historyStore))
	}
	pruner := cleanup.NewPruner(pruneCfg, opts...)

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	if !cleanupFlags.schedule {
		result, err := pruner.Prune(ctx)
		if err != nil {
			return cli.NewCommandError("cleanup", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sessions, %d archives, %d history entries\n",
			result.Sessions, result.Archives, result.History)
		return nil
	}

	if pruneCfg.Schedule == "" {
		return cli.NewConfigError("cleanup.schedule", "a schedule is required with --schedule")
	}

	scheduler := cleanup.NewScheduler(pruner)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("cleanup", err)
	}
	defer scheduler.Stop()

	if next := scheduler.NextRun(); next != nil {
		a.logger.Info("cleanup scheduled", "next_run", next.Format(time.RFC3339))
	}

	if addr := cfg.Telemetry.Metrics.Address; addr != "" {
		return serveTelemetry(ctx, a, addr, scheduler)
	}

	<-ctx.Done()
	return nil
}

// serveTelemetry serves probes and metrics until ctx is done.
func serveTelemetry(ctx context.Context, a *app, addr string, scheduler *cleanup.Scheduler) error {
	mux := http.NewServeMux()
	health.Register(mux, cleanupChecker(a, scheduler), health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})
	if a.cfg.Telemetry.Metrics.Enabled {
		mux.Handle(a.cfg.Telemetry.Metrics.Path, a.metrics.Handler())
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving telemetry", "address", addr, "metrics_path", a.cfg.Telemetry.Metrics.Path)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("telemetry server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// cleanupChecker reports the daemon ready while the scheduler runs, the
// storage path exists and the last scheduled prune succeeded.
func cleanupChecker(a *app, scheduler *cleanup.Scheduler) *health.Checker {
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("storage_path", health.DirectoryCheck(a.cfg.Export.StoragePath))
	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
		if !scheduler.IsRunning() {
			return errors.New("scheduler stopped")
		}
		return nil
	})
	checker.RegisterCheck("last_prune", func(ctx context.Context) error {
		return scheduler.LastError()
	})
	return checker
}
