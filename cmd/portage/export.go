package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"drepo-hq/portage/pkg/cli"
	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/importexport/attributes"
	"drepo-hq/portage/pkg/importexport/export"
	"drepo-hq/portage/pkg/importexport/history"
	"drepo-hq/portage/pkg/project"
	"drepo-hq/portage/pkg/vcs"
)

var exportFlags struct {
	manifest   string
	project    string
	all        bool
	archive    bool
	archiveDir string
	moveTo     string
	notify     bool
	actor      string
	progress   bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export projects",
	Long: `Export one or more projects into the storage path.

Stages run in a fixed order and stop at the first failure. A failed export
leaves nothing behind and exits non-zero with the collected errors.

Examples:
  # Export a registered project by full path or ID
  portage export --project group/demo
  portage export --project 42 --archive

  # Export from a manifest file
  portage export --manifest project.yaml

  # Export every registered project and move the archives
  portage export --all --archive --move-to /srv/outbox`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlags.manifest, "manifest", "m", "", "project manifest file")
	exportCmd.Flags().StringVarP(&exportFlags.project, "project", "p", "", "registered project full path or ID")
	exportCmd.Flags().BoolVar(&exportFlags.all, "all", false, "export every registered project")
	exportCmd.Flags().BoolVar(&exportFlags.archive, "archive", false, "pack the export into a tar.gz (default from config)")
	exportCmd.Flags().StringVar(&exportFlags.archiveDir, "archive-dir", "", "archive directory (default from config)")
	exportCmd.Flags().StringVar(&exportFlags.moveTo, "move-to", "", "move the finished export into this directory")
	exportCmd.Flags().BoolVar(&exportFlags.notify, "notify", false, "send a download notification when done")
	exportCmd.Flags().StringVar(&exportFlags.actor, "actor", "", "who requested the export (default: $USER)")
	exportCmd.Flags().BoolVar(&exportFlags.progress, "progress", false, "show stage progress on stderr")
	exportCmd.MarkFlagsMutuallyExclusive("manifest", "project", "all")
	exportCmd.MarkFlagsMutuallyExclusive("move-to", "notify")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	projects, err := selectProjects(ctx, a)
	if err != nil {
		return err
	}

	rules, err := ruleSource(ctx, a)
	if err != nil {
		return err
	}

	var failed int
	for _, p := range projects {
		if err := exportProject(ctx, a, rules(), p); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", p.FullPath(), err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s exported\n", p.FullPath())
	}

	if failed > 0 {
		return cli.NewExitError(1, "%d of %d exports failed", failed, len(projects))
	}
	return nil
}

// selectProjects resolves the projects named by the flags.
func selectProjects(ctx context.Context, a *app) ([]*project.Project, error) {
	if exportFlags.manifest != "" {
		p, err := project.LoadManifest(exportFlags.manifest)
		if err != nil {
			return nil, err
		}
		return []*project.Project{p}, nil
	}

	store, err := a.projectStore()
	if err != nil {
		return nil, err
	}

	switch {
	case exportFlags.all:
		projects, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(projects) == 0 {
			return nil, errors.New("no registered projects")
		}
		return projects, nil
	case exportFlags.project != "":
		p, err := findProject(ctx, store, exportFlags.project)
		if err != nil {
			return nil, err
		}
		return []*project.Project{p}, nil
	default:
		return nil, errors.New("one of --manifest, --project or --all is required")
	}
}

// findProject looks a project up by numeric ID or full path.
func findProject(ctx context.Context, store project.Store, ref string) (*project.Project, error) {
	var (
		p   *project.Project
		err error
	)
	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		p, err = store.Get(ctx, id)
	} else {
		p, err = store.GetByFullPath(ctx, ref)
	}
	if errors.Is(err, project.ErrNotFound) {
		return nil, fmt.Errorf("project %q not found", ref)
	}
	return p, err
}

// ruleSource returns a function yielding the attribute rules for the next
// export. With watch_attributes on, edits to the rules file apply to exports
// started after the edit.
func ruleSource(ctx context.Context, a *app) (func() *attributes.Reader, error) {
	path := a.cfg.Export.AttributesFile

	if !a.cfg.Export.WatchAttributes {
		f, err := attributes.LoadFile(path)
		if err != nil {
			return nil, cli.NewConfigError("export.attributes_file", err.Error())
		}
		reader := attributes.NewReader(f)
		return func() *attributes.Reader { return reader }, nil
	}

	watcher, err := attributes.NewWatcher(path, a.logger.Slog())
	if err != nil {
		return nil, cli.NewConfigError("export.attributes_file", err.Error())
	}

	go func() {
		if err := watcher.Watch(ctx); err != nil {
			a.logger.Error("attribute rules watcher stopped", "error", err)
		}
	}()
	return watcher.Current, nil
}

// exportProject runs one export session.
func exportProject(ctx context.Context, a *app, rules *attributes.Reader, p *project.Project) error {
	cfg := a.cfg

	opts := []export.Option{
		export.WithActor(actor()),
		export.WithVersion(cfg.Export.Version),
		export.WithBundler(vcs.NewBundler(
			vcs.WithGitBinary(cfg.Repository.GitBinary),
			vcs.WithTimeout(cfg.Repository.BundleTimeout),
		)),
		export.WithMetrics(a.metrics),
		export.WithTracer(a.tracer),
		export.WithLogger(a.logger.Slog().With("component", "importexport.export")),
	}

	notifier := export.Notifier(export.NopNotifier{})
	if cfg.Notification.IsEnabled() {
		notifier = export.NewLogNotifier()
	}
	opts = append(opts, export.WithNotifier(notifier))

	historyStore, err := a.historyStore()
	if err != nil {
		return err
	}
	if historyStore != nil {
		opts = append(opts, export.WithHistory(history.NewRecorder(historyStore)))
	}

	var progress cli.ProgressReporter
	if exportFlags.progress {
		progress = cli.NewProgressReporter(os.Stderr)
		started := false
		opts = append(opts, export.WithProgress(func(stage string, completed, total int) {
			if !started {
				progress.Start(total)
				started = true
			}
			progress.Update(completed, stage)
		}))
	}

	var strategy export.AfterExportStrategy
	switch {
	case exportFlags.moveTo != "":
		strategy = export.NewMoveStrategy(exportFlags.moveTo)
	case exportFlags.notify:
		strategy = export.NewDownloadNotificationStrategy(notifier)
	}

	shared := importexport.NewShared(cfg.Export.StoragePath, p.FullPath())
	svc := export.NewService(p, shared, rules, opts...)

	err = svc.Execute(ctx, strategy, export.Options{
		Archive:    exportFlags.archive || cfg.Export.Archive,
		ArchiveDir: firstNonEmpty(exportFlags.archiveDir, cfg.Export.ArchivePath),
	})
	if progress != nil {
		if err != nil {
			progress.Error(err)
		} else {
			progress.Finish()
		}
	}
	return err
}

func actor() string {
	if exportFlags.actor != "" {
		return exportFlags.actor
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "portage"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
