package export

import (
	"context"
	"log/slog"
	"strings"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/project"
)

// Notifier delivers the out-of-band outcome of an export to whoever asked
// for it.
type Notifier interface {
	// ProjectExported reports that the export of p is available at location.
	ProjectExported(ctx context.Context, actor string, p *project.Project, location string) error

	// ProjectNotExported reports that the export of p failed with errs.
	ProjectNotExported(ctx context.Context, actor string, p *project.Project, errs []string) error
}

// LogNotifier reports export outcomes to the log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		logger: slog.Default().With("component", "importexport.notifier"),
	}
}

// ProjectExported implements Notifier.
func (n *LogNotifier) ProjectExported(ctx context.Context, actor string, p *project.Project, location string) error {
	n.logger.InfoContext(ctx, "project export ready",
		"actor", actor,
		"project_id", p.ID,
		"project_path", p.FullPath(),
		"location", location,
	)
	return nil
}

// ProjectNotExported implements Notifier.
func (n *LogNotifier) ProjectNotExported(ctx context.Context, actor string, p *project.Project, errs []string) error {
	n.logger.WarnContext(ctx, "project export failed",
		"actor", actor,
		"project_id", p.ID,
		"project_path", p.FullPath(),
		"errors", strings.Join(errs, importexport.ErrorSeparator),
	)
	return nil
}

// NopNotifier discards every notification.
type NopNotifier struct{}

// ProjectExported implements Notifier.
func (NopNotifier) ProjectExported(context.Context, string, *project.Project, string) error {
	return nil
}

// ProjectNotExported implements Notifier.
func (NopNotifier) ProjectNotExported(context.Context, string, *project.Project, []string) error {
	return nil
}
