package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/project"
)

// AfterExportStrategy is an action run once every export stage has
// succeeded. Returning false requires a diagnostic to have been recorded
// in shared.
type AfterExportStrategy interface {
	Name() string
	Execute(ctx context.Context, actor string, p *project.Project, shared *importexport.Shared) bool
}

// location returns the archive when one was written, else the export
// directory.
func location(shared *importexport.Shared) string {
	if archive := shared.ArchivePath(); archive != "" {
		return archive
	}
	return shared.ExportLocation()
}

// DownloadNotificationStrategy tells the actor that the export is ready to
// be downloaded.
type DownloadNotificationStrategy struct {
	notifier Notifier
}

// NewDownloadNotificationStrategy creates a strategy notifying through n.
func NewDownloadNotificationStrategy(n Notifier) *DownloadNotificationStrategy {
	return &DownloadNotificationStrategy{notifier: n}
}

// Name implements AfterExportStrategy.
func (s *DownloadNotificationStrategy) Name() string { return "download_notification" }

// Execute implements AfterExportStrategy.
func (s *DownloadNotificationStrategy) Execute(ctx context.Context, actor string, p *project.Project, shared *importexport.Shared) bool {
	if err := s.notifier.ProjectExported(ctx, actor, p, location(shared)); err != nil {
		shared.Error(fmt.Errorf("failed to send download notification: %w", err))
		return false
	}
	return true
}

// removeAll is os.RemoveAll; tests replace it to simulate a failing
// removal.
var removeAll = os.RemoveAll

// MoveStrategy relocates the finished export (its archive when there is
// one, else the export directory) into a target directory.
type MoveStrategy struct {
	target string
}

// NewMoveStrategy creates a strategy moving exports into target.
func NewMoveStrategy(target string) *MoveStrategy {
	return &MoveStrategy{target: target}
}

// Name implements AfterExportStrategy.
func (s *MoveStrategy) Name() string { return "move" }

// Execute implements AfterExportStrategy. The source is removed only after
// the copy completed; on failure the copy is removed again so nothing is
// left in the target.
func (s *MoveStrategy) Execute(ctx context.Context, actor string, p *project.Project, shared *importexport.Shared) bool {
	src := location(shared)
	dest := filepath.Join(s.target, filepath.Base(src))

	if err := os.MkdirAll(s.target, 0o755); err != nil {
		shared.Error(fmt.Errorf("failed to create move target: %w", err))
		return false
	}

	if err := copy.Copy(src, dest); err != nil {
		_ = os.RemoveAll(dest)
		shared.Error(fmt.Errorf("failed to move export to %s: %w", s.target, err))
		return false
	}
	if err := removeAll(src); err != nil {
		_ = os.RemoveAll(dest)
		shared.Error(fmt.Errorf("failed to remove moved export: %w", err))
		return false
	}

	if shared.ArchivePath() == src {
		shared.SetArchivePath(dest)
	} else {
		shared.SetExportLocation(dest)
	}
	return true
}
