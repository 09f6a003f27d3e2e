package savers

import (
	"context"
	"fmt"
	"os"

	"drepo-hq/portage/pkg/importexport"
)

// Stage names, used for logs, metrics and spans.
const (
	StageVersion = "version"
	StageAvatar  = "avatar"
	StageTree    = "project_tree"
	StageUploads = "uploads"
	StageRepo    = "repository"
	StageWiki    = "wiki"
	StageLFS     = "lfs"
	StageArchive = "archive"
)

// Saver is one export stage.
type Saver interface {
	// Name identifies the stage.
	Name() string

	// Save writes the stage's artifacts. When it returns false a diagnostic
	// has been recorded in the session's Shared state.
	Save(ctx context.Context) bool
}

// RepositoryBundler is the version-control collaborator of the repository
// stages.
type RepositoryBundler interface {
	HasCommits(ctx context.Context, repoPath string) (bool, error)
	Bundle(ctx context.Context, repoPath, dest string) error
}

func ensureExportPath(shared *importexport.Shared) error {
	if err := os.MkdirAll(shared.ExportPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}

// recoverInto turns a panic raised by a collaborator into a recorded stage
// failure. It must be deferred with a pointer to the stage's result.
func recoverInto(shared *importexport.Shared, ok *bool) {
	if r := recover(); r != nil {
		shared.Error(fmt.Errorf("%v", r))
		*ok = false
	}
}
