package savers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"drepo-hq/portage/pkg/importexport"
)

// VersionSaver writes the format version marker.
type VersionSaver struct {
	shared  *importexport.Shared
	version string
}

// NewVersionSaver creates a VersionSaver writing version.
func NewVersionSaver(shared *importexport.Shared, version string) *VersionSaver {
	return &VersionSaver{shared: shared, version: version}
}

// Name implements Saver.
func (s *VersionSaver) Name() string { return StageVersion }

// Save implements Saver.
func (s *VersionSaver) Save(ctx context.Context) bool {
	if err := ensureExportPath(s.shared); err != nil {
		s.shared.Error(err)
		return false
	}

	path := filepath.Join(s.shared.ExportPath(), importexport.VersionFilename)
	if err := os.WriteFile(path, []byte(s.version), 0o644); err != nil {
		s.shared.Error(fmt.Errorf("failed to write version file: %w", err))
		return false
	}
	return true
}
