package savers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/otiai10/copy"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/project"
)

// AvatarSaver copies the project avatar, if there is one.
type AvatarSaver struct {
	project *project.Project
	shared  *importexport.Shared
}

// NewAvatarSaver creates an AvatarSaver.
func NewAvatarSaver(p *project.Project, shared *importexport.Shared) *AvatarSaver {
	return &AvatarSaver{project: p, shared: shared}
}

// Name implements Saver.
func (s *AvatarSaver) Name() string { return StageAvatar }

// Save implements Saver.
func (s *AvatarSaver) Save(ctx context.Context) bool {
	if !s.project.HasAvatar() {
		return true
	}

	dest := filepath.Join(s.shared.ExportPath(), importexport.AvatarDirname, filepath.Base(s.project.AvatarPath))
	if err := copy.Copy(s.project.AvatarPath, dest); err != nil {
		s.shared.Error(fmt.Errorf("failed to copy avatar: %w", err))
		return false
	}
	return true
}
