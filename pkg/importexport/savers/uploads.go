package savers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/project"
)

// uploadsTmpDir holds in-flight uploads that never became attachments.
const uploadsTmpDir = "tmp"

// UploadsSaver copies the project's attachment directory.
type UploadsSaver struct {
	project *project.Project
	shared  *importexport.Shared
}

// NewUploadsSaver creates an UploadsSaver.
func NewUploadsSaver(p *project.Project, shared *importexport.Shared) *UploadsSaver {
	return &UploadsSaver{project: p, shared: shared}
}

// Name implements Saver.
func (s *UploadsSaver) Name() string { return StageUploads }

// Save implements Saver. A project without an uploads directory exports an
// empty one.
func (s *UploadsSaver) Save(ctx context.Context) bool {
	dest := filepath.Join(s.shared.ExportPath(), importexport.UploadsDirname)

	src := s.project.UploadsPath
	if src != "" {
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			src = ""
		}
	}

	if src == "" {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			s.shared.Error(fmt.Errorf("failed to create uploads directory: %w", err))
			return false
		}
		return true
	}

	root := filepath.Clean(src)
	opts := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction { return copy.Skip },
		Skip: func(info os.FileInfo, path, _ string) (bool, error) {
			return info.IsDir() && filepath.Dir(filepath.Clean(path)) == root && info.Name() == uploadsTmpDir, nil
		},
	}
	if err := copy.Copy(src, dest, opts); err != nil {
		s.shared.Error(fmt.Errorf("failed to copy uploads: %w", err))
		return false
	}
	return true
}
