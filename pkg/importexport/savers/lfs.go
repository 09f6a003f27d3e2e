package savers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/otiai10/copy"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/project"
)

// LfsSaver copies every large-file object of the project, named by its OID.
type LfsSaver struct {
	project *project.Project
	shared  *importexport.Shared
}

// NewLfsSaver creates an LfsSaver.
func NewLfsSaver(p *project.Project, shared *importexport.Shared) *LfsSaver {
	return &LfsSaver{project: p, shared: shared}
}

// Name implements Saver.
func (s *LfsSaver) Name() string { return StageLFS }

// Save implements Saver.
func (s *LfsSaver) Save(ctx context.Context) bool {
	if len(s.project.LFSObjects) == 0 {
		return true
	}

	dir := filepath.Join(s.shared.ExportPath(), importexport.LFSObjectsDirname)
	for _, obj := range s.project.LFSObjects {
		if err := ctx.Err(); err != nil {
			s.shared.Error(err)
			return false
		}
		if obj.OID == "" || filepath.Base(obj.OID) != obj.OID {
			s.shared.Error(fmt.Errorf("invalid LFS object id %q", obj.OID))
			return false
		}
		if err := copy.Copy(obj.Path, filepath.Join(dir, obj.OID)); err != nil {
			s.shared.Error(fmt.Errorf("failed to copy LFS object %s: %w", obj.OID, err))
			return false
		}
	}
	return true
}
