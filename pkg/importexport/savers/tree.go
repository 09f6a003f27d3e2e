package savers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/importexport/attributes"
	"drepo-hq/portage/pkg/project"
)

// ProjectTreeSaver serializes the project's entity graph to project.json,
// filtered by the attribute rules.
type ProjectTreeSaver struct {
	project *project.Project
	shared  *importexport.Shared
	reader  *attributes.Reader
}

// NewProjectTreeSaver creates a ProjectTreeSaver using the rule snapshot
// reader.
func NewProjectTreeSaver(p *project.Project, shared *importexport.Shared, reader *attributes.Reader) *ProjectTreeSaver {
	return &ProjectTreeSaver{project: p, shared: shared, reader: reader}
}

// Name implements Saver.
func (s *ProjectTreeSaver) Name() string { return StageTree }

// Save implements Saver.
func (s *ProjectTreeSaver) Save(ctx context.Context) bool {
	if err := ensureExportPath(s.shared); err != nil {
		s.shared.Error(err)
		return false
	}

	tree := Serializer{}.Serialize(s.rootRecord(), s.reader.ProjectTree())

	path := filepath.Join(s.shared.ExportPath(), importexport.ProjectFilename)
	if err := writeJSON(path, tree); err != nil {
		s.shared.Error(err)
		return false
	}
	return true
}

// rootRecord returns the project's graph, or a record built from the
// project metadata when the graph was not loaded.
func (s *ProjectTreeSaver) rootRecord() *project.Record {
	if s.project.Tree != nil {
		return s.project.Tree
	}
	return &project.Record{
		Attributes: map[string]any{
			"id":          s.project.ID,
			"name":        s.project.Name,
			"path":        s.project.Path,
			"description": s.project.Description,
		},
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
