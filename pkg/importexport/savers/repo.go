package savers

import (
	"context"
	"path/filepath"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/project"
)

// RepoSaver bundles one repository of the project into a fixed file under
// the export path. An empty repository produces no bundle.
type RepoSaver struct {
	name     string
	repoPath string
	filename string
	shared   *importexport.Shared
	bundler  RepositoryBundler
}

// NewRepoSaver creates the stage bundling the project repository.
func NewRepoSaver(p *project.Project, shared *importexport.Shared, bundler RepositoryBundler) *RepoSaver {
	return &RepoSaver{
		name:     StageRepo,
		repoPath: p.RepositoryPath,
		filename: importexport.ProjectBundleFilename,
		shared:   shared,
		bundler:  bundler,
	}
}

// NewWikiRepoSaver creates the stage bundling the project wiki.
func NewWikiRepoSaver(p *project.Project, shared *importexport.Shared, bundler RepositoryBundler) *RepoSaver {
	return &RepoSaver{
		name:     StageWiki,
		repoPath: p.WikiPath,
		filename: importexport.WikiBundleFilename,
		shared:   shared,
		bundler:  bundler,
	}
}

// Name implements Saver.
func (s *RepoSaver) Name() string { return s.name }

// BundlePath returns where the bundle is written.
func (s *RepoSaver) BundlePath() string {
	return filepath.Join(s.shared.ExportPath(), s.filename)
}

// Save implements Saver.
func (s *RepoSaver) Save(ctx context.Context) (ok bool) {
	defer recoverInto(s.shared, &ok)

	hasCommits, err := s.bundler.HasCommits(ctx, s.repoPath)
	if err != nil {
		s.shared.Error(err)
		return false
	}
	if !hasCommits {
		return true
	}

	if err := ensureExportPath(s.shared); err != nil {
		s.shared.Error(err)
		return false
	}
	if err := s.bundler.Bundle(ctx, s.repoPath, s.BundlePath()); err != nil {
		s.shared.Error(err)
		return false
	}
	return true
}
