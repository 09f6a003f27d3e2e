package savers

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/project"
)

// Archiver packs a finished export directory into a tar.gz archive.
type Archiver struct {
	project *project.Project
	shared  *importexport.Shared
	dir     string
	now     func() time.Time
}

// NewArchiver creates an Archiver writing into dir. An empty dir places the
// archive next to the session directories of the project.
func NewArchiver(p *project.Project, shared *importexport.Shared, dir string) *Archiver {
	return &Archiver{
		project: p,
		shared:  shared,
		dir:     dir,
		now:     time.Now,
	}
}

// Name implements Saver.
func (a *Archiver) Name() string { return StageArchive }

// Save implements Saver. On failure no partial archive is left behind.
func (a *Archiver) Save(ctx context.Context) bool {
	dir := a.dir
	if dir == "" {
		dir = a.shared.ProjectPath()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.shared.Error(fmt.Errorf("failed to create archive directory: %w", err))
		return false
	}

	path := filepath.Join(dir, importexport.ArchiveFilename(a.project.FullPath(), a.now()))
	if err := writeTarGz(ctx, a.shared.ExportPath(), path); err != nil {
		_ = os.Remove(path)
		a.shared.Error(fmt.Errorf("failed to create archive: %w", err))
		return false
	}

	a.shared.SetArchivePath(path)
	return true
}

// writeTarGz packs the contents of src (not src itself) into dest.
func writeTarGz(ctx context.Context, src, dest string) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)

	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return file.Close()
}
