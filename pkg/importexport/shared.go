package importexport

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Shared is the mutable state of one export session: where artifacts are
// written and which diagnostics have been collected so far.
//
// A Shared is owned by exactly one export service for the duration of one
// export attempt. Stages run strictly one after another, so no locking is
// performed.
type Shared struct {
	storagePath  string
	relativePath string
	exportPath   string
	location     string
	archivePath  string
	errors       []string
	logger       *slog.Logger
	newID        func() string
}

// SharedOption customizes a Shared at construction time.
type SharedOption func(*Shared)

// WithLogger sets the logger used when recording errors.
func WithLogger(logger *slog.Logger) SharedOption {
	return func(s *Shared) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the generator for the per-session directory name.
func WithIDGenerator(gen func() string) SharedOption {
	return func(s *Shared) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewShared creates session state rooted at storagePath for the project
// stored at relativePath (for example "group/project").
func NewShared(storagePath, relativePath string, opts ...SharedOption) *Shared {
	s := &Shared{
		storagePath:  storagePath,
		relativePath: relativePath,
		logger:       slog.Default().With("component", "importexport.shared"),
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportPath returns the destination directory of this session. The path
// is chosen on first call and stays stable afterwards; the directory itself
// is created by whichever stage writes first.
func (s *Shared) ExportPath() string {
	if s.exportPath == "" {
		s.exportPath = filepath.Join(s.storagePath, s.relativePath, s.newID())
	}
	return s.exportPath
}

// SetExportLocation records that the finished export directory now lives
// at path.
func (s *Shared) SetExportLocation(path string) {
	s.location = path
}

// ExportLocation returns where the export directory currently lives: the
// location set by SetExportLocation, else ExportPath.
func (s *Shared) ExportLocation() string {
	if s.location != "" {
		return s.location
	}
	return s.ExportPath()
}

// ProjectPath returns the directory grouping every session of the project.
func (s *Shared) ProjectPath() string {
	return filepath.Join(s.storagePath, s.relativePath)
}

// SetArchivePath records where the packed archive of this session was
// written.
func (s *Shared) SetArchivePath(path string) {
	s.archivePath = path
}

// ArchivePath returns the packed archive of this session, or "" when the
// export was not archived.
func (s *Shared) ArchivePath() string {
	return s.archivePath
}

// Error records err as a session diagnostic. Nil errors are ignored.
func (s *Shared) Error(err error) {
	if err == nil {
		return
	}
	s.logger.Error("Import/Export error",
		"export_path", s.exportPath,
		"error", err,
	)
	s.errors = append(s.errors, err.Error())
}

// AddMessage records a plain diagnostic message.
func (s *Shared) AddMessage(msg string) {
	s.errors = append(s.errors, msg)
}

// Errors returns a copy of the diagnostics recorded so far, in order.
func (s *Shared) Errors() []string {
	out := make([]string, len(s.errors))
	copy(out, s.errors)
	return out
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Shared) HasErrors() bool {
	return len(s.errors) > 0
}

// JoinedErrors returns the diagnostics joined with ", ".
func (s *Shared) JoinedErrors() string {
	return strings.Join(s.errors, ErrorSeparator)
}
