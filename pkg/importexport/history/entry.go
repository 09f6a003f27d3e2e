package history

import (
	"context"
	"errors"
	"time"
)

// Status is the terminal state of an export attempt.
type Status string

const (
	// StatusFinished means every stage and the post-export action succeeded.
	StatusFinished Status = "finished"

	// StatusFailed means a stage failed and the export was rolled back.
	StatusFailed Status = "failed"

	// StatusAfterExportFailed means the export succeeded but the
	// post-export action did not; the export was rolled back without error.
	StatusAfterExportFailed Status = "after_export_failed"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// Entry describes one export attempt.
type Entry struct {
	ID          string    `json:"id"`
	ProjectID   int64     `json:"project_id"`
	ProjectName string    `json:"project_name"`
	ProjectPath string    `json:"project_path"`
	Status      Status    `json:"status"`
	Errors      []string  `json:"errors,omitempty"`
	ExportPath  string    `json:"export_path"`
	ArchivePath string    `json:"archive_path,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Duration returns how long the attempt took.
func (e *Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	ProjectID int64
	Status    Status
	Limit     int
}

// Store persists history entries.
type Store interface {
	// Add stores a new entry.
	Add(ctx context.Context, e *Entry) error

	// Get returns the entry with id or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns matching entries, newest first.
	List(ctx context.Context, f Filter) ([]*Entry, error)

	// DeleteBefore removes entries that finished before t and returns how
	// many were removed.
	DeleteBefore(ctx context.Context, t time.Time) (int, error)

	// Close releases the store's resources.
	Close() error
}
