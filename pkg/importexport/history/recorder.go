package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder writes history entries, logging instead of failing.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:  store,
		logger: slog.Default().With("component", "importexport.history"),
		now:    time.Now,
	}
}

// Record stores e, filling in its ID and FinishedAt when unset. A nil
// Recorder records nothing.
func (r *Recorder) Record(ctx context.Context, e *Entry) {
	if r == nil || r.store == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.FinishedAt.IsZero() {
		e.FinishedAt = r.now().UTC()
	}

	if err := r.store.Add(ctx, e); err != nil {
		r.logger.Error("failed to record export history",
			"export_id", e.ID,
			"project_id", e.ProjectID,
			"status", e.Status,
			"error", err,
		)
		return
	}

	r.logger.Debug("export history recorded",
		"export_id", e.ID,
		"project_id", e.ProjectID,
		"status", e.Status,
	)
}

// Store returns the underlying store.
func (r *Recorder) Store() Store {
	return r.store
}
