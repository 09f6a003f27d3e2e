package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS export_history (
	id           TEXT PRIMARY KEY,
	project_id   INTEGER NOT NULL,
	project_name TEXT NOT NULL,
	project_path TEXT NOT NULL,
	status       TEXT NOT NULL,
	errors       TEXT NOT NULL DEFAULT '[]',
	export_path  TEXT NOT NULL,
	archive_path TEXT NOT NULL DEFAULT '',
	started_at   INTEGER NOT NULL,
	finished_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_export_history_project ON export_history(project_id);
CREATE INDEX IF NOT EXISTS idx_export_history_finished ON export_history(finished_at);
`

const selectColumns = `id, project_id, project_name, project_path, status, errors,
	export_path, archive_path, started_at, finished_at`

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (and if needed creates) the history database at
// path.
func NewSQLiteStore(path string, busyTimeout time.Duration) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if busyTimeout == 0 {
		busyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger := slog.Default().With("component", "importexport.history.sqlite")
	logger.Info("SQLite history store initialized", "path", path)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Add stores e.
func (s *SQLiteStore) Add(ctx context.Context, e *Entry) error {
	errs, err := json.Marshal(e.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode errors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO export_history (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ProjectID, e.ProjectName, e.ProjectPath, string(e.Status), string(errs),
		e.ExportPath, e.ArchivePath, e.StartedAt.UnixNano(), e.FinishedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Get returns the entry with id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM export_history WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// List returns matching entries, newest first.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]*Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.ProjectID != 0 {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	query := "SELECT " + selectColumns + " FROM export_history"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteBefore removes entries that finished before t.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, t time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM export_history WHERE finished_at < ?", t.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to delete history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted history: %w", err)
	}
	return int(n), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e                   Entry
		status, errs        string
		startedAt, finished int64
	)
	err := row.Scan(&e.ID, &e.ProjectID, &e.ProjectName, &e.ProjectPath, &status, &errs,
		&e.ExportPath, &e.ArchivePath, &startedAt, &finished)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(errs), &e.Errors); err != nil {
		return nil, fmt.Errorf("failed to decode errors: %w", err)
	}
	e.Status = Status(status)
	e.StartedAt = time.Unix(0, startedAt).UTC()
	e.FinishedAt = time.Unix(0, finished).UTC()
	return &e, nil
}
