package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL,
	namespace       TEXT NOT NULL DEFAULT '',
	path            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	avatar_path     TEXT NOT NULL DEFAULT '',
	repository_path TEXT NOT NULL DEFAULT '',
	wiki_path       TEXT NOT NULL DEFAULT '',
	uploads_path    TEXT NOT NULL DEFAULT '',
	lfs_objects     TEXT NOT NULL DEFAULT '[]',
	tree            TEXT NOT NULL DEFAULT 'null',
	created_at      INTEGER NOT NULL,
	UNIQUE (namespace, path)
);
`

const selectColumns = `id, name, namespace, path, description, avatar_path,
	repository_path, wiki_path, uploads_path, lfs_objects, tree, created_at`

// SQLiteConfig configures the SQLite project store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int

	// BusyTimeout is how long to wait on a locked database.
	BusyTimeout time.Duration
}

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (and if needed creates) the project database.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "project.storage.sqlite")

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, NewStorageError("sqlite", "pragma", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "create_schema", err)
	}

	logger.Info("SQLite project store initialized", "path", cfg.Path)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Get returns the project with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM projects WHERE id = ?", id)
	return s.scan(row, "get")
}

// GetByFullPath returns the project at fullPath.
func (s *SQLiteStore) GetByFullPath(ctx context.Context, fullPath string) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+` FROM projects
		WHERE CASE namespace WHEN '' THEN path ELSE namespace || '/' || path END = ?`, fullPath)
	return s.scan(row, "get_by_full_path")
}

// Save inserts or replaces p. A zero ID is assigned by the database.
func (s *SQLiteStore) Save(ctx context.Context, p *Project) error {
	lfs, err := json.Marshal(p.LFSObjects)
	if err != nil {
		return NewStorageError("sqlite", "encode_lfs_objects", err)
	}
	tree, err := json.Marshal(p.Tree)
	if err != nil {
		return NewStorageError("sqlite", "encode_tree", err)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	var id any
	if p.ID != 0 {
		id = p.ID
	}

	res, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO projects (
		id, name, namespace, path, description, avatar_path,
		repository_path, wiki_path, uploads_path, lfs_objects, tree, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Name, p.Namespace, p.Path, p.Description, p.AvatarPath,
		p.RepositoryPath, p.WikiPath, p.UploadsPath, string(lfs), string(tree),
		p.CreatedAt.UnixNano(),
	)
	if err != nil {
		return NewStorageError("sqlite", "save", err)
	}

	if p.ID == 0 {
		newID, err := res.LastInsertId()
		if err != nil {
			return NewStorageError("sqlite", "last_insert_id", err)
		}
		p.ID = newID
	}

	s.logger.Debug("project saved", "project_id", p.ID, "full_path", p.FullPath())
	return nil
}

// List returns every project ordered by ID.
func (s *SQLiteStore) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM projects ORDER BY id")
	if err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		p, err := s.scan(rows, "list")
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scan(row scanner, op string) (*Project, error) {
	var (
		p         Project
		lfs, tree string
		createdAt int64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Namespace, &p.Path, &p.Description, &p.AvatarPath,
		&p.RepositoryPath, &p.WikiPath, &p.UploadsPath, &lfs, &tree, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", op, err)
	}

	if err := json.Unmarshal([]byte(lfs), &p.LFSObjects); err != nil {
		return nil, NewStorageError("sqlite", "decode_lfs_objects", err)
	}
	if err := json.Unmarshal([]byte(tree), &p.Tree); err != nil {
		return nil, NewStorageError("sqlite", "decode_tree", err)
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	return &p, nil
}
