package project

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store loads and persists projects.
type Store interface {
	// Get returns the project with the given ID or ErrNotFound.
	Get(ctx context.Context, id int64) (*Project, error)

	// GetByFullPath returns the project at "namespace/path" or ErrNotFound.
	GetByFullPath(ctx context.Context, fullPath string) (*Project, error)

	// Save inserts or replaces a project. A zero ID is assigned by the store.
	Save(ctx context.Context, p *Project) error

	// List returns every project ordered by ID.
	List(ctx context.Context) ([]*Project, error)

	// Close releases the store's resources.
	Close() error
}

// LoadManifest reads a project description from a YAML file.
func LoadManifest(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}
	if p.Path == "" {
		return nil, fmt.Errorf("manifest %q: path is required", path)
	}
	if p.Name == "" {
		p.Name = p.Path
	}
	return &p, nil
}
