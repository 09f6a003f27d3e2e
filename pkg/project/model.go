package project

import (
	"path"
	"time"
)

// Project is one exportable project.
type Project struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Namespace   string `json:"namespace" yaml:"namespace"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// AvatarPath is the avatar image on disk, empty when the project has none.
	AvatarPath string `json:"avatar_path,omitempty" yaml:"avatar_path,omitempty"`

	RepositoryPath string `json:"repository_path,omitempty" yaml:"repository_path,omitempty"`
	WikiPath       string `json:"wiki_path,omitempty" yaml:"wiki_path,omitempty"`
	UploadsPath    string `json:"uploads_path,omitempty" yaml:"uploads_path,omitempty"`

	LFSObjects []LFSObject `json:"lfs_objects,omitempty" yaml:"lfs_objects,omitempty"`

	// Tree is the entity graph rooted at the project record.
	Tree *Record `json:"tree,omitempty" yaml:"tree,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// FullPath returns "namespace/path", or just the path for a project without
// a namespace.
func (p *Project) FullPath() string {
	if p.Namespace == "" {
		return p.Path
	}
	return path.Join(p.Namespace, p.Path)
}

// HasAvatar reports whether an avatar is configured.
func (p *Project) HasAvatar() bool {
	return p.AvatarPath != ""
}

// LFSObject is a large-file object tracked by the repository.
type LFSObject struct {
	OID  string `json:"oid" yaml:"oid"`
	Size int64  `json:"size,omitempty" yaml:"size,omitempty"`
	// Path is where the object content lives on disk.
	Path string `json:"path" yaml:"path"`
}

// Record is one entity of the project graph: its raw columns, the values of
// its computed accessors, an optional historical diff, and its associations
// by name.
type Record struct {
	Attributes map[string]any       `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Computed   map[string]any       `json:"computed,omitempty" yaml:"computed,omitempty"`
	Diff       any                  `json:"diff,omitempty" yaml:"diff,omitempty"`
	Relations  map[string][]*Record `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Related returns the records associated under name.
func (r *Record) Related(name string) []*Record {
	if r == nil || r.Relations == nil {
		return nil
	}
	return r.Relations[name]
}

// Columns returns the attribute names of the record.
func (r *Record) Columns() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Attributes))
	for name := range r.Attributes {
		names = append(names, name)
	}
	return names
}
