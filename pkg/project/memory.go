package project

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[int64]*Project
	nextID   int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[int64]*Project),
		nextID:   1,
	}
}

// Get returns the project with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

// GetByFullPath returns the project at fullPath.
func (s *MemoryStore) GetByFullPath(ctx context.Context, fullPath string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.FullPath() == fullPath {
			return clone(p), nil
		}
	}
	return nil, ErrNotFound
}

// Save inserts or replaces p, assigning an ID when p.ID is zero.
func (s *MemoryStore) Save(ctx context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.projects[p.ID] = clone(p)
	return nil
}

// List returns every project ordered by ID.
func (s *MemoryStore) List(ctx context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// clone copies the project and its object list. The record tree is shared;
// export never mutates it.
func clone(p *Project) *Project {
	c := *p
	if p.LFSObjects != nil {
		c.LFSObjects = make([]LFSObject, len(p.LFSObjects))
		copy(c.LFSObjects, p.LFSObjects)
	}
	return &c
}
