package vcs

import (
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Commit summarizes a commit.
type Commit struct {
	Hash    string
	Message string
	Author  string
}

// Repository is a read-only view of a repository on disk.
type Repository struct {
	path string
	repo *gogit.Repository
}

// Open opens the repository at path. Bare and non-bare repositories are
// both accepted.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", path, err)
	}
	return &Repository{path: path, repo: repo}, nil
}

// Path returns the repository location.
func (r *Repository) Path() string {
	return r.path
}

// HasCommits reports whether any branch or tag points at an object. HEAD
// alone is not enough: a bare repository whose HEAD names a branch that was
// never pushed still has history on its other branches.
func (r *Repository) HasCommits() (bool, error) {
	_, err := r.repo.Head()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	refs, err := r.repo.References()
	if err != nil {
		return false, fmt.Errorf("failed to list references: %w", err)
	}
	defer refs.Close()

	found := false
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() == plumbing.HashReference && !ref.Hash().IsZero() {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to list references: %w", err)
	}
	return found, nil
}

// HeadCommit returns the commit HEAD points at.
func (r *Repository) HeadCommit() (*Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", ref.Hash(), err)
	}

	return &Commit{
		Hash:    commit.Hash.String(),
		Message: commit.Message,
		Author:  commit.Author.Name,
	}, nil
}

// HasCommits reports whether the repository at path has any commits. A
// missing path or a directory that is not a repository has none.
func HasCommits(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	repo, err := gogit.PlainOpen(path)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open repository %q: %w", path, err)
	}

	return (&Repository{path: path, repo: repo}).HasCommits()
}
