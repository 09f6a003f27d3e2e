package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultBundleTimeout bounds a single `git bundle create` run.
const DefaultBundleTimeout = 30 * time.Minute

// Bundler writes repositories into single-file git bundles.
type Bundler struct {
	runner    CommandRunner
	gitBinary string
	timeout   time.Duration
	logger    *slog.Logger
}

// BundlerOption customizes a Bundler.
type BundlerOption func(*Bundler)

// WithRunner replaces the command runner.
func WithRunner(runner CommandRunner) BundlerOption {
	return func(b *Bundler) {
		if runner != nil {
			b.runner = runner
		}
	}
}

// WithGitBinary sets the git executable.
func WithGitBinary(path string) BundlerOption {
	return func(b *Bundler) {
		if path != "" {
			b.gitBinary = path
		}
	}
}

// WithTimeout bounds each bundle run. Zero disables the bound.
func WithTimeout(d time.Duration) BundlerOption {
	return func(b *Bundler) {
		b.timeout = d
	}
}

// NewBundler creates a Bundler running the git binary found on PATH.
func NewBundler(opts ...BundlerOption) *Bundler {
	b := &Bundler{
		runner:    NewExecRunner(),
		gitBinary: "git",
		timeout:   DefaultBundleTimeout,
		logger:    slog.Default().With("component", "vcs.bundler"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// HasCommits reports whether the repository at repoPath has any commits.
func (b *Bundler) HasCommits(ctx context.Context, repoPath string) (bool, error) {
	return HasCommits(repoPath)
}

// Bundle writes every ref of the repository at repoPath into the bundle
// file dest. The parent directory of dest must exist.
func (b *Bundler) Bundle(ctx context.Context, repoPath, dest string) error {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve bundle path %q: %w", dest, err)
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	if _, err := b.runner.Run(ctx, repoPath, b.gitBinary, "bundle", "create", abs, "--all"); err != nil {
		// git may leave a truncated bundle behind.
		_ = os.Remove(abs)
		return err
	}

	b.logger.Debug("repository bundled",
		"repository", repoPath,
		"bundle", abs,
		"duration", time.Since(start),
	)
	return nil
}
