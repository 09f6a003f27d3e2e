package savers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"drepo-hq/portage/pkg/importexport"
)

type fakeBundler struct {
	hasCommits bool
	hasErr     error
	bundleErr  error
	panicMsg   string

	bundled []string
}

func (b *fakeBundler) HasCommits(ctx context.Context, repoPath string) (bool, error) {
	return b.hasCommits, b.hasErr
}

func (b *fakeBundler) Bundle(ctx context.Context, repoPath, dest string) error {
	if b.panicMsg != "" {
		panic(b.panicMsg)
	}
	if b.bundleErr != nil {
		return b.bundleErr
	}
	b.bundled = append(b.bundled, dest)
	return os.WriteFile(dest, []byte("# v2 git bundle\n"), 0o644)
}

var errBundle = errors.New("bundle failed: repository is corrupt")

func newShared(t *testing.T) *importexport.Shared {
	t.Helper()
	return importexport.NewShared(t.TempDir(), "group/project",
		importexport.WithIDGenerator(func() string { return "session" }))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected %s to be absent, stat error: %v", path, err)
	}
}
