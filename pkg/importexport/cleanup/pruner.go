package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"drepo-hq/portage/pkg/config"
	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/telemetry/metrics"
)

// Config contains configuration for the pruner.
type Config struct {
	// StoragePath is the export root holding the session directories.
	StoragePath string

	// ArchiveDir is a separate archive directory, if archives are not kept
	// under StoragePath.
	ArchiveDir string

	// TTL is the age after which sessions and archives are removed.
	TTL time.Duration

	// HistoryRetention is the age after which history entries are removed.
	// Zero keeps history forever.
	HistoryRetention time.Duration

	// Schedule is a cron expression for the Scheduler. Empty disables
	// scheduled pruning.
	Schedule string
}

// DefaultConfig returns the default pruner configuration.
func DefaultConfig() *Config {
	return &Config{
		StoragePath: config.DefaultExportStoragePath,
		TTL:         config.DefaultCleanupTTL,
		Schedule:    config.DefaultCleanupSchedule,
	}
}

// HistoryStore is the part of the history store the pruner needs.
type HistoryStore interface {
	DeleteBefore(ctx context.Context, t time.Time) (int, error)
}

// Result counts what one Prune run removed.
type Result struct {
	Sessions int
	Archives int
	History  int
}

// Total returns the number of removed entries.
func (r Result) Total() int {
	return r.Sessions + r.Archives + r.History
}

// Pruner removes stale exports.
type Pruner struct {
	config  *Config
	history HistoryStore
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// Option customizes a Pruner.
type Option func(*Pruner)

// WithHistory prunes history entries from store as well.
func WithHistory(store HistoryStore) Option {
	return func(p *Pruner) {
		p.history = store
	}
}

// WithMetrics counts removed entries in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pruner) {
		p.metrics = c
	}
}

// NewPruner creates a Pruner. A nil cfg uses DefaultConfig.
func NewPruner(cfg *Config, opts ...Option) *Pruner {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	p := &Pruner{
		config: cfg,
		logger: slog.Default().With("component", "importexport.cleanup"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prune removes every session directory and archive whose modification
// time is older than the TTL. A missing storage path is not an error.
func (p *Pruner) Prune(ctx context.Context) (Result, error) {
	var result Result
	if p.config.TTL <= 0 {
		return result, fmt.Errorf("cleanup ttl must be positive, got %s", p.config.TTL)
	}

	cutoff := p.now().Add(-p.config.TTL)

	roots := []string{p.config.StoragePath}
	if p.config.ArchiveDir != "" && filepath.Clean(p.config.ArchiveDir) != filepath.Clean(p.config.StoragePath) {
		roots = append(roots, p.config.ArchiveDir)
	}
	for _, root := range roots {
		if err := p.pruneTree(ctx, root, cutoff, &result); err != nil {
			p.metrics.RecordCleanup(result.Total())
			return result, err
		}
	}

	if p.history != nil && p.config.HistoryRetention > 0 {
		n, err := p.history.DeleteBefore(ctx, p.now().Add(-p.config.HistoryRetention))
		if err != nil {
			p.metrics.RecordCleanup(result.Total())
			return result, fmt.Errorf("failed to prune export history: %w", err)
		}
		result.History = n
	}

	p.metrics.RecordCleanup(result.Total())

	if result.Total() == 0 {
		p.logger.Debug("no stale exports found", "ttl", p.config.TTL)
	} else {
		p.logger.Info("stale exports pruned",
			"sessions", result.Sessions,
			"archives", result.Archives,
			"history", result.History,
			"ttl", p.config.TTL,
		)
	}
	return result, nil
}

func (p *Pruner) pruneTree(ctx context.Context, root string, cutoff time.Time, result *Result) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path == root || !isSession(path) {
				return nil
			}
			if stale(d, cutoff) {
				if err := os.RemoveAll(path); err != nil {
					return fmt.Errorf("failed to remove export %s: %w", path, err)
				}
				result.Sessions++
				p.logger.Debug("removed stale export", "path", path)
			}
			return filepath.SkipDir
		}

		if strings.HasSuffix(d.Name(), importexport.ArchiveSuffix) && stale(d, cutoff) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove archive %s: %w", path, err)
			}
			result.Archives++
			p.logger.Debug("removed stale archive", "path", path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to prune %s: %w", root, err)
	}
	return nil
}

// isSession reports whether dir is an export session directory.
func isSession(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, importexport.VersionFilename))
	return err == nil && info.Mode().IsRegular()
}

func stale(d fs.DirEntry, cutoff time.Time) bool {
	info, err := d.Info()
	if err != nil {
		return false
	}
	return info.ModTime().Before(cutoff)
}
