package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/trace"

	"drepo-hq/portage/pkg/config"
	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/importexport/attributes"
	"drepo-hq/portage/pkg/importexport/history"
	"drepo-hq/portage/pkg/importexport/savers"
	"drepo-hq/portage/pkg/project"
	"drepo-hq/portage/pkg/telemetry/logging"
	"drepo-hq/portage/pkg/telemetry/metrics"
	"drepo-hq/portage/pkg/telemetry/tracing"
	"drepo-hq/portage/pkg/vcs"
)

// Options tune a single Execute call.
type Options struct {
	// Archive packs the export directory into a tar.gz after every stage
	// succeeded.
	Archive bool

	// ArchiveDir is where the archive is written. Empty places it next to
	// the project's session directories.
	ArchiveDir string
}

// Service runs one export session for one project. A Service is used for
// exactly one Execute call.
type Service struct {
	project *project.Project
	shared  *importexport.Shared
	rules   *attributes.Reader
	actor   string
	version string

	bundler  savers.RepositoryBundler
	notifier Notifier
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	history  *history.Recorder
	stages   func(Options) []savers.Saver
	progress func(stage string, completed, total int)

	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithActor sets who requested the export.
func WithActor(actor string) Option {
	return func(s *Service) {
		s.actor = actor
	}
}

// WithVersion sets the export format version written to the VERSION file.
func WithVersion(version string) Option {
	return func(s *Service) {
		if version != "" {
			s.version = version
		}
	}
}

// WithBundler sets the repository bundler used by the repository stages.
func WithBundler(b savers.RepositoryBundler) Option {
	return func(s *Service) {
		if b != nil {
			s.bundler = b
		}
	}
}

// WithNotifier sets the collaborator told about failed exports.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithMetrics records stage and session metrics into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = c
	}
}

// WithTracer wraps the session and each stage in spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithHistory records the outcome of the session.
func WithHistory(r *history.Recorder) Option {
	return func(s *Service) {
		s.history = r
	}
}

// WithStages replaces the stage list. Tests use it to run stub stages.
func WithStages(fn func(Options) []savers.Saver) Option {
	return func(s *Service) {
		if fn != nil {
			s.stages = fn
		}
	}
}

// WithProgress calls fn after each successful stage.
func WithProgress(fn func(stage string, completed, total int)) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates the export session of p writing into shared. rules is
// the attribute rule snapshot used for the whole session; nil exports the
// project tree without any rules.
func NewService(p *project.Project, shared *importexport.Shared, rules *attributes.Reader, opts ...Option) *Service {
	if rules == nil {
		rules = attributes.NewReader(&attributes.File{})
	}

	s := &Service{
		project:  p,
		shared:   shared,
		rules:    rules,
		version:  config.DefaultExportVersion,
		bundler:  vcs.NewBundler(),
		notifier: NopNotifier{},
		logger:   slog.Default().With("component", "importexport.export"),
		now:      time.Now,
	}
	s.stages = s.defaultStages
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultStages returns the stages in the order they must run.
func (s *Service) defaultStages(opts Options) []savers.Saver {
	stages := []savers.Saver{
		savers.NewVersionSaver(s.shared, s.version),
		savers.NewAvatarSaver(s.project, s.shared),
		savers.NewProjectTreeSaver(s.project, s.shared, s.rules),
		savers.NewUploadsSaver(s.project, s.shared),
		savers.NewRepoSaver(s.project, s.shared, s.bundler),
		savers.NewWikiRepoSaver(s.project, s.shared, s.bundler),
		savers.NewLfsSaver(s.project, s.shared),
	}
	if opts.Archive {
		stages = append(stages, savers.NewArchiver(s.project, s.shared, opts.ArchiveDir))
	}
	return stages
}

// Execute runs the export. A nil strategy skips the post-export action.
//
// It returns an *importexport.Error when a stage failed. A failing strategy
// rolls the export back but is not returned as an error.
func (s *Service) Execute(ctx context.Context, strategy AfterExportStrategy, opts Options) error {
	started := s.now()

	ctx = logging.WithProjectID(ctx, s.project.ID)
	ctx = logging.WithProjectPath(ctx, s.project.FullPath())
	ctx = logging.WithExportID(ctx, filepath.Base(s.shared.ExportPath()))

	ctx, span := s.tracer.Start(ctx, tracing.SpanExport,
		trace.WithAttributes(tracing.ProjectAttributes(s.project.ID, s.project.FullPath())...))
	defer span.End()
	ctx = logging.WithTraceID(ctx, tracing.TraceID(ctx))

	if !s.runStages(ctx, s.stages(opts)) {
		s.cleanupAndNotifyError(ctx)
		s.finish(ctx, span, started, history.StatusFailed)

		exportErr := importexport.NewError(s.shared.Errors())
		tracing.SetError(span, exportErr)
		return exportErr
	}

	if strategy != nil && !s.afterExport(ctx, strategy) {
		s.cleanupAndNotifyError(ctx)
		s.finish(ctx, span, started, history.StatusAfterExportFailed)
		return nil
	}

	s.logger.InfoContext(ctx,
		fmt.Sprintf("Import/Export - Project %s with ID: %d successfully exported", s.project.Name, s.project.ID),
		append(logging.Fields(ctx),
			"project_name", s.project.Name,
			"export_path", s.shared.ExportLocation(),
			"archive_path", s.shared.ArchivePath(),
		)...,
	)
	s.finish(ctx, span, started, history.StatusFinished)
	tracing.SetStatus(span, nil)
	return nil
}

// runStages runs stages in order and stops at the first failure.
func (s *Service) runStages(ctx context.Context, stages []savers.Saver) bool {
	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			s.shared.Error(fmt.Errorf("export cancelled before %s: %w", stage.Name(), err))
			return false
		}
		if !s.runStage(ctx, stage) {
			return false
		}
		if s.progress != nil {
			s.progress(stage.Name(), i+1, len(stages))
		}
	}
	return true
}

func (s *Service) runStage(ctx context.Context, stage savers.Saver) bool {
	name := stage.Name()
	ctx = logging.WithStage(ctx, name)
	ctx, span := s.tracer.Start(ctx, tracing.SpanStage)
	defer span.End()

	began := time.Now()
	ok := stage.Save(ctx)
	elapsed := time.Since(began)

	s.metrics.RecordStage(name, elapsed, ok)
	tracing.SetStageResult(span, name, ok)

	if !ok {
		tracing.SetError(span, errors.New("stage failed"))
		s.logger.WarnContext(ctx, "export stage failed",
			append(logging.Fields(ctx), "duration", elapsed)...)
		return false
	}

	s.logger.DebugContext(ctx, "export stage finished",
		append(logging.Fields(ctx), "duration", elapsed)...)
	return true
}

func (s *Service) afterExport(ctx context.Context, strategy AfterExportStrategy) bool {
	ctx, span := s.tracer.Start(ctx, tracing.SpanAfter)
	defer span.End()

	if strategy.Execute(ctx, s.actor, s.project, s.shared) {
		return true
	}

	tracing.SetError(span, fmt.Errorf("after export strategy %s failed", strategy.Name()))
	s.logger.WarnContext(ctx, "after export strategy failed",
		append(logging.Fields(ctx), "strategy", strategy.Name())...)
	return false
}

// cleanupAndNotifyError removes everything the session wrote and reports
// the failure.
func (s *Service) cleanupAndNotifyError(ctx context.Context) {
	errs := s.shared.Errors()
	joined := s.shared.JoinedErrors()

	s.logger.ErrorContext(ctx,
		fmt.Sprintf("Import/Export - Project %s with ID: %d export error - %s", s.project.Name, s.project.ID, joined),
		append(logging.Fields(ctx),
			"project_name", s.project.Name,
			"errors", joined,
		)...,
	)

	if err := os.RemoveAll(s.shared.ExportPath()); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove export directory",
			append(logging.Fields(ctx), "export_path", s.shared.ExportPath(), "error", err)...)
	}
	if archive := s.shared.ArchivePath(); archive != "" {
		if err := os.Remove(archive); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.ErrorContext(ctx, "failed to remove export archive",
				append(logging.Fields(ctx), "archive_path", archive, "error", err)...)
		}
		s.shared.SetArchivePath("")
	}

	if err := s.notifier.ProjectNotExported(ctx, s.actor, s.project, errs); err != nil {
		s.logger.ErrorContext(ctx, "failed to send export error notification",
			append(logging.Fields(ctx), "error", err)...)
	}
}

// finish records the terminal state of the session.
func (s *Service) finish(ctx context.Context, span trace.Span, started time.Time, status history.Status) {
	finished := s.now()
	errs := s.shared.Errors()

	s.metrics.RecordExport(string(status), finished.Sub(started))
	tracing.SetExportResult(span, string(status), len(errs))

	s.history.Record(ctx, &history.Entry{
		ProjectID:   s.project.ID,
		ProjectName: s.project.Name,
		ProjectPath: s.project.FullPath(),
		Status:      status,
		Errors:      errs,
		ExportPath:  s.shared.ExportLocation(),
		ArchivePath: s.shared.ArchivePath(),
		StartedAt:   started.UTC(),
		FinishedAt:  finished.UTC(),
	})
}
