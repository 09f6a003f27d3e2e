package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/importexport/attributes"
	"drepo-hq/portage/pkg/importexport/history"
	"drepo-hq/portage/pkg/importexport/savers"
	"drepo-hq/portage/pkg/project"
	"drepo-hq/portage/pkg/telemetry/tracing"
)

// stubStage writes a marker file named after itself and returns ok.
type stubStage struct {
	name    string
	ok      bool
	shared  *importexport.Shared
	invoked *[]string
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Save(ctx context.Context) bool {
	*s.invoked = append(*s.invoked, s.name)
	if !s.ok {
		s.shared.AddMessage(s.name + " failed")
		return false
	}
	if err := os.MkdirAll(s.shared.ExportPath(), 0o755); err != nil {
		s.shared.Error(err)
		return false
	}
	return os.WriteFile(filepath.Join(s.shared.ExportPath(), s.name), []byte("ok"), 0o644) == nil
}

func stubStages(shared *importexport.Shared, invoked *[]string, results ...bool) func(Options) []savers.Saver {
	names := []string{
		savers.StageVersion, savers.StageAvatar, savers.StageTree, savers.StageUploads,
		savers.StageRepo, savers.StageWiki, savers.StageLFS,
	}
	return func(Options) []savers.Saver {
		stages := make([]savers.Saver, len(results))
		for i, ok := range results {
			stages[i] = &stubStage{name: names[i], ok: ok, shared: shared, invoked: invoked}
		}
		return stages
	}
}

type recordingNotifier struct {
	exported    []string
	notExported [][]string
}

func (n *recordingNotifier) ProjectExported(ctx context.Context, actor string, p *project.Project, location string) error {
	n.exported = append(n.exported, location)
	return nil
}

func (n *recordingNotifier) ProjectNotExported(ctx context.Context, actor string, p *project.Project, errs []string) error {
	n.notExported = append(n.notExported, errs)
	return nil
}

type stubStrategy struct {
	ok    bool
	calls int
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Execute(ctx context.Context, actor string, p *project.Project, shared *importexport.Shared) bool {
	s.calls++
	if !s.ok {
		shared.AddMessage("strategy failed")
	}
	return s.ok
}

type fixture struct {
	project  *project.Project
	shared   *importexport.Shared
	invoked  []string
	notifier *recordingNotifier
	history  *history.MemoryStore
	logs     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		project: &project.Project{ID: 42, Name: "Demo", Namespace: "group", Path: "demo"},
		shared: importexport.NewShared(t.TempDir(), "group/demo",
			importexport.WithIDGenerator(func() string { return "session" })),
		notifier: &recordingNotifier{},
		history:  history.NewMemoryStore(),
		logs:     &bytes.Buffer{},
	}
}

func (f *fixture) service(results ...bool) *Service {
	logger := slog.New(slog.NewJSONHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewService(f.project, f.shared, nil,
		WithActor("root"),
		WithNotifier(f.notifier),
		WithHistory(history.NewRecorder(f.history)),
		WithLogger(logger),
		WithStages(stubStages(f.shared, &f.invoked, results...)),
	)
}

func (f *fixture) onlyEntry(t *testing.T) *history.Entry {
	t.Helper()
	entries, err := f.history.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(entries))
	}
	return entries[0]
}

func TestExecute_FailFast(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true, true, false, true, true, true, true)

	err := svc.Execute(context.Background(), nil, Options{})
	if err == nil {
		t.Fatal("Execute() succeeded, want error")
	}

	want := []string{savers.StageVersion, savers.StageAvatar, savers.StageTree}
	if !reflect.DeepEqual(f.invoked, want) {
		t.Errorf("invoked stages = %v, want %v", f.invoked, want)
	}
}

func TestExecute_FailureCleansUpAndRaises(t *testing.T) {
	f := newFixture(t)
	f.shared.AddMessage("earlier warning")
	svc := f.service(true, false)

	err := svc.Execute(context.Background(), nil, Options{})

	var exportErr *importexport.Error
	if !errors.As(err, &exportErr) {
		t.Fatalf("Execute() error = %v, want *importexport.Error", err)
	}
	if got, want := err.Error(), "earlier warning, avatar failed"; got != want {
		t.Errorf("error message = %q, want %q", got, want)
	}

	if _, statErr := os.Stat(f.shared.ExportPath()); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("export path still exists after failure: %v", statErr)
	}

	if len(f.notifier.notExported) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(f.notifier.notExported))
	}
	if !reflect.DeepEqual(f.notifier.notExported[0], []string{"earlier warning", "avatar failed"}) {
		t.Errorf("notified errors = %v", f.notifier.notExported[0])
	}

	logs := f.logs.String()
	if !strings.Contains(logs, "Import/Export - Project Demo with ID: 42 export error - earlier warning, avatar failed") {
		t.Errorf("missing failure log entry, logs:\n%s", logs)
	}

	entry := f.onlyEntry(t)
	if entry.Status != history.StatusFailed {
		t.Errorf("history status = %q, want %q", entry.Status, history.StatusFailed)
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true, true, true, true, true, true, true)

	if err := svc.Execute(context.Background(), nil, Options{}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	for _, name := range f.invoked {
		if _, err := os.Stat(filepath.Join(f.shared.ExportPath(), name)); err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
		}
	}
	if len(f.invoked) != 7 {
		t.Errorf("invoked %d stages, want 7", len(f.invoked))
	}

	if n := strings.Count(f.logs.String(), "successfully exported"); n != 1 {
		t.Errorf("success log entries = %d, want 1", n)
	}
	if len(f.notifier.notExported) != 0 {
		t.Errorf("unexpected error notification: %v", f.notifier.notExported)
	}

	if entry := f.onlyEntry(t); entry.Status != history.StatusFinished {
		t.Errorf("history status = %q, want %q", entry.Status, history.StatusFinished)
	}
}

func TestExecute_StrategyFailureCleansUpWithoutError(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true, true, true)
	strategy := &stubStrategy{ok: false}

	if err := svc.Execute(context.Background(), strategy, Options{}); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}

	if strategy.calls != 1 {
		t.Errorf("strategy calls = %d, want 1", strategy.calls)
	}
	if _, err := os.Stat(f.shared.ExportPath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("export path still exists: %v", err)
	}
	if len(f.notifier.notExported) != 1 {
		t.Errorf("error notifications = %d, want 1", len(f.notifier.notExported))
	}
	if strings.Contains(f.logs.String(), "successfully exported") {
		t.Error("success logged although the strategy failed")
	}
	if entry := f.onlyEntry(t); entry.Status != history.StatusAfterExportFailed {
		t.Errorf("history status = %q, want %q", entry.Status, history.StatusAfterExportFailed)
	}
}

func TestExecute_StrategyNotRunOnStageFailure(t *testing.T) {
	f := newFixture(t)
	svc := f.service(false)
	strategy := &stubStrategy{ok: true}

	if err := svc.Execute(context.Background(), strategy, Options{}); err == nil {
		t.Fatal("Execute() succeeded, want error")
	}
	if strategy.calls != 0 {
		t.Errorf("strategy ran %d times after a stage failure", strategy.calls)
	}
}

func TestExecute_StrategySuccess(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true)
	strategy := &stubStrategy{ok: true}

	if err := svc.Execute(context.Background(), strategy, Options{}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if strategy.calls != 1 {
		t.Errorf("strategy calls = %d, want 1", strategy.calls)
	}
	if _, err := os.Stat(f.shared.ExportPath()); err != nil {
		t.Errorf("export path removed after success: %v", err)
	}
}

func TestExecute_MovedExportRecordsNewLocation(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true, true)
	target := filepath.Join(t.TempDir(), "outbox")

	if err := svc.Execute(context.Background(), NewMoveStrategy(target), Options{}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := filepath.Join(target, "session")
	if entry := f.onlyEntry(t); entry.ExportPath != want {
		t.Errorf("history export path = %q, want %q", entry.ExportPath, want)
	}
	if !strings.Contains(f.logs.String(), fmt.Sprintf("%q:%q", "export_path", want)) {
		t.Errorf("success log does not name %s, logs:\n%s", want, f.logs.String())
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Execute(ctx, nil, Options{})
	if err == nil {
		t.Fatal("Execute() succeeded with a cancelled context")
	}
	if len(f.invoked) != 0 {
		t.Errorf("stages ran after cancellation: %v", f.invoked)
	}
}

func TestExecute_Spans(t *testing.T) {
	f := newFixture(t)
	recorder := tracetest.NewSpanRecorder()
	tracer := tracing.NewWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	svc := NewService(f.project, f.shared, nil,
		WithTracer(tracer),
		WithStages(stubStages(f.shared, &f.invoked, true, false, true)),
	)
	_ = svc.Execute(context.Background(), nil, Options{})

	counts := make(map[string]int)
	for _, span := range recorder.Ended() {
		counts[span.Name()]++
	}
	if counts[tracing.SpanExport] != 1 || counts[tracing.SpanStage] != 2 {
		t.Errorf("span counts = %v, want 1 %s and 2 %s", counts, tracing.SpanExport, tracing.SpanStage)
	}
}

type fakeBundler struct{}

func (fakeBundler) HasCommits(ctx context.Context, repoPath string) (bool, error) {
	return repoPath != "", nil
}

func (fakeBundler) Bundle(ctx context.Context, repoPath, dest string) error {
	return os.WriteFile(dest, []byte("# v2 git bundle\n"), 0o644)
}

func TestExecute_DefaultStages(t *testing.T) {
	f := newFixture(t)
	f.project.RepositoryPath = "/repos/group/demo.git"

	rules, err := attributes.Parse([]byte("project_tree:\n  - labels\nexcluded_attributes:\n  project: [description]\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	archiveDir := t.TempDir()
	svc := NewService(f.project, f.shared, attributes.NewReader(rules),
		WithBundler(fakeBundler{}),
		WithVersion("9.9.9"),
	)
	if err := svc.Execute(context.Background(), nil, Options{Archive: true, ArchiveDir: archiveDir}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	exportPath := f.shared.ExportPath()
	for _, name := range []string{
		importexport.VersionFilename,
		importexport.ProjectFilename,
		importexport.UploadsDirname,
		importexport.ProjectBundleFilename,
	} {
		if _, err := os.Stat(filepath.Join(exportPath, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(exportPath, importexport.WikiBundleFilename)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("wiki bundle written for a project without wiki: %v", err)
	}

	version, _ := os.ReadFile(filepath.Join(exportPath, importexport.VersionFilename))
	if strings.TrimSpace(string(version)) != "9.9.9" {
		t.Errorf("VERSION = %q, want 9.9.9", version)
	}

	tree, _ := os.ReadFile(filepath.Join(exportPath, importexport.ProjectFilename))
	if strings.Contains(string(tree), "description") {
		t.Errorf("excluded attribute exported: %s", tree)
	}

	archive := f.shared.ArchivePath()
	if filepath.Dir(archive) != archiveDir {
		t.Errorf("archive path = %q, want it under %q", archive, archiveDir)
	}
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive missing: %v", err)
	}
}

func TestExecute_Progress(t *testing.T) {
	f := newFixture(t)

	var calls []string
	svc := NewService(f.project, f.shared, nil,
		WithStages(stubStages(f.shared, &f.invoked, true, true, false)),
		WithProgress(func(stage string, completed, total int) {
			calls = append(calls, fmt.Sprintf("%s %d/%d", stage, completed, total))
		}),
	)
	_ = svc.Execute(context.Background(), nil, Options{})

	want := []string{"version 1/3", "avatar 2/3"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("progress calls = %v, want %v", calls, want)
	}
}
