package cleanup

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "hourly descriptor", schedule: "@hourly", wantRunning: true},
		{name: "daily at 3", schedule: "0 3 * * *", wantRunning: true},
		{name: "empty schedule", schedule: "", wantRunning: false},
		{name: "invalid schedule", schedule: "every now and then", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pruner := NewPruner(&Config{StoragePath: t.TempDir(), TTL: time.Hour, Schedule: tt.schedule})
			scheduler := NewScheduler(pruner)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			next := scheduler.NextRun()
			if tt.wantRunning {
				if next == nil || !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
			} else if next != nil {
				t.Errorf("NextRun() = %v, want nil", next)
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	pruner := NewPruner(&Config{StoragePath: t.TempDir(), TTL: time.Hour, Schedule: "@hourly"})
	scheduler := NewScheduler(pruner)

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancellation")
	}
}

func TestScheduler_RunPruning(t *testing.T) {
	root := t.TempDir()
	makeSession(t, filepath.Join(root, "demo", "aaaa"), 48*time.Hour)

	scheduler := NewScheduler(NewPruner(&Config{StoragePath: root, TTL: time.Hour}))
	scheduler.runPruning(context.Background())

	if exists(filepath.Join(root, "demo", "aaaa")) {
		t.Error("scheduled run did not prune the stale session")
	}
}

func TestScheduler_LastError(t *testing.T) {
	scheduler := NewScheduler(NewPruner(&Config{StoragePath: t.TempDir()}))
	if scheduler.LastError() != nil {
		t.Fatal("LastError() set before any run")
	}

	// A zero TTL makes Prune fail.
	scheduler.runPruning(context.Background())
	if scheduler.LastError() == nil {
		t.Error("LastError() = nil after failed run")
	}

	scheduler.pruner.config.TTL = time.Hour
	scheduler.runPruning(context.Background())
	if err := scheduler.LastError(); err != nil {
		t.Errorf("LastError() = %v after successful run", err)
	}
}
