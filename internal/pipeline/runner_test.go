package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/gofrs/flock"

	"playshot/internal/logging"
	"playshot/internal/pipeline"
	"playshot/internal/services"
	"playshot/internal/stage"
)

type recordingStage struct {
	name       string
	prepareErr error
	executeErr error
	calls      *[]string
	runIDs     *[]string
	logger     *slog.Logger
}

func (s *recordingStage) Name() string { return s.name }

func (s *recordingStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *recordingStage) Prepare(ctx context.Context) error {
	*s.calls = append(*s.calls, s.name+".prepare")
	return s.prepareErr
}

func (s *recordingStage) Execute(ctx context.Context) error {
	*s.calls = append(*s.calls, s.name+".execute")
	if id, ok := services.RunIDFromContext(ctx); ok {
		*s.runIDs = append(*s.runIDs, id)
	}
	if got, _ := services.StageFromContext(ctx); got != s.name {
		return errors.New("stage missing from context")
	}
	return s.executeErr
}

func (s *recordingStage) HealthCheck(context.Context) stage.Health { return stage.Healthy(s.name) }

func newStages(calls, ids *[]string, names ...string) []*recordingStage {
	out := make([]*recordingStage, 0, len(names))
	for _, name := range names {
		out = append(out, &recordingStage{name: name, calls: calls, runIDs: ids})
	}
	return out
}

func handlers(stages []*recordingStage) []stage.Handler {
	out := make([]stage.Handler, len(stages))
	for i, s := range stages {
		out[i] = s
	}
	return out
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	var calls, ids []string
	stages := newStages(&calls, &ids, "capture", "split")
	runner := pipeline.NewRunner(t.TempDir(), logging.NewNop(), handlers(stages)...)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"capture.prepare", "capture.execute", "split.prepare", "split.execute"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
	if summary.RunID == "" || len(ids) != 2 || ids[0] != summary.RunID || ids[1] != summary.RunID {
		t.Fatalf("run id not propagated: summary=%q stages=%v", summary.RunID, ids)
	}
	if len(summary.Stages) != 2 || summary.Stages[0].Name != "capture" || summary.Stages[1].Err != "" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	for _, s := range stages {
		if s.logger == nil {
			t.Fatalf("stage %s did not receive a logger", s.name)
		}
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	var calls, ids []string
	stages := newStages(&calls, &ids, "capture", "split", "publish")
	stages[1].prepareErr = services.Wrap(services.ErrNotFound, "split", "prepare", "missing", nil)
	runner := pipeline.NewRunner(t.TempDir(), nil, handlers(stages)...)

	summary, err := runner.Run(context.Background())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected stage error, got %v", err)
	}
	want := []string{"capture.prepare", "capture.execute", "split.prepare"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if len(summary.Stages) != 2 || summary.Stages[1].Err == "" {
		t.Fatalf("summary should record the failed stage: %+v", summary)
	}
}

func TestRunRefusesWhenLocked(t *testing.T) {
	dir := t.TempDir()
	var calls, ids []string
	runner := pipeline.NewRunner(dir, nil, handlers(newStages(&calls, &ids, "capture"))...)

	held := flock.New(runner.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	if _, err := runner.Run(context.Background()); !errors.Is(err, pipeline.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("no stage should run while locked, got %v", calls)
	}
}

func TestAcquireLockExcludesRunner(t *testing.T) {
	dir := t.TempDir()
	var calls, ids []string
	runner := pipeline.NewRunner(dir, nil, handlers(newStages(&calls, &ids, "split"))...)

	lock, err := pipeline.AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := runner.Run(context.Background()); !errors.Is(err, pipeline.ErrLocked) {
		t.Fatalf("expected ErrLocked while held, got %v", err)
	}
	if _, err := pipeline.AcquireLock(dir); !errors.Is(err, pipeline.ErrLocked) {
		t.Fatalf("second AcquireLock should fail, got %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run after unlock: %v", err)
	}
	if len(calls) == 0 {
		t.Fatal("expected stage to run once the lock was released")
	}
}

func TestRunReleasesLock(t *testing.T) {
	dir := t.TempDir()
	var calls, ids []string
	runner := pipeline.NewRunner(dir, nil, handlers(newStages(&calls, &ids, "capture"))...)

	for i := 0; i < 2; i++ {
		if _, err := runner.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}
