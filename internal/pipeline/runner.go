package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"playshot/internal/logging"
	"playshot/internal/services"
	"playshot/internal/stage"
)

// LockFileName is created in the image directory while a run holds it.
const LockFileName = ".playshot.lock"

// ErrLocked is returned when another run already holds the image directory.
var ErrLocked = errors.New("another playshot run holds the image directory lock")

// StageResult records how one stage finished.
type StageResult struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Err      string        `json:"error,omitempty"`
}

// Summary describes a finished run.
type Summary struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Stages   []StageResult `json:"stages"`
}

// Runner executes stages in order against one image directory.
type Runner struct {
	lockPath string
	stages   []stage.Handler
	logger   *slog.Logger
}

// NewRunner wires a runner whose lock lives in imageDir.
func NewRunner(imageDir string, logger *slog.Logger, stages ...stage.Handler) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		lockPath: filepath.Join(imageDir, LockFileName),
		stages:   stages,
		logger:   logger,
	}
}

// AcquireLock takes the lock on imageDir without waiting, for work that
// touches the directory outside a Runner. The caller must Unlock it.
func AcquireLock(imageDir string) (*flock.Flock, error) {
	return lockAt(filepath.Join(imageDir, LockFileName))
}

func lockAt(path string) (*flock.Flock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return lock, nil
}

// LockPath returns the lock file location.
func (r *Runner) LockPath() string {
	return r.lockPath
}

// Run acquires the image directory lock, then prepares and executes each
// stage in turn. The first failure stops the run and is returned along with
// the summary so far.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	lock, err := lockAt(r.lockPath)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err), logging.String("lock", r.lockPath))
		}
	}()

	summary := Summary{RunID: uuid.NewString(), Started: time.Now().UTC()}
	runCtx := services.WithRunID(ctx, summary.RunID)
	runLogger := logging.WithContext(runCtx, r.logger)
	runLogger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("stages", len(r.stages)),
	)

	for _, handler := range r.stages {
		result, err := r.runStage(runCtx, handler)
		summary.Stages = append(summary.Stages, result)
		if err != nil {
			summary.Duration = time.Since(summary.Started)
			return summary, err
		}
	}

	summary.Duration = time.Since(summary.Started)
	runLogger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Duration("run_duration", summary.Duration),
	)
	return summary, nil
}

func (r *Runner) runStage(ctx context.Context, handler stage.Handler) (StageResult, error) {
	name := handler.Name()
	stageCtx := services.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, r.logger)
	if aware, ok := handler.(stage.LoggerAware); ok {
		aware.SetLogger(r.logger)
	}

	start := time.Now()
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	err := handler.Prepare(stageCtx)
	if err == nil {
		err = handler.Execute(stageCtx)
	}
	result := StageResult{Name: name, Duration: time.Since(start)}
	if err != nil {
		result.Err = err.Error()
		if errors.Is(err, context.Canceled) {
			stageLogger.Debug("stage interrupted", logging.Duration("stage_duration", result.Duration))
			return result, err
		}
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.ErrorKind(err),
			logging.Duration("stage_duration", result.Duration),
			logging.Error(err),
		)
		return result, err
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("stage_duration", result.Duration),
	)
	return result, nil
}
