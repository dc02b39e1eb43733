package split

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"playshot/internal/logging"
	"playshot/internal/services"
	"playshot/internal/stage"
)

// Stage splits every captured image found in the image directory.
type Stage struct {
	splitter *Splitter
	imageDir string
	logger   *slog.Logger

	results []Result
}

// NewStage wires a split stage over imageDir.
func NewStage(splitter *Splitter, imageDir string, logger *slog.Logger) *Stage {
	st := &Stage{splitter: splitter, imageDir: imageDir}
	st.SetLogger(logger)
	return st
}

func (s *Stage) Name() string { return "split" }

// SetLogger implements stage.LoggerAware.
func (s *Stage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "split")
	s.splitter.SetLogger(logger)
}

// Results returns the per-image outcomes of the last Execute.
func (s *Stage) Results() []Result {
	return s.results
}

func (s *Stage) Prepare(context.Context) error {
	info, err := os.Stat(s.imageDir)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "split", "prepare", fmt.Sprintf("Image directory %s is missing", s.imageDir), err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrConfiguration, "split", "prepare", fmt.Sprintf("%s is not a directory", s.imageDir), nil)
	}
	s.results = nil
	return nil
}

func (s *Stage) Execute(ctx context.Context) error {
	paths, err := Discover(s.imageDir, s.splitter.Suffix)
	if err != nil {
		return err
	}
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("captured images discovered",
		logging.Int("count", len(paths)),
		logging.Int("threshold", s.splitter.Threshold),
	)

	results, err := s.splitter.SplitFiles(ctx, paths)
	s.results = results
	if err != nil {
		return err
	}

	split := 0
	for _, r := range results {
		if r.Split {
			split++
		}
	}
	logger.Info("split complete",
		logging.String(logging.FieldEventType, "split_complete"),
		logging.Int("images", len(results)),
		logging.Int("split", split),
	)
	return nil
}

func (s *Stage) HealthCheck(context.Context) stage.Health {
	info, err := os.Stat(s.imageDir)
	if err != nil {
		return stage.Unhealthy(s.Name(), fmt.Sprintf("image dir: %v", err))
	}
	if !info.IsDir() {
		return stage.Unhealthy(s.Name(), s.imageDir+" is not a directory")
	}
	if s.splitter.Threshold <= 0 {
		return stage.Unhealthy(s.Name(), "threshold must be positive")
	}
	return stage.Healthy(s.Name())
}
