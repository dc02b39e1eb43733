package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"playshot/internal/logging"
	"playshot/internal/playlist"
	"playshot/internal/services"
	"playshot/internal/stage"
)

// EntrySource lists playlist entries in name order.
type EntrySource interface {
	List(ctx context.Context) ([]playlist.Entry, error)
}

// Stage captures every enabled playlist entry.
type Stage struct {
	source      EntrySource
	capturer    *Capturer
	newRenderer RendererFactory
	probe       func() error
	logger      *slog.Logger

	// Only restricts the run to these names when non-empty.
	Only []string

	pending  []playlist.Entry
	captured []string
}

// NewStage wires a capture stage. probe, when non-nil, is consulted by
// HealthCheck to verify the browser is available.
func NewStage(source EntrySource, capturer *Capturer, factory RendererFactory, probe func() error, logger *slog.Logger) *Stage {
	st := &Stage{source: source, capturer: capturer, newRenderer: factory, probe: probe}
	st.SetLogger(logger)
	return st
}

func (s *Stage) Name() string { return "capture" }

// SetLogger implements stage.LoggerAware.
func (s *Stage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "capture")
	s.capturer.logger = logging.NewComponentLogger(logger, "capturer")
}

// Captured returns the image paths written by the last Execute.
func (s *Stage) Captured() []string {
	return s.captured
}

// Prepare loads the entries to capture and checks the output directory.
func (s *Stage) Prepare(ctx context.Context) error {
	if err := os.MkdirAll(s.capturer.ImageDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "capture", "prepare", "Cannot create image directory "+s.capturer.ImageDir, err)
	}
	entries, err := s.source.List(ctx)
	if err != nil {
		return services.Wrap(services.ErrTransient, "capture", "load playlists", "Failed to read playlist entries", err)
	}

	only := make(map[string]bool, len(s.Only))
	for _, name := range s.Only {
		only[name] = true
	}

	logger := logging.WithContext(ctx, s.logger)
	s.pending = s.pending[:0]
	s.captured = nil
	for _, e := range entries {
		switch {
		case len(only) > 0 && !only[e.Name]:
			continue
		case !e.Enabled:
			logger.Debug("playlist disabled; skipping", logging.String(logging.FieldPlaylist, e.Name))
			continue
		}
		s.pending = append(s.pending, e)
	}
	if len(only) > 0 && len(s.pending) == 0 {
		return services.Wrap(services.ErrNotFound, "capture", "select playlists",
			fmt.Sprintf("None of %v is an enabled playlist", s.Only), nil)
	}
	return nil
}

// Execute renders the pending entries in order and stops at the first error.
func (s *Stage) Execute(ctx context.Context) error {
	logger := logging.WithContext(ctx, s.logger)
	if len(s.pending) == 0 {
		logging.Warn(logger, "no enabled playlists; nothing to capture", logging.Event{
			Type:   "capture_empty",
			Hint:   "enable entries with: playshot playlist enable <id>",
			Impact: "no images produced this run",
		})
		return nil
	}

	renderer, err := s.newRenderer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			logger.Debug("renderer close failed", logging.Error(cerr))
		}
	}()

	logger.Info("capturing playlists", logging.Int("count", len(s.pending)))
	for _, entry := range s.pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		entryCtx := services.WithPlaylist(ctx, entry.Name)
		out, err := s.capturer.CaptureEntry(entryCtx, renderer, entry)
		if err != nil {
			return fmt.Errorf("playlist %q: %w", entry.Name, err)
		}
		s.captured = append(s.captured, out)
	}
	logger.Info("capture complete",
		logging.String(logging.FieldEventType, "capture_complete"),
		logging.Int("images", len(s.captured)),
	)
	return nil
}

func (s *Stage) HealthCheck(context.Context) stage.Health {
	info, err := os.Stat(s.capturer.HTMLDir)
	if err != nil {
		return stage.Unhealthy(s.Name(), fmt.Sprintf("html dir: %v", err))
	}
	if !info.IsDir() {
		return stage.Unhealthy(s.Name(), s.capturer.HTMLDir+" is not a directory")
	}
	if s.probe != nil {
		if err := s.probe(); err != nil {
			return stage.Unhealthy(s.Name(), err.Error())
		}
	}
	return stage.Healthy(s.Name())
}
