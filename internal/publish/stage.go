package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"playshot/internal/logging"
	"playshot/internal/services"
	"playshot/internal/split"
	"playshot/internal/stage"
)

// Uploader is the subset of Client the stage needs.
type Uploader interface {
	Bucket() string
	HeadBucket(ctx context.Context) error
	PutFile(ctx context.Context, key, path, contentType string) (int64, error)
}

// Upload records one published image.
type Upload struct {
	Path  string `json:"path"`
	Key   string `json:"key"`
	Bytes int64  `json:"bytes"`
}

// Stage uploads the final images of a run: unsplit captures and bands.
type Stage struct {
	uploader Uploader
	imageDir string
	suffix   string
	prefix   string
	timeout  time.Duration
	logger   *slog.Logger

	uploads []Upload
}

// NewStage wires a publish stage. timeout bounds each request to the bucket;
// zero means no limit.
func NewStage(uploader Uploader, imageDir, suffix, prefix string, timeout time.Duration, logger *slog.Logger) *Stage {
	st := &Stage{uploader: uploader, imageDir: imageDir, suffix: suffix, prefix: prefix, timeout: timeout}
	st.SetLogger(logger)
	return st
}

func (s *Stage) Name() string { return "publish" }

// SetLogger implements stage.LoggerAware.
func (s *Stage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "publish")
}

// Uploads returns what the last Execute uploaded.
func (s *Stage) Uploads() []Upload {
	return s.uploads
}

func (s *Stage) Prepare(ctx context.Context) error {
	s.uploads = nil
	ctx, cancel := s.requestContext(ctx)
	defer cancel()
	if err := s.uploader.HeadBucket(ctx); err != nil {
		return services.Wrap(services.ErrConfiguration, "publish", "check bucket",
			fmt.Sprintf("Bucket %q is not reachable", s.uploader.Bucket()), err)
	}
	return nil
}

func (s *Stage) Execute(ctx context.Context) error {
	logger := logging.WithContext(ctx, s.logger)

	paths, err := FinalImages(s.imageDir, s.suffix)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logging.Warn(logger, "no images to publish", logging.Event{
			Type:   "publish_empty",
			Hint:   "run capture first or check paths.image_dir",
			Impact: "bucket left unchanged",
		})
		return nil
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := s.prefix + filepath.Base(path)
		n, err := s.put(ctx, key, path)
		if err != nil {
			return err
		}
		s.uploads = append(s.uploads, Upload{Path: path, Key: key, Bytes: n})
		logger.Debug("image uploaded", logging.String("key", key), logging.Int64("bytes", n))
	}

	logger.Info("publish complete",
		logging.String(logging.FieldEventType, "publish_complete"),
		logging.String("bucket", s.uploader.Bucket()),
		logging.Int("objects", len(s.uploads)),
	)
	return nil
}

func (s *Stage) put(ctx context.Context, key, path string) (int64, error) {
	reqCtx, cancel := s.requestContext(ctx)
	defer cancel()
	n, err := s.uploader.PutFile(reqCtx, key, path, "image/png")
	if err == nil {
		return n, nil
	}
	if ctx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return 0, services.Wrap(services.ErrTimeout, "publish", "upload",
			fmt.Sprintf("Upload of %s exceeded %s", key, s.timeout), err)
	}
	return 0, services.Wrap(services.ErrExternalTool, "publish", "upload", "Failed to upload "+key, err)
}

func (s *Stage) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	ctx, cancel := s.requestContext(ctx)
	defer cancel()
	if err := s.uploader.HeadBucket(ctx); err != nil {
		return stage.Unhealthy(s.Name(), err.Error())
	}
	return stage.Healthy(s.Name())
}

// FinalImages lists unsplit captures and bands in dir, sorted by name.
func FinalImages(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "publish", "scan images", "Cannot read "+dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if name := e.Name(); split.IsCapture(name, suffix) || split.IsBand(name, suffix) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}
