package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"net/url"
	"path/filepath"

	"playshot/internal/config"
	"playshot/internal/fileutil"
	"playshot/internal/logging"
	"playshot/internal/playlist"
	"playshot/internal/services"
)

// Capturer renders playlist pages from the HTML directory into the image
// directory.
type Capturer struct {
	HTMLDir  string
	ImageDir string
	Suffix   string
	logger   *slog.Logger
}

// NewCapturer reads directories and the image suffix from cfg.
func NewCapturer(cfg *config.Config, logger *slog.Logger) *Capturer {
	return &Capturer{
		HTMLDir:  cfg.Paths.HTMLDir,
		ImageDir: cfg.Paths.ImageDir,
		Suffix:   cfg.Capture.Suffix,
		logger:   logging.NewComponentLogger(logger, "capturer"),
	}
}

// HTMLPath returns the page rendered for entry name.
func (c *Capturer) HTMLPath(name string) string {
	return filepath.Join(c.HTMLDir, name+".html")
}

// ImagePath returns where the screenshot for entry name is written.
func (c *Capturer) ImagePath(name string) string {
	return filepath.Join(c.ImageDir, name+c.Suffix+".png")
}

// CaptureEntry renders one entry with r and writes the PNG atomically. It
// returns the image path.
func (c *Capturer) CaptureEntry(ctx context.Context, r Renderer, entry playlist.Entry) (string, error) {
	htmlPath := c.HTMLPath(entry.Name)
	if !fileutil.FileExists(htmlPath) {
		return "", services.Wrap(services.ErrNotFound, "capture", "resolve page",
			fmt.Sprintf("No HTML page for playlist %q at %s", entry.Name, htmlPath), nil)
	}
	pageURL, err := FileURL(htmlPath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "capture", "build url", htmlPath, err)
	}

	data, err := r.Render(ctx, pageURL)
	if err != nil {
		return "", err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "capture", "validate screenshot",
			fmt.Sprintf("Renderer returned invalid PNG for %q", entry.Name), err)
	}

	out := c.ImagePath(entry.Name)
	if err := fileutil.WriteFileAtomic(out, data, 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "capture", "write image", "Failed to write "+out, err)
	}

	logging.WithContext(ctx, c.logger).Info("page captured",
		logging.String(logging.FieldEventType, "page_captured"),
		logging.String("image", filepath.Base(out)),
		logging.Int("width", cfg.Width),
		logging.Int("height", cfg.Height),
	)
	return out, nil
}

// FileURL converts a local path into an absolute file:// URL.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
