package split

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"playshot/internal/config"
	"playshot/internal/fileutil"
	"playshot/internal/logging"
	"playshot/internal/services"
)

// Result describes what SplitFile did (or, from Inspect, would do) with one
// captured image.
type Result struct {
	Source  string   `json:"source"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Split   bool     `json:"split"`
	Bands   []Band   `json:"bands,omitempty"`
	Outputs []string `json:"outputs,omitempty"`
	Dropped int      `json:"dropped_rows"`
}

// Splitter cuts tall PNG images into bands.
type Splitter struct {
	Threshold   int
	Policy      Policy
	Suffix      string
	Compression png.CompressionLevel
	logger      *slog.Logger
}

// New builds a Splitter from the [split] and [capture] configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Splitter, error) {
	policy, err := ParsePolicy(cfg.Split.Remainder)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "split", "parse policy", "Invalid split.remainder", err)
	}
	level, err := ParseCompression(cfg.Split.Compression)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "split", "parse compression", "Invalid split.compression", err)
	}
	return &Splitter{
		Threshold:   cfg.Split.Threshold,
		Policy:      policy,
		Suffix:      cfg.Capture.Suffix,
		Compression: level,
		logger:      logging.NewComponentLogger(logger, "splitter"),
	}, nil
}

// ParseCompression maps a configuration value to a PNG compression level.
func ParseCompression(value string) (png.CompressionLevel, error) {
	switch value {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", value)
	}
}

// SetLogger replaces the splitter logger.
func (s *Splitter) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "splitter")
}

// Inspect reads only the PNG header of path and reports the band plan
// without touching the file.
func (s *Splitter) Inspect(path string) (Result, error) {
	f, err := openImage(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "split", "decode header", fmt.Sprintf("%s is not a valid PNG", path), err)
	}
	return s.result(path, cfg.Width, cfg.Height), nil
}

// SplitFile decodes the PNG at path and, when it is taller than the
// threshold, writes each band next to it and removes the original. Images
// at or below the threshold are left untouched. Bands from an earlier split
// of the same capture are removed first in both cases.
func (s *Splitter) SplitFile(ctx context.Context, path string) (Result, error) {
	img, err := decodeImage(path)
	if err != nil {
		return Result{}, err
	}
	bounds := img.Bounds()
	res := s.result(path, bounds.Dx(), bounds.Dy())
	logger := logging.WithContext(ctx, s.logger)

	if err := s.removeStaleBands(logger, path); err != nil {
		return res, err
	}

	if !res.Split {
		logger.Debug("image within threshold; left unsplit",
			logging.String("path", path),
			logging.Int("height", res.Height),
			logging.Int("threshold", s.Threshold),
		)
		return res, nil
	}

	enc := png.Encoder{CompressionLevel: s.Compression}
	for _, band := range res.Bands {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		out := BandPath(path, s.Suffix, band.Index)
		sub := crop(img, band)
		if err := fileutil.WriteAtomic(out, 0o644, func(w io.Writer) error {
			return enc.Encode(w, sub)
		}); err != nil {
			return res, services.Wrap(services.ErrTransient, "split", "write band", fmt.Sprintf("Failed to write %s", out), err)
		}
		res.Outputs = append(res.Outputs, out)
		logger.Debug("band written",
			logging.String("path", out),
			logging.Int("index", band.Index),
			logging.Int("top", band.Top),
			logging.Int("rows", band.Height()),
		)
	}

	if err := os.Remove(path); err != nil {
		return res, services.Wrap(services.ErrTransient, "split", "remove original", fmt.Sprintf("Bands written but %s could not be removed", path), err)
	}

	if res.Dropped > 0 {
		logging.Warn(logger, "trailing rows dropped by remainder policy", logging.Event{
			Type:   "split_rows_dropped",
			Hint:   `set split.remainder = "last" to keep every row`,
			Impact: "bottom of the page is missing from the bands",
		}, logging.File("path", path), logging.Int("dropped_rows", res.Dropped))
	}
	logger.Info("image split",
		logging.String(logging.FieldEventType, "image_split"),
		logging.String("path", filepath.Base(path)),
		logging.Int("height", res.Height),
		logging.Int("bands", len(res.Bands)),
	)
	return res, nil
}

// SplitFiles runs SplitFile over paths in order and stops at the first
// failure.
func (s *Splitter) SplitFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		res, err := s.SplitFile(ctx, path)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// removeStaleBands deletes bands an earlier split of the same capture left
// behind, so the directory only ever holds bands of the current image.
func (s *Splitter) removeStaleBands(logger *slog.Logger, path string) error {
	stale, err := BandsOf(path, s.Suffix)
	if err != nil {
		return err
	}
	for _, band := range stale {
		if err := os.Remove(band); err != nil && !errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrTransient, "split", "remove stale band", fmt.Sprintf("Cannot remove %s", band), err)
		}
	}
	if len(stale) > 0 {
		logger.Debug("stale bands removed",
			logging.File("path", path),
			logging.Int("bands", len(stale)),
		)
	}
	return nil
}

func (s *Splitter) result(path string, width, height int) Result {
	bands := Plan(height, s.Threshold, s.Policy)
	return Result{
		Source:  path,
		Width:   width,
		Height:  height,
		Split:   len(bands) > 0,
		Bands:   bands,
		Dropped: Dropped(height, bands),
	}
}

func openImage(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "split", "open image", fmt.Sprintf("%s not found", path), err)
		}
		return nil, services.Wrap(services.ErrTransient, "split", "open image", fmt.Sprintf("Cannot open %s", path), err)
	}
	return f, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := openImage(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "split", "decode image", fmt.Sprintf("%s is not a valid PNG", path), err)
	}
	return img, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// crop returns the full-width rows of band. Decoded PNGs share pixels with
// the source through SubImage; other image types are copied.
func crop(img image.Image, band Band) image.Image {
	b := img.Bounds()
	rect := image.Rect(b.Min.X, b.Min.Y+band.Top, b.Max.X, b.Min.Y+band.Bottom)
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return dst
}

func readDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "split", "scan images", fmt.Sprintf("Image directory %s not found", dir), err)
		}
		return nil, services.Wrap(services.ErrTransient, "split", "scan images", fmt.Sprintf("Cannot read %s", dir), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
