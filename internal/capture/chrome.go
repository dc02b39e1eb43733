package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"playshot/internal/config"
	"playshot/internal/logging"
	"playshot/internal/services"
)

// ChromeOptions controls the headless browser session.
type ChromeOptions struct {
	ExecPath       string
	Headless       bool
	HideScrollbars bool
	InitialWidth   int
	InitialHeight  int
	Padding        int
	LoadTimeout    time.Duration
	Settle         time.Duration
}

// ChromeOptionsFromConfig maps the [capture] section onto ChromeOptions.
func ChromeOptionsFromConfig(cfg *config.Config) ChromeOptions {
	return ChromeOptions{
		ExecPath:       cfg.Capture.ChromePath,
		Headless:       cfg.Capture.Headless,
		HideScrollbars: cfg.Capture.HideScrollbars,
		InitialWidth:   cfg.Capture.InitialWidth,
		InitialHeight:  cfg.Capture.InitialHeight,
		Padding:        cfg.Capture.Padding,
		LoadTimeout:    cfg.LoadTimeout(),
		Settle:         cfg.SettleDelay(),
	}
}

// ChromeRenderer drives one Chrome tab through chromedp and reuses it for
// every page.
type ChromeRenderer struct {
	opts        ChromeOptions
	logger      *slog.Logger
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// NewChromeRenderer launches the browser. The session lives until Close,
// independent of ctx.
func NewChromeRenderer(ctx context.Context, opts ChromeOptions, logger *slog.Logger) (*ChromeRenderer, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("hide-scrollbars", opts.HideScrollbars),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.WindowSize(opts.InitialWidth, opts.InitialHeight),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	logger = logging.NewComponentLogger(logger, "chrome")
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	// An empty Run starts the browser under tabCtx rather than under a
	// per-page timeout context.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, services.Wrap(services.ErrExternalTool, "capture", "start chrome",
			"Chrome failed to start; check capture.chrome_path", err)
	}
	logger.Debug("chrome started", logging.Bool("headless", opts.Headless))

	return &ChromeRenderer{
		opts:        opts,
		logger:      logger,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}, nil
}

// Render loads pageURL at the initial viewport, waits for the body and the
// settle delay, grows the viewport to the page's scroll size plus padding and
// returns a PNG screenshot.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) ([]byte, error) {
	runCtx, cancel := context.WithCancel(r.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	loadCtx, cancelLoad := context.WithTimeout(runCtx, r.opts.LoadTimeout)
	err := chromedp.Run(loadCtx,
		emulation.SetDeviceMetricsOverride(int64(r.opts.InitialWidth), int64(r.opts.InitialHeight), 1, false),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	cancelLoad()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "capture", "load page",
				fmt.Sprintf("Page did not become ready within %s", r.opts.LoadTimeout), err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "capture", "load page", "Chrome could not load "+pageURL, err)
	}

	var width, height int64
	var buf []byte
	err = chromedp.Run(runCtx,
		chromedp.Sleep(r.opts.Settle),
		chromedp.Evaluate(`document.body.scrollWidth`, &width),
		chromedp.Evaluate(`document.body.scrollHeight`, &height),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if width <= 0 || height <= 0 {
				return services.Wrap(services.ErrValidation, "capture", "measure page",
					fmt.Sprintf("Page body has zero size (%dx%d)", width, height), nil)
			}
			pad := int64(r.opts.Padding)
			return emulation.SetDeviceMetricsOverride(width+pad, height+pad, 1, false).Do(ctx)
		}),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, services.ErrValidation) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrExternalTool, "capture", "screenshot", "Chrome failed to capture "+pageURL, err)
	}

	r.logger.Debug("page rendered",
		logging.String("url", pageURL),
		logging.Int64("scroll_width", width),
		logging.Int64("scroll_height", height),
		logging.Int("bytes", len(buf)),
	)
	return buf, nil
}

// Close shuts the browser down.
func (r *ChromeRenderer) Close() error {
	if r == nil || r.tabCancel == nil {
		return nil
	}
	err := chromedp.Cancel(r.tabCtx)
	r.tabCancel()
	r.allocCancel()
	r.tabCancel = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close chrome: %w", err)
	}
	return nil
}

// ChromeFactory returns a RendererFactory that launches Chrome with opts.
func ChromeFactory(opts ChromeOptions, logger *slog.Logger) RendererFactory {
	return func(ctx context.Context) (Renderer, error) {
		return NewChromeRenderer(ctx, opts, logger)
	}
}
