package capture_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playshot/internal/capture"
	"playshot/internal/logging"
	"playshot/internal/playlist"
	"playshot/internal/services"
	"playshot/internal/testsupport"
)

type fakeRenderer struct {
	t       *testing.T
	height  int
	urls    []string
	fail    map[string]error
	payload []byte
	closed  bool
}

func (f *fakeRenderer) Render(_ context.Context, pageURL string) ([]byte, error) {
	f.urls = append(f.urls, pageURL)
	for name, err := range f.fail {
		if strings.HasSuffix(pageURL, "/"+name+".html") {
			return nil, err
		}
	}
	if f.payload != nil {
		return f.payload, nil
	}
	return testsupport.EncodePNG(f.t, testsupport.Pattern(12, f.height)), nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

type staticSource []playlist.Entry

func (s staticSource) List(context.Context) ([]playlist.Entry, error) { return s, nil }

func factoryFor(r *fakeRenderer, starts *int) capture.RendererFactory {
	return func(context.Context) (capture.Renderer, error) {
		*starts++
		return r, nil
	}
}

func TestCaptureEntryWritesImage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteHTML(t, cfg.Paths.HTMLDir, "jazz", "<p>hi</p>")
	c := capture.NewCapturer(cfg, logging.NewNop())
	r := &fakeRenderer{t: t, height: 30}

	out, err := c.CaptureEntry(context.Background(), r, playlist.Entry{ID: "1", Name: "jazz", Enabled: true})
	if err != nil {
		t.Fatalf("CaptureEntry: %v", err)
	}
	if out != filepath.Join(cfg.Paths.ImageDir, "jazz_2.png") {
		t.Fatalf("unexpected output path %q", out)
	}
	img := testsupport.ReadPNG(t, out)
	if img.Bounds().Dy() != 30 {
		t.Fatalf("unexpected image height %d", img.Bounds().Dy())
	}
	if len(r.urls) != 1 || !strings.HasPrefix(r.urls[0], "file:///") || !strings.HasSuffix(r.urls[0], "/html/jazz.html") {
		t.Fatalf("unexpected url: %v", r.urls)
	}
}

func TestCaptureEntryMissingHTML(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	c := capture.NewCapturer(cfg, nil)
	r := &fakeRenderer{t: t, height: 10}

	_, err := c.CaptureEntry(context.Background(), r, playlist.Entry{ID: "1", Name: "ghost", Enabled: true})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(r.urls) != 0 {
		t.Fatal("renderer should not be called for a missing page")
	}
}

func TestCaptureEntryRejectsInvalidPNG(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteHTML(t, cfg.Paths.HTMLDir, "bad", "")
	c := capture.NewCapturer(cfg, nil)
	r := &fakeRenderer{t: t, payload: []byte("jpeg?")}

	_, err := c.CaptureEntry(context.Background(), r, playlist.Entry{ID: "1", Name: "bad", Enabled: true})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if _, statErr := os.Stat(c.ImagePath("bad")); !os.IsNotExist(statErr) {
		t.Fatalf("no image should be written, stat err=%v", statErr)
	}
}

func TestFileURLEscapesPath(t *testing.T) {
	dir := t.TempDir()
	got, err := capture.FileURL(filepath.Join(dir, "late night #1.html"))
	if err != nil {
		t.Fatalf("FileURL: %v", err)
	}
	if !strings.HasPrefix(got, "file:///") {
		t.Fatalf("expected file url, got %q", got)
	}
	if !strings.HasSuffix(got, "/late%20night%20%231.html") {
		t.Fatalf("expected escaped file name, got %q", got)
	}
}

func TestStageCapturesEnabledEntriesInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, name := range []string{"alpha", "beta", "gamma"} {
		testsupport.WriteHTML(t, cfg.Paths.HTMLDir, name, name)
	}
	source := staticSource{
		{ID: "1", Name: "alpha", Enabled: true},
		{ID: "2", Name: "beta", Enabled: false},
		{ID: "3", Name: "gamma", Enabled: true},
	}
	r := &fakeRenderer{t: t, height: 20}
	starts := 0
	st := capture.NewStage(source, capture.NewCapturer(cfg, nil), factoryFor(r, &starts), nil, logging.NewNop())

	ctx := context.Background()
	if err := st.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if starts != 1 {
		t.Fatalf("expected one browser session, got %d", starts)
	}
	if !r.closed {
		t.Fatal("expected renderer closed")
	}
	if len(r.urls) != 2 || !strings.HasSuffix(r.urls[0], "/alpha.html") || !strings.HasSuffix(r.urls[1], "/gamma.html") {
		t.Fatalf("unexpected render order: %v", r.urls)
	}
	if got := st.Captured(); len(got) != 2 {
		t.Fatalf("unexpected captured list: %v", got)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.ImageDir, "beta_2.png")); !os.IsNotExist(err) {
		t.Fatalf("disabled entry must not be captured, stat err=%v", err)
	}
}

func TestStageNoEnabledEntriesSkipsBrowser(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := staticSource{{ID: "1", Name: "off", Enabled: false}}
	starts := 0
	st := capture.NewStage(source, capture.NewCapturer(cfg, nil), factoryFor(&fakeRenderer{t: t}, &starts), nil, nil)

	ctx := context.Background()
	if err := st.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if starts != 0 {
		t.Fatal("browser should not start without work")
	}
}

func TestStageStopsOnFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, name := range []string{"a", "b", "c"} {
		testsupport.WriteHTML(t, cfg.Paths.HTMLDir, name, name)
	}
	source := staticSource{
		{ID: "1", Name: "a", Enabled: true},
		{ID: "2", Name: "b", Enabled: true},
		{ID: "3", Name: "c", Enabled: true},
	}
	boom := services.Wrap(services.ErrTimeout, "capture", "load page", "slow", nil)
	r := &fakeRenderer{t: t, height: 10, fail: map[string]error{"b": boom}}
	starts := 0
	st := capture.NewStage(source, capture.NewCapturer(cfg, nil), factoryFor(r, &starts), nil, nil)

	ctx := context.Background()
	if err := st.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	err := st.Execute(ctx)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if len(r.urls) != 2 {
		t.Fatalf("expected capture to stop after b, rendered %v", r.urls)
	}
	if !r.closed {
		t.Fatal("renderer must be closed after failure")
	}
}

func TestStageOnlyFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteHTML(t, cfg.Paths.HTMLDir, "b", "b")
	source := staticSource{
		{ID: "1", Name: "a", Enabled: true},
		{ID: "2", Name: "b", Enabled: true},
	}
	r := &fakeRenderer{t: t, height: 10}
	starts := 0
	st := capture.NewStage(source, capture.NewCapturer(cfg, nil), factoryFor(r, &starts), nil, nil)
	st.Only = []string{"b"}

	ctx := context.Background()
	if err := st.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(r.urls) != 1 || !strings.HasSuffix(r.urls[0], "/b.html") {
		t.Fatalf("unexpected renders: %v", r.urls)
	}

	st.Only = []string{"zzz"}
	if err := st.Prepare(ctx); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown name, got %v", err)
	}
}

func TestStageHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := capture.NewStage(staticSource{}, capture.NewCapturer(cfg, nil), nil, func() error {
		return errors.New("chrome not found")
	}, nil)

	h := st.HealthCheck(context.Background())
	if h.Ready || h.Detail != "chrome not found" {
		t.Fatalf("unexpected health: %+v", h)
	}
}
