package split_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"playshot/internal/logging"
	"playshot/internal/split"
	"playshot/internal/testsupport"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

func TestStageSplitsEveryCapture(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithThreshold(50))
	s := newSplitter(t, cfg)
	st := split.NewStage(s, cfg.Paths.ImageDir, logging.NewNop())

	dir := cfg.Paths.ImageDir
	testsupport.WritePNG(t, filepath.Join(dir, "long_2.png"), 4, 120)
	testsupport.WritePNG(t, filepath.Join(dir, "short_2.png"), 4, 20)
	// Leftover band from an earlier run must not be split again.
	testsupport.WritePNG(t, filepath.Join(dir, "old_20.png"), 4, 120)

	ctx := context.Background()
	if h := st.HealthCheck(ctx); !h.Ready {
		t.Fatalf("expected healthy stage: %+v", h)
	}
	if err := st.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	results := st.Results()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}

	for _, name := range []string{"long_20.png", "long_21.png", "long_22.png", "short_2.png", "old_20.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "long_2.png")); !os.IsNotExist(err) {
		t.Fatalf("expected long_2.png removed, stat err=%v", err)
	}
}

func TestStageStopsOnFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithThreshold(50))
	s := newSplitter(t, cfg)
	st := split.NewStage(s, cfg.Paths.ImageDir, logging.NewNop())

	dir := cfg.Paths.ImageDir
	if err := os.WriteFile(filepath.Join(dir, "a_2.png"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	testsupport.WritePNG(t, filepath.Join(dir, "b_2.png"), 4, 120)

	ctx := context.Background()
	if err := st.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx); err == nil {
		t.Fatal("expected failure for undecodable capture")
	}
	if _, err := os.Stat(filepath.Join(dir, "b_2.png")); err != nil {
		t.Fatalf("later capture should be untouched after failure: %v", err)
	}
}

func TestStagePrepareMissingDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := newSplitter(t, cfg)
	missing := filepath.Join(testsupport.BaseDir(cfg), "nope")
	st := split.NewStage(s, missing, nil)

	if err := st.Prepare(context.Background()); err == nil {
		t.Fatal("expected error for missing image dir")
	}
	if h := st.HealthCheck(context.Background()); h.Ready {
		t.Fatal("expected unhealthy stage")
	}
}
