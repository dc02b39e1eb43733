package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"playshot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// Waits are zeroed so stages run instantly; the html and image directories
// are created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.HTMLDir = filepath.Join(base, "html")
	cfgVal.Paths.ImageDir = filepath.Join(base, "images")
	cfgVal.Paths.PlaylistDB = filepath.Join(base, "playlists.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Capture.SettleSeconds = 0

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{cfgVal.Paths.HTMLDir, cfgVal.Paths.ImageDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithThreshold overrides the split threshold.
func WithThreshold(threshold int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Split.Threshold = threshold
	}
}

// WithRemainder overrides the split remainder policy.
func WithRemainder(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Split.Remainder = policy
	}
}

// WithPublish enables the publish stage against the given bucket and endpoint.
func WithPublish(bucket, endpoint string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Publish.Enabled = true
		b.cfg.Publish.Bucket = bucket
		b.cfg.Publish.Endpoint = endpoint
		b.cfg.Publish.UsePathStyle = true
		b.cfg.Publish.AccessKeyID = "test"
		b.cfg.Publish.SecretAccessKey = "test"
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH for the duration of the test.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"chromium"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ImageDir)
}
