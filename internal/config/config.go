package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input, output, and state locations.
type Paths struct {
	HTMLDir    string `toml:"html_dir"`
	ImageDir   string `toml:"image_dir"`
	PlaylistDB string `toml:"playlist_db"`
	LogDir     string `toml:"log_dir"`
}

// Capture contains headless browser settings for the capture stage.
type Capture struct {
	// ChromePath overrides browser discovery. Empty means search PATH.
	ChromePath     string `toml:"chrome_path"`
	Headless       bool   `toml:"headless"`
	HideScrollbars bool   `toml:"hide_scrollbars"`
	// InitialWidth and InitialHeight size the viewport before the page is measured.
	InitialWidth  int `toml:"initial_width"`
	InitialHeight int `toml:"initial_height"`
	// Padding is added to the measured scroll width and height.
	Padding            int `toml:"padding"`
	LoadTimeoutSeconds int `toml:"load_timeout_seconds"`
	SettleSeconds      int `toml:"settle_seconds"`
	// Suffix is appended to the playlist name for the captured file (name + suffix + ".png").
	Suffix string `toml:"suffix"`
}

// Split contains configuration for slicing tall screenshots.
type Split struct {
	Threshold int `toml:"threshold"`
	// Remainder selects what happens to the H mod n leftover rows: "last" or "drop".
	Remainder   string `toml:"remainder"`
	Compression string `toml:"compression"`
}

// Publish contains configuration for uploading final images to S3-compatible storage.
type Publish struct {
	Enabled         bool   `toml:"enabled"`
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	Endpoint        string `toml:"endpoint"`
	Region          string `toml:"region"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	UsePathStyle    bool   `toml:"use_path_style"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for playshot.
//
// Configuration sections by subsystem:
//   - Paths: HTML input, image output, playlist database, logs
//   - Capture: headless Chrome viewport and timing
//   - Split: band threshold and remainder policy
//   - Publish: optional S3 upload of final images
//   - Logging: log format, level, and retention
type Config struct {
	Paths   Paths   `toml:"paths"`
	Capture Capture `toml:"capture"`
	Split   Split   `toml:"split"`
	Publish Publish `toml:"publish"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/playshot/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/playshot/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("playshot.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories. The HTML
// directory is input and is never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ImageDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.PlaylistDB); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create playlist database directory %q: %w", dir, err)
		}
	}
	return nil
}

// LoadTimeout returns the page load wait as a duration.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.Capture.LoadTimeoutSeconds) * time.Second
}

// SettleDelay returns the fixed post-load sleep as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Capture.SettleSeconds) * time.Second
}

// PublishTimeout returns the per-upload timeout as a duration.
func (c *Config) PublishTimeout() time.Duration {
	return time.Duration(c.Publish.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
