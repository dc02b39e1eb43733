package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCapture(); err != nil {
		return err
	}
	c.normalizeSplit()
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.HTMLDir) == "" {
		c.Paths.HTMLDir = defaultHTMLDir
	}
	if c.Paths.HTMLDir, err = expandPath(c.Paths.HTMLDir); err != nil {
		return fmt.Errorf("paths.html_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ImageDir) == "" {
		c.Paths.ImageDir = defaultImageDir
	}
	if c.Paths.ImageDir, err = expandPath(c.Paths.ImageDir); err != nil {
		return fmt.Errorf("paths.image_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PlaylistDB) == "" {
		c.Paths.PlaylistDB = defaultPlaylistDB
	}
	if c.Paths.PlaylistDB, err = expandPath(c.Paths.PlaylistDB); err != nil {
		return fmt.Errorf("paths.playlist_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCapture() error {
	c.Capture.ChromePath = strings.TrimSpace(c.Capture.ChromePath)
	if c.Capture.ChromePath == "" {
		if value, ok := os.LookupEnv("PLAYSHOT_CHROME_PATH"); ok {
			c.Capture.ChromePath = strings.TrimSpace(value)
		}
	}
	// Bare command names are resolved against PATH later.
	if strings.HasPrefix(c.Capture.ChromePath, "~") || strings.ContainsRune(c.Capture.ChromePath, '/') {
		expanded, err := expandPath(c.Capture.ChromePath)
		if err != nil {
			return fmt.Errorf("capture.chrome_path: %w", err)
		}
		c.Capture.ChromePath = expanded
	}
	if c.Capture.Suffix == "" {
		c.Capture.Suffix = defaultCaptureSuffix
	}
	return nil
}

func (c *Config) normalizeSplit() {
	c.Split.Remainder = strings.ToLower(strings.TrimSpace(c.Split.Remainder))
	if c.Split.Remainder == "" {
		c.Split.Remainder = defaultSplitRemainder
	}
	c.Split.Compression = strings.ToLower(strings.TrimSpace(c.Split.Compression))
	if c.Split.Compression == "" {
		c.Split.Compression = defaultSplitCompression
	}
}

func (c *Config) normalizePublish() {
	c.Publish.Bucket = strings.TrimSpace(c.Publish.Bucket)
	c.Publish.Endpoint = strings.TrimRight(strings.TrimSpace(c.Publish.Endpoint), "/")
	c.Publish.Prefix = strings.TrimLeft(strings.TrimSpace(c.Publish.Prefix), "/")
	c.Publish.Region = strings.TrimSpace(c.Publish.Region)
	if c.Publish.Region == "" {
		c.Publish.Region = defaultPublishRegion
	}
	c.Publish.AccessKeyID = strings.TrimSpace(c.Publish.AccessKeyID)
	if c.Publish.AccessKeyID == "" {
		if value, ok := os.LookupEnv("PLAYSHOT_S3_ACCESS_KEY_ID"); ok {
			c.Publish.AccessKeyID = strings.TrimSpace(value)
		}
	}
	c.Publish.SecretAccessKey = strings.TrimSpace(c.Publish.SecretAccessKey)
	if c.Publish.SecretAccessKey == "" {
		if value, ok := os.LookupEnv("PLAYSHOT_S3_SECRET_ACCESS_KEY"); ok {
			c.Publish.SecretAccessKey = strings.TrimSpace(value)
		}
	}
	if c.Publish.TimeoutSeconds <= 0 {
		c.Publish.TimeoutSeconds = defaultPublishTimeoutSecond
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
