package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.HTMLDir == c.Paths.ImageDir {
		return errors.New("paths.html_dir and paths.image_dir must differ")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if err := ensurePositiveMap(map[string]int{
		"capture.initial_width":        c.Capture.InitialWidth,
		"capture.initial_height":       c.Capture.InitialHeight,
		"capture.load_timeout_seconds": c.Capture.LoadTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Capture.Padding < 0 {
		return errors.New("capture.padding must be >= 0")
	}
	if c.Capture.SettleSeconds < 0 {
		return errors.New("capture.settle_seconds must be >= 0")
	}
	if strings.ContainsAny(c.Capture.Suffix, `/\*?[`) {
		return fmt.Errorf("capture.suffix %q must not contain path separators or glob characters", c.Capture.Suffix)
	}
	return nil
}

func (c *Config) validateSplit() error {
	if c.Split.Threshold <= 0 {
		return errors.New("split.threshold must be positive")
	}
	switch c.Split.Remainder {
	case RemainderLast, RemainderDrop:
	default:
		return fmt.Errorf("split.remainder must be %q or %q, got %q", RemainderLast, RemainderDrop, c.Split.Remainder)
	}
	switch c.Split.Compression {
	case "default", "none", "speed", "best":
	default:
		return fmt.Errorf("split.compression must be one of default, none, speed, best; got %q", c.Split.Compression)
	}
	return nil
}

func (c *Config) validatePublish() error {
	if !c.Publish.Enabled {
		return nil
	}
	if c.Publish.Bucket == "" {
		return errors.New("publish.bucket must be set when publish.enabled is true")
	}
	if (c.Publish.AccessKeyID == "") != (c.Publish.SecretAccessKey == "") {
		return errors.New("publish.access_key_id and publish.secret_access_key must be set together (or set PLAYSHOT_S3_ACCESS_KEY_ID and PLAYSHOT_S3_SECRET_ACCESS_KEY)")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
