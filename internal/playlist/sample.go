package playlist

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed sample.toml
var sampleFile []byte

// ErrSampleExists is returned by WriteSample when path is already taken.
var ErrSampleExists = errors.New("playlist file already exists")

// WriteSample writes an example playlist file in the format LoadFile reads.
// An existing file is never replaced.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create playlist file directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrSampleExists, path)
		}
		return fmt.Errorf("create playlist file: %w", err)
	}
	if _, err := f.Write(sampleFile); err != nil {
		f.Close()
		return fmt.Errorf("write playlist file: %w", err)
	}
	return f.Close()
}
