package preflight

import (
	"context"

	"playshot/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// The bucket check only runs when publishing is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("HTML directory", cfg.Paths.HTMLDir),
		CheckDirectoryAccess("Image directory", cfg.Paths.ImageDir),
		CheckChrome(cfg.Capture.ChromePath),
		CheckPlaylistStore(ctx, cfg.Paths.PlaylistDB),
	}

	if cfg.Publish.Enabled {
		results = append(results, CheckBucket(ctx, cfg))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
