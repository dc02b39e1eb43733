package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"playshot/internal/config"
	"playshot/internal/deps"
	"playshot/internal/playlist"
	"playshot/internal/publish"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckChrome verifies a headless browser binary can be found.
func CheckChrome(configured string) Result {
	status := deps.ResolveChrome(configured)
	if !status.Available {
		return Result{Name: status.Name, Detail: status.Detail}
	}
	return Result{Name: status.Name, Passed: true, Detail: status.Command}
}

// CheckPlaylistStore opens the playlist database, applying migrations, and
// reports how many playlists are enabled.
func CheckPlaylistStore(ctx context.Context, path string) Result {
	const name = "Playlist database"

	store, err := playlist.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	entries, err := store.Enabled(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(entries) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (no enabled playlists)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d enabled)", path, len(entries))}
}

// CheckBucket verifies the publish bucket is reachable with the configured
// credentials. It uses the publish timeout and a single attempt.
func CheckBucket(ctx context.Context, cfg *config.Config) Result {
	name := "Bucket " + cfg.Publish.Bucket

	checkCtx, cancel := context.WithTimeout(ctx, cfg.PublishTimeout())
	defer cancel()

	client, err := publish.NewClient(checkCtx, cfg.Publish)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := client.HeadBucket(checkCtx); err != nil {
		if checkCtx.Err() != nil {
			return Result{Name: name, Detail: "bucket check timed out (endpoint unresponsive)"}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "reachable"}
}
