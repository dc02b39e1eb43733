package testsupport

import (
	"context"
	"testing"

	"playshot/internal/config"
	"playshot/internal/playlist"
)

// MustOpenPlaylists opens the playlist store configured in cfg and registers
// cleanup.
func MustOpenPlaylists(t testing.TB, cfg *config.Config) *playlist.Store {
	t.Helper()

	store, err := playlist.Open(cfg.Paths.PlaylistDB)
	if err != nil {
		t.Fatalf("playlist.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedPlaylists upserts the given entries.
func SeedPlaylists(t testing.TB, store *playlist.Store, entries ...playlist.Entry) {
	t.Helper()
	if _, err := store.Import(context.Background(), entries); err != nil {
		t.Fatalf("seed playlists: %v", err)
	}
}
