package playlist

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"playshot/internal/services"
)

type fileDocument struct {
	Playlists []fileEntry `toml:"playlist"`
}

type fileEntry struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Enabled    *bool  `toml:"enabled"`
	ScreenName string `toml:"screen_name"`
	Hashtag    string `toml:"hashtag"`
}

// LoadFile parses a TOML playlist file made of [[playlist]] tables. Entries
// without an explicit enabled flag are enabled. Duplicate ids or names are
// rejected.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "playlist", "load file", fmt.Sprintf("Playlist file %s not found", path), err)
		}
		return nil, fmt.Errorf("read playlist file: %w", err)
	}

	var doc fileDocument
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "playlist", "parse file", fmt.Sprintf("Invalid playlist file %s", path), err)
	}

	entries := make([]Entry, 0, len(doc.Playlists))
	ids := make(map[string]struct{}, len(doc.Playlists))
	names := make(map[string]struct{}, len(doc.Playlists))
	for i, raw := range doc.Playlists {
		enabled := true
		if raw.Enabled != nil {
			enabled = *raw.Enabled
		}
		entry, err := normalizeEntry(Entry{
			ID:         raw.ID,
			Name:       raw.Name,
			Enabled:    enabled,
			ScreenName: raw.ScreenName,
			Hashtag:    raw.Hashtag,
		})
		if err != nil {
			return nil, fmt.Errorf("playlist #%d: %w", i+1, err)
		}
		if _, dup := ids[entry.ID]; dup {
			return nil, services.Wrap(services.ErrValidation, "playlist", "load file", fmt.Sprintf("Duplicate playlist id %q", entry.ID), nil)
		}
		if _, dup := names[entry.Name]; dup {
			return nil, services.Wrap(services.ErrValidation, "playlist", "load file", fmt.Sprintf("Duplicate playlist name %q", entry.Name), nil)
		}
		ids[entry.ID] = struct{}{}
		names[entry.Name] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, nil
}
