package playlist

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"playshot/internal/services"
)

// NormalizeName trims and NFC-normalizes a playlist name and verifies it can
// be used as a file name stem. Composed and decomposed spellings of the same
// name therefore map to the same HTML and PNG files.
func NormalizeName(name string) (string, error) {
	cleaned := norm.NFC.String(strings.TrimSpace(name))
	switch {
	case cleaned == "":
		return "", invalidName(name, "name is empty")
	case cleaned == "." || cleaned == "..":
		return "", invalidName(name, "name is a relative path element")
	case strings.ContainsAny(cleaned, "/\\"):
		return "", invalidName(name, "name contains a path separator")
	case strings.ContainsRune(cleaned, 0):
		return "", invalidName(name, "name contains a NUL byte")
	}
	return cleaned, nil
}

// NormalizeID trims an entry identifier and rejects empty values.
func NormalizeID(id string) (string, error) {
	cleaned := strings.TrimSpace(id)
	if cleaned == "" {
		return "", services.Wrap(services.ErrValidation, "playlist", "normalize id", "Playlist id is empty", nil)
	}
	return cleaned, nil
}

func invalidName(name, reason string) error {
	return services.Wrap(services.ErrValidation, "playlist", "normalize name",
		fmt.Sprintf("Invalid playlist name %q", name), errors.New(reason))
}

func normalizeEntry(e Entry) (Entry, error) {
	id, err := NormalizeID(e.ID)
	if err != nil {
		return Entry{}, err
	}
	name, err := NormalizeName(e.Name)
	if err != nil {
		return Entry{}, err
	}
	e.ID = id
	e.Name = name
	e.ScreenName = strings.TrimSpace(e.ScreenName)
	e.Hashtag = strings.TrimPrefix(strings.TrimSpace(e.Hashtag), "#")
	return e, nil
}
