package split

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const pngExt = ".png"

// BandPath derives the file name of band index from the captured image path
// by replacing its trailing "<suffix>.png" with "<suffix><index>.png". An
// earlier occurrence of suffix inside the name is left alone. A path without
// the trailing suffix gets "<suffix><index>.png" in place of its extension.
func BandPath(original, suffix string, index int) string {
	dir, base := filepath.Split(original)
	stem, ok := strings.CutSuffix(base, suffix+pngExt)
	if !ok {
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return dir + stem + suffix + strconv.Itoa(index) + pngExt
}

// IsCapture reports whether name is a captured image, "<stem><suffix>.png"
// with a non-empty stem.
func IsCapture(name, suffix string) bool {
	stem, ok := strings.CutSuffix(name, suffix+pngExt)
	return ok && stem != ""
}

// IsBand reports whether name is a band written by the splitter,
// "<stem><suffix><digits>.png".
func IsBand(name, suffix string) bool {
	rest, ok := strings.CutSuffix(name, pngExt)
	if !ok || suffix == "" {
		return false
	}
	idx := strings.LastIndex(rest, suffix)
	if idx <= 0 {
		return false
	}
	digits := rest[idx+len(suffix):]
	return digits != "" && strings.Trim(digits, "0123456789") == ""
}

// BandsOf lists the band files already present beside the captured image at
// path, sorted by name.
func BandsOf(path, suffix string) ([]string, error) {
	dir := filepath.Dir(path)
	prefix := strings.TrimSuffix(filepath.Base(BandPath(path, suffix, 0)), "0"+pngExt)
	names, err := readDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		digits, ok := strings.CutSuffix(rest, pngExt)
		if ok && digits != "" && strings.Trim(digits, "0123456789") == "" {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Discover lists the captured images in dir, sorted by name. Bands produced
// by an earlier split are not captures and are not returned.
func Discover(dir, suffix string) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range entries {
		if IsCapture(name, suffix) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}
