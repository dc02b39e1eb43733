package deps

import (
	"os"
	"os/exec"
	"strings"
)

// ChromeCandidates are the executable names tried, in order, when no Chrome
// path is configured.
var ChromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// ResolveChrome locates the browser used for captures. A configured path (or
// command name) is checked alone; otherwise the first available candidate
// wins.
func ResolveChrome(configured string) Status {
	base := Requirement{Name: "Chrome", Description: "Headless browser used to render playlist pages"}

	if path := strings.TrimSpace(configured); path != "" {
		base.Command = path
		status := check(base)
		if status.Available {
			return status
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Mode().Perm()&0o111 == 0 {
			status.Detail = "configured chrome_path is not executable"
		} else if status.Detail != "" {
			status.Detail += " (capture.chrome_path / PLAYSHOT_CHROME_PATH)"
		}
		return status
	}

	for _, name := range ChromeCandidates {
		if resolved, err := exec.LookPath(name); err == nil {
			return Status{
				Name:        base.Name,
				Command:     resolved,
				Description: base.Description,
				Available:   true,
			}
		}
	}
	return Status{
		Name:        base.Name,
		Command:     ChromeCandidates[0],
		Description: base.Description,
		Detail:      "no Chrome or Chromium binary found in PATH; set capture.chrome_path",
	}
}
