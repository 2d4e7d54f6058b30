package shared

import (
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// setURLPattern matches the singular and plural beatmapset URL path forms.
var setURLPattern = regexp.MustCompile(`/beatmapsets?/(\d+)`)

// BeatmapsetURL returns the public osu! page for a beatmapset id.
func BeatmapsetURL(setID string) string {
	return fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%s", setID)
}

// ParseBeatmapsetArg extracts a set id from a bare number or a pasted osu!
// website URL, returning "" when the input is neither.
func ParseBeatmapsetArg(arg string) string {
	s := strings.TrimSpace(arg)
	if s == "" {
		return ""
	}
	digits := true
	for _, r := range s {
		if r < '0' || r > '9' {
			digits = false
			break
		}
	}
	if digits {
		return s
	}
	if m := setURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
