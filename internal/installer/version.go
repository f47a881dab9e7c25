package installer

import (
	"context"
	"os"
	"os/exec"
	"regexp"
	"time"

	"grok-search-installer/internal/logger"
)

// probeTimeout bounds the local --version sub-process invocation.
const probeTimeout = 5 * time.Second

// versionPattern extracts the first dotted-triple numeric token from the
// binary's version output, e.g. "1.3.0" out of "grok-search-mcp 1.3.0".
var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// probeVersion determines the installed version by executing the binary at
// binPath with --version. It returns ("", false) when the binary is absent or
// anything about the probe fails: missing execute permission, crash, timeout,
// or unparseable output. Callers treat false as "version unknown", never as a
// hard error.
func probeVersion(binPath string) (string, bool) {
	if _, err := os.Stat(binPath); err != nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binPath, "--version").Output()
	if err != nil {
		logger.Debug("[DEBUG] Version probe of %s failed: %v\n", binPath, err)
		return "", false
	}
	return extractVersion(string(out))
}

// extractVersion pulls the first x.y.z token out of version output and
// normalizes it to a v-prefixed tag.
func extractVersion(output string) (string, bool) {
	m := versionPattern.FindString(output)
	if m == "" {
		return "", false
	}
	return "v" + m, true
}

// TagsEqual compares two v-prefixed release tags by exact, case-sensitive
// string identity. No semantic-version ordering is attempted: "newer" and
// "older" are not distinguished, which means a re-tagged release with
// identical tag text is indistinguishable from up-to-date. Known limitation,
// kept intentionally.
func TagsEqual(a, b string) bool {
	return a == b
}
