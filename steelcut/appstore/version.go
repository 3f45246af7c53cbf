package appstore

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// infoVersionRegex matches the trailing dotted number of the first line of
// `mas info`, e.g. "Xcode 15.0 [Free]".
var infoVersionRegex = regexp.MustCompile(`(\d+(?:\.\d+)*)\s*(?:\[[^\]]*\])?\s*$`)

// parseInfoVersion is best effort: mas does not promise a format.
func parseInfoVersion(out string) (string, bool) {
	first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	m := infoVersionRegex.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isNewer compares semantically when both versions parse and falls back to
// plain inequality otherwise.
func isNewer(current, latest string) bool {
	cv, err1 := semver.NewVersion(current)
	lv, err2 := semver.NewVersion(latest)
	if err1 != nil || err2 != nil {
		return current != latest
	}
	return lv.GreaterThan(cv)
}
