// Package versions orders evaluation version names and reports build information.
package versions

import (
	"slices"

	"github.com/Masterminds/semver/v3"
)

// IsNewerVersion reports whether newVersion is strictly greater than oldVersion.
// It uses semantic versioning when both strings are valid semver and falls
// back to lexicographic comparison otherwise.
func IsNewerVersion(newVersion, oldVersion string) bool {
	newSemver, errNew := semver.NewVersion(newVersion)
	oldSemver, errOld := semver.NewVersion(oldVersion)

	if errNew != nil || errOld != nil {
		return newVersion > oldVersion
	}

	return newSemver.GreaterThan(oldSemver)
}

// LatestVersion returns the greatest name in names, or "" when names is empty.
// RRE names its evaluation versions after the configuration set they ran
// with, which is usually but not always a semver string.
func LatestVersion(names []string) string {
	var latest string
	for i, name := range names {
		if i == 0 || IsNewerVersion(name, latest) {
			latest = name
		}
	}
	return latest
}

// SortVersions returns a copy of names ordered from oldest to newest
func SortVersions(names []string) []string {
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		switch {
		case IsNewerVersion(a, b):
			return 1
		case IsNewerVersion(b, a):
			return -1
		default:
			return 0
		}
	})
	return out
}
