package extract

import (
	"github.com/bmatcuk/doublestar/v4"
)

// excludeKey reports whether name matches any of the doublestar glob
// patterns in excludes. A malformed pattern never excludes (matches nothing)
// rather than failing extraction.
func excludeKey(name string, excludes []string) bool {
	for _, pattern := range excludes {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// filterExcluded removes entries whose key matches excludes, in place.
func filterExcluded(entries map[string]Entry, excludes []string) {
	if len(excludes) == 0 {
		return
	}
	for key := range entries {
		if excludeKey(key, excludes) {
			delete(entries, key)
		}
	}
}
