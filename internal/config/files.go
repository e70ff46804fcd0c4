package config

import (
	"fmt"
	"path"
)

// validateFilePatterns ensures entry name filters are non-empty
func validateFilePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if pattern == "" {
			return fmt.Errorf("file pattern cannot be empty")
		}
	}
	return nil
}

// MatchesAny reports whether an entry name matches at least one filter,
// either literally or as a glob pattern. An empty filter list matches
// everything.
func MatchesAny(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		// Entry names in the wild often contain backslashes, which glob
		// syntax treats as escapes, so the literal comparison comes
		// first and a malformed pattern simply never glob-matches.
		if pattern == name {
			return true
		}
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
