package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns the default patterns for in-progress and
// temporary files that must not be renamed while their writer still
// expects the original name.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.download",
		"*.crdownload", // Chrome partial downloads
		"*.partial",
		".~*", // hidden temp files (e.g. .~lock)
	}
}

// Filter matches file paths against ignore patterns.
type Filter struct {
	patterns []string
}

// NewFilter creates a Filter with the given glob patterns. Nil or empty
// patterns fall back to the defaults.
func NewFilter(patterns []string) *Filter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &Filter{patterns: patterns}
}

// ShouldIgnore checks the path's base name against every pattern.
// Patterns use filepath.Match glob syntax; a bare ".ext" pattern also
// matches as a case-insensitive suffix.
func (f *Filter) ShouldIgnore(path string) bool {
	filename := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.Contains(pattern, "*") {
			if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// Patterns returns a copy of the active patterns.
func (f *Filter) Patterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}
