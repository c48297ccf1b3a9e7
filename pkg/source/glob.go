package source

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// ExpandGlobs expands a list of file paths and glob patterns into a deduplicated,
// sorted list of paths. Patterns that don't match any files are returned as-is
// so that opening them reports a not-found error naming the pattern.
func ExpandGlobs(fs afero.Fs, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		matches, err := afero.Glob(fs, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, match := range matches {
			add(match)
		}
	}

	sort.Strings(result)
	return result, nil
}
