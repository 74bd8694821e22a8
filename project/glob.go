package project

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// List returns the files under root matching a doublestar glob pattern
// (** matches recursively), sorted, for publish manifests. Directories are
// skipped. limit bounds the result when positive; zero means unbounded.
func List(root, pattern string, limit int) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("project: invalid glob pattern: %s", pattern)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project: access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project: root is not a directory: %s", root)
	}

	var matches []string
	err = doublestar.GlobWalk(os.DirFS(root), pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, filepath.FromSlash(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("project: match pattern: %w", err)
	}

	sort.Strings(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
