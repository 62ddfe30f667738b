package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPrunePaths are upstream project files that make no sense in a
// derived theme: CI workflows, git hooks, release tooling and docs.
var DefaultPrunePaths = []string{
	".github",
	".husky",
	".npmrc",
	".releaserc",
	"CHANGELOG.md",
	"README.md",
}

// Prune removes each relative path under root when it exists and returns
// the ones that were removed.
func Prune(root string, paths []string) ([]string, error) {
	var removed []string
	for _, rel := range paths {
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return removed, fmt.Errorf("refusing to remove %q outside the project", rel)
		}

		target := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Lstat(target); errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return removed, fmt.Errorf("checking %s: %w", rel, err)
		}

		if err := os.RemoveAll(target); err != nil {
			return removed, fmt.Errorf("removing %s: %w", rel, err)
		}
		removed = append(removed, rel)
	}
	return removed, nil
}
