package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Get all posts in the content directory.
func getContentFiles(contentDir string) ([]string, error) {
	paths := []string{}
	if err := filepath.Walk(contentDir, visit(&paths)); err != nil {
		return nil, fmt.Errorf("walk content directory: %w", err)
	}
	return paths, nil
}

// Custom walk function to visit all posts in the content directory.
func visit(paths *[]string) filepath.WalkFunc {
	return func(path string, f os.FileInfo, err error) error {
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to access path")
			return nil // continue walking elsewhere
		}
		if f.IsDir() {
			return nil
		}

		if contentFilePattern.MatchString(f.Name()) {
			*paths = append(*paths, path)
			log.Debug().Str("path", path).Msg("Found file")
		}
		return nil
	}
}

// relativePath returns path relative to the content directory. The watcher
// reports absolute paths, the walk reports paths joined to contentDir.
func relativePath(contentDir, path string) (string, error) {
	absContent, err := filepath.Abs(contentDir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Rel(absContent, absPath)
}

// Cleans empty directories in the build directory, deepest first. The build
// directory itself is kept.
func cleanEmptyDirs(buildDir string) {
	var dirs []string
	_ = filepath.Walk(buildDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.IsDir() && path != buildDir {
			dirs = append(dirs, path)
		}
		return nil
	})
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	for _, dir := range dirs {
		err := os.Remove(dir)
		if err != nil && !errors.Is(err, syscall.ENOTEMPTY) && !errors.Is(err, syscall.EEXIST) {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to clean empty directory")
		}
	}
}
