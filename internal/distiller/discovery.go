package distiller

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultExcludedDirs are never descended into.
var defaultExcludedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".distill":     true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
}

// DefaultExcludedDirs returns the directory names discovery never enters, sorted.
func DefaultExcludedDirs() []string {
	dirs := make([]string, 0, len(defaultExcludedDirs))
	for dir := range defaultExcludedDirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// FileDiscovery finds the files under a root that pass the include and
// exclude globs.
type FileDiscovery struct {
	rootDir string
	include []string
	exclude []string
	logger  *slog.Logger
}

// NewFileDiscovery validates the patterns and returns a discovery for rootDir.
func NewFileDiscovery(rootDir string, include, exclude []string, logger *slog.Logger) (*FileDiscovery, error) {
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileDiscovery{
		rootDir: rootDir,
		include: include,
		exclude: exclude,
		logger:  logger,
	}, nil
}

// Discover walks the tree and returns matching files as sorted,
// slash-separated paths relative to the root.
func (fd *FileDiscovery) Discover() ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(fd.rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == fd.rootDir {
				return err
			}
			fd.logger.Warn("skipping unreadable path", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(fd.rootDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if defaultExcludedDirs[d.Name()] || fd.excluded(rel+"/**") || fd.excluded(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if fd.excluded(rel) || !fd.included(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (fd *FileDiscovery) included(rel string) bool {
	if len(fd.include) == 0 {
		return true
	}
	return matchAny(fd.include, rel)
}

func (fd *FileDiscovery) excluded(rel string) bool {
	return matchAny(fd.exclude, rel)
}

// matchAny matches rel against each pattern. Patterns without a slash are
// also tried against the base name, so "*.md" matches "docs/guide.md".
func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}
