package languages

import (
	"fmt"

	"github.com/gobwas/glob"
)

// NameFilter matches export names against include and exclude globs.
// Patterns use no separator, so `*` spans dots in qualified names.
type NameFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewNameFilter compiles the patterns. Empty include means everything.
func NewNameFilter(include, exclude []string) (*NameFilter, error) {
	f := &NameFilter{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
		}
		f.include = append(f.include, g)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// Allow reports whether name passes the filter, and the skip reason if not.
// Exclude is evaluated after include and wins.
func (f *NameFilter) Allow(name string) (bool, string) {
	if f == nil {
		return true, ""
	}
	if len(f.include) > 0 && !matchAny(f.include, name) {
		return false, ReasonNotIncluded
	}
	if matchAny(f.exclude, name) {
		return false, ReasonExcluded
	}
	return true, ""
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
