// Package languages turns a CanonicalAPI into the ExtractedAPI handed to
// renderers, applying per-language visibility rules and the caller's
// filtering policy.
package languages

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

var (
	// ErrInvalidDepth indicates a depth outside public, protected and all.
	ErrInvalidDepth = errors.New("invalid depth")

	// ErrInvalidPattern indicates a name pattern that does not compile.
	ErrInvalidPattern = errors.New("invalid name pattern")
)

// Depth is the member visibility ceiling applied inside class bodies.
type Depth string

const (
	DepthPublic    Depth = "public"
	DepthProtected Depth = "protected"
	DepthAll       Depth = "all"
)

// ParseDepth validates a depth name. The empty string means DepthPublic.
func ParseDepth(s string) (Depth, error) {
	switch Depth(s) {
	case "", DepthPublic:
		return DepthPublic, nil
	case DepthProtected, DepthAll:
		return Depth(s), nil
	}
	return "", fmt.Errorf("%w: %q (want public, protected or all)", ErrInvalidDepth, s)
}

// allows reports whether members of visibility v survive at this depth.
func (d Depth) allows(v extraction.Visibility) bool {
	switch d {
	case DepthAll:
		return true
	case DepthProtected:
		return v != extraction.Private
	default:
		return v == extraction.Public
	}
}

// Options are the caller-facing filtering settings.
type Options struct {
	Depth             Depth
	IncludePrivate    bool
	IncludeNames      []string
	ExcludeNames      []string
	IncludeDocstrings bool
}

// Policy is a validated Options with its name patterns compiled. A Policy is
// read-only and safe to share between goroutines.
type Policy struct {
	Depth             Depth
	IncludePrivate    bool
	IncludeDocstrings bool

	names *NameFilter
}

// NewPolicy validates opts and compiles its name patterns.
func NewPolicy(opts Options) (*Policy, error) {
	depth, err := ParseDepth(string(opts.Depth))
	if err != nil {
		return nil, err
	}
	names, err := NewNameFilter(opts.IncludeNames, opts.ExcludeNames)
	if err != nil {
		return nil, err
	}
	return &Policy{
		Depth:             depth,
		IncludePrivate:    opts.IncludePrivate,
		IncludeDocstrings: opts.IncludeDocstrings,
		names:             names,
	}, nil
}

// keepMember applies the depth gate. Private members additionally require
// IncludePrivate; protected members pass on depth or on IncludePrivate.
func (p *Policy) keepMember(v extraction.Visibility) (bool, string) {
	switch v {
	case extraction.Public:
		return true, ""
	case extraction.Protected:
		if p.Depth.allows(v) || p.IncludePrivate {
			return true, ""
		}
		return false, fmt.Sprintf("below depth %s", p.Depth)
	default:
		if p.IncludePrivate {
			return true, ""
		}
		return false, ReasonPrivate
	}
}

// Skip reasons recorded in result metadata.
const (
	ReasonPrivate     = "private"
	ReasonExcluded    = "excluded by name filter"
	ReasonNotIncluded = "not matched by include filter"
)

// Processor applies one language's policy to a CanonicalAPI.
type Processor interface {
	Language() string
	Process(api *extraction.CanonicalAPI, policy *Policy) (*extraction.ExtractedAPI, []extraction.SkippedItem)
}
