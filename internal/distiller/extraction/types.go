// Package extraction holds the language-independent data model shared by the
// parsers, the language processors and the distiller.
package extraction

import (
	"cmp"
	"slices"
)

// Kind classifies a top-level declaration.
type Kind string

const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindType      Kind = "type"
	KindEnum      Kind = "enum"
	KindVariable  Kind = "variable"
	KindConst     Kind = "const"
)

// MemberKind classifies a declaration inside a class or interface body.
type MemberKind string

const (
	MemberProperty MemberKind = "property"
	MemberMethod   MemberKind = "method"
)

// Visibility is the access level assigned by a language processor.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// Rank orders visibilities from most to least visible.
func (v Visibility) Rank() int {
	switch v {
	case Public:
		return 0
	case Protected:
		return 1
	default:
		return 2
	}
}

// CanonicalMember is a property or method of a class or interface.
type CanonicalMember struct {
	Name      string     `json:"name"`
	Kind      MemberKind `json:"kind"`
	Signature string     `json:"signature"`
	Modifiers []string   `json:"modifiers,omitempty"`
	RawDoc    string     `json:"-"`
	Line      int        `json:"line"`
}

// CanonicalExport is a top-level declaration.
type CanonicalExport struct {
	Name      string            `json:"name"`
	Kind      Kind              `json:"kind"`
	Signature string            `json:"signature"`
	Members   []CanonicalMember `json:"members,omitempty"`
	Modifiers []string          `json:"modifiers,omitempty"`
	RawDoc    string            `json:"-"`
	Line      int               `json:"line"`
}

// CanonicalImport is an import statement. Specifiers keep source order.
type CanonicalImport struct {
	Source     string   `json:"source"`
	Specifiers []string `json:"specifiers"`
}

// CanonicalAPI is the normalized surface of a single file.
type CanonicalAPI struct {
	File     string            `json:"file"`
	Language string            `json:"language"`
	Imports  []CanonicalImport `json:"imports"`
	Exports  []CanonicalExport `json:"exports"`
}

// NewCanonicalAPI returns an empty API for the given file.
func NewCanonicalAPI(file, language string) *CanonicalAPI {
	return &CanonicalAPI{
		File:     file,
		Language: language,
		Imports:  []CanonicalImport{},
		Exports:  []CanonicalExport{},
	}
}

// HasModifier reports whether the export carries the modifier keyword.
func (e CanonicalExport) HasModifier(mod string) bool {
	return slices.Contains(e.Modifiers, mod)
}

// HasModifier reports whether the member carries the modifier keyword.
func (m CanonicalMember) HasModifier(mod string) bool {
	return slices.Contains(m.Modifiers, mod)
}

// Normalize deduplicates and sorts the API in place.
//
// Exports are unique on (kind, name) with the first occurrence kept, and are
// ordered by kind then name. Imports are unique on source; the specifiers of
// duplicate imports are merged in first-seen order. Imports are ordered by
// source.
func (a *CanonicalAPI) Normalize() {
	seenExports := make(map[string]bool, len(a.Exports))
	exports := make([]CanonicalExport, 0, len(a.Exports))
	for _, exp := range a.Exports {
		key := string(exp.Kind) + "\x00" + exp.Name
		if seenExports[key] {
			continue
		}
		seenExports[key] = true
		exp.Members = dedupMembers(exp.Members)
		exports = append(exports, exp)
	}
	slices.SortStableFunc(exports, func(x, y CanonicalExport) int {
		if c := cmp.Compare(x.Kind, y.Kind); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})
	a.Exports = exports

	index := make(map[string]int, len(a.Imports))
	imports := make([]CanonicalImport, 0, len(a.Imports))
	for _, imp := range a.Imports {
		i, ok := index[imp.Source]
		if !ok {
			index[imp.Source] = len(imports)
			imports = append(imports, CanonicalImport{
				Source:     imp.Source,
				Specifiers: appendUnique(nil, imp.Specifiers...),
			})
			continue
		}
		imports[i].Specifiers = appendUnique(imports[i].Specifiers, imp.Specifiers...)
	}
	slices.SortStableFunc(imports, func(x, y CanonicalImport) int {
		return cmp.Compare(x.Source, y.Source)
	})
	a.Imports = imports
}

// dedupMembers drops repeated (kind, name) members, keeping source order.
// Overloads collapse onto their first declaration.
func dedupMembers(members []CanonicalMember) []CanonicalMember {
	if len(members) == 0 {
		return members
	}
	seen := make(map[string]bool, len(members))
	out := make([]CanonicalMember, 0, len(members))
	for _, m := range members {
		key := string(m.Kind) + "\x00" + m.Name
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	if dst == nil {
		dst = []string{}
	}
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// ExtractedMember is a member after visibility and depth filtering.
type ExtractedMember struct {
	Name       string     `json:"name"`
	Kind       MemberKind `json:"kind"`
	Signature  string     `json:"signature"`
	Visibility Visibility `json:"visibility"`
	Docstring  string     `json:"docstring,omitempty"`
	Line       int        `json:"line"`
}

// ExtractedExport is a top-level declaration after filtering.
type ExtractedExport struct {
	Name       string            `json:"name"`
	Kind       Kind              `json:"kind"`
	Signature  string            `json:"signature"`
	Visibility Visibility        `json:"visibility"`
	Docstring  string            `json:"docstring,omitempty"`
	Members    []ExtractedMember `json:"members,omitempty"`
	Line       int               `json:"line"`
}

// ExtractedAPI is the final per-file surface handed to renderers.
type ExtractedAPI struct {
	File     string            `json:"file"`
	Language string            `json:"language"`
	Imports  []CanonicalImport `json:"imports"`
	Exports  []ExtractedExport `json:"exports"`
}

// NewExtractedAPI returns an empty API, used for files that failed to parse.
func NewExtractedAPI(file, language string) *ExtractedAPI {
	return &ExtractedAPI{
		File:     file,
		Language: language,
		Imports:  []CanonicalImport{},
		Exports:  []ExtractedExport{},
	}
}

// SkippedItem records a file or symbol left out of the result.
type SkippedItem struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
