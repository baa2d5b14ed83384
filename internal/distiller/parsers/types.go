package parsers

import (
	"errors"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

var (
	// ErrParseFailure wraps every per-file failure. Callers recover from it.
	ErrParseFailure = errors.New("parse failure")

	// ErrUnsupportedLanguage indicates no parser variant handles the language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrFileTooLarge indicates the file exceeded Limits.MaxFileBytes.
	ErrFileTooLarge = errors.New("file too large")

	// ErrParseTimeout indicates the grammar parser exceeded Limits.ParseTimeout.
	ErrParseTimeout = errors.New("parse timed out")

	// ErrTooDeep indicates the syntax tree nests deeper than Limits.MaxNestingDepth.
	ErrTooDeep = errors.New("syntax tree nested too deeply")
)

// Variant identifies one of the parser implementations.
type Variant string

const (
	VariantGrammar  Variant = "grammar"
	VariantFallback Variant = "fallback"
	VariantHybrid   Variant = "hybrid"
)

// Parser turns source text into a CanonicalAPI.
//
// Parse never fails outright: problems are reported through ParsedFile.Err
// and Extract then returns an empty API together with that error.
type Parser interface {
	Initialize() error
	Parse(path string, content []byte, language string) *ParsedFile
	Extract(pf *ParsedFile) (*extraction.CanonicalAPI, error)
	IsLanguageSupported(language string) bool
	SupportedLanguages() []string
	Variant() Variant
}

// Limits guard each parse against pathological input.
type Limits struct {
	MaxFileBytes    int64
	ParseTimeout    time.Duration
	MaxNestingDepth int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxFileBytes:    2 << 20,
		ParseTimeout:    5 * time.Second,
		MaxNestingDepth: 256,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxFileBytes <= 0 {
		l.MaxFileBytes = d.MaxFileBytes
	}
	if l.ParseTimeout <= 0 {
		l.ParseTimeout = d.ParseTimeout
	}
	if l.MaxNestingDepth <= 0 {
		l.MaxNestingDepth = d.MaxNestingDepth
	}
	return l
}

// ParsedFile is the output of Parse. The syntax tree it holds is scoped to
// the file: call Close once extraction is done.
type ParsedFile struct {
	Path     string
	Language string
	Source   []byte
	Err      error

	variant Variant
	tree    *sitter.Tree
	decls   []fallbackDecl
}

// HasTree reports whether parsing produced a usable tree or declaration list.
func (pf *ParsedFile) HasTree() bool {
	return pf != nil && pf.Err == nil && (pf.tree != nil || pf.variant == VariantFallback)
}

// Close releases the syntax tree. It is safe to call more than once.
func (pf *ParsedFile) Close() {
	if pf == nil {
		return
	}
	if pf.tree != nil {
		pf.tree.Close()
		pf.tree = nil
	}
	pf.decls = nil
}

func failedFile(path, language string, content []byte, variant Variant, err error) *ParsedFile {
	return &ParsedFile{
		Path:     path,
		Language: language,
		Source:   content,
		Err:      err,
		variant:  variant,
	}
}
