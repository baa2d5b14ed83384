// Package distiller walks a source tree, extracts each file's public API and
// renders a compact view of it together with token estimates.
package distiller

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
	"github.com/mvp-joe/distill/internal/distiller/languages"
	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

var (
	// ErrPathNotFound indicates the root path does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidFormat indicates an unknown output format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidPattern indicates a path glob that does not compile.
	ErrInvalidPattern = errors.New("invalid path pattern")
)

// DefaultBytesPerToken is the fixed ratio used to estimate token counts.
const DefaultBytesPerToken = 4

// Format selects which result Distill produces.
type Format string

const (
	FormatDistilled  Format = "distilled"
	FormatCompressed Format = "compressed"
	FormatBoth       Format = "both"
)

// ParseFormat validates a format name. The empty string means FormatDistilled.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatDistilled:
		return FormatDistilled, nil
	case FormatCompressed, FormatBoth:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q (want distilled, compressed or both)", ErrInvalidFormat, s)
}

// Options control one distillation run.
type Options struct {
	// IncludePatterns and ExcludePatterns are doublestar globs matched
	// against slash-separated paths relative to the root. A pattern without
	// a slash also matches the base name at any depth.
	IncludePatterns []string
	ExcludePatterns []string

	Depth             languages.Depth
	IncludePrivate    bool
	IncludeNames      []string
	ExcludeNames      []string
	IncludeDocstrings bool

	Format  Format
	Compact bool

	Workers         int
	MaxFileBytes    int64
	ParseTimeout    time.Duration
	MaxNestingDepth int
	BytesPerToken   int
}

// DefaultOptions returns the options used by a bare `distill run`.
func DefaultOptions() Options {
	limits := parsers.DefaultLimits()
	return Options{
		Depth:           languages.DepthPublic,
		Format:          FormatDistilled,
		Workers:         runtime.NumCPU(),
		MaxFileBytes:    limits.MaxFileBytes,
		ParseTimeout:    limits.ParseTimeout,
		MaxNestingDepth: limits.MaxNestingDepth,
		BytesPerToken:   DefaultBytesPerToken,
	}
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.BytesPerToken <= 0 {
		o.BytesPerToken = DefaultBytesPerToken
	}
	return o
}

func (o Options) limits() parsers.Limits {
	return parsers.Limits{
		MaxFileBytes:    o.MaxFileBytes,
		ParseTimeout:    o.ParseTimeout,
		MaxNestingDepth: o.MaxNestingDepth,
	}
}

func (o Options) policy() languages.Options {
	return languages.Options{
		Depth:             o.Depth,
		IncludePrivate:    o.IncludePrivate,
		IncludeNames:      o.IncludeNames,
		ExcludeNames:      o.ExcludeNames,
		IncludeDocstrings: o.IncludeDocstrings,
	}
}

// Structure tallies what the run looked at.
type Structure struct {
	FileCount   int            `json:"fileCount"`
	Directories []string       `json:"directories"`
	Languages   map[string]int `json:"languages"`
}

// Metadata carries token estimates and everything that was left out.
type Metadata struct {
	OriginalTokens   int                      `json:"originalTokens"`
	DistilledTokens  int                      `json:"distilledTokens"`
	CompressionRatio float64                  `json:"compressionRatio"`
	Skipped          []extraction.SkippedItem `json:"skipped"`
}

// DistillationResult is the structural view of a source tree.
type DistillationResult struct {
	APIs      []extraction.ExtractedAPI `json:"apis"`
	Structure Structure                 `json:"structure"`
	Metadata  Metadata                  `json:"metadata"`

	compact bool
}

// CompressedFile is one file of a raw bundle.
type CompressedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// CompressionResult is the raw bundle of every source file.
type CompressionResult struct {
	Files []CompressedFile `json:"files"`
}

// CombinedResult holds both views of the same run.
type CombinedResult struct {
	Compression  *CompressionResult  `json:"compression"`
	Distillation *DistillationResult `json:"distillation"`
}

// Result carries exactly one of its fields, selected by Options.Format.
type Result struct {
	Distillation *DistillationResult
	Compression  *CompressionResult
	Combined     *CombinedResult
}

// Format reports which view the result carries.
func (r *Result) Format() Format {
	switch {
	case r.Combined != nil:
		return FormatBoth
	case r.Compression != nil:
		return FormatCompressed
	}
	return FormatDistilled
}

// DistillationView returns the distilled result for distilled and combined
// runs, or nil for compressed runs.
func (r *Result) DistillationView() *DistillationResult {
	if r.Combined != nil {
		return r.Combined.Distillation
	}
	return r.Distillation
}

// MarshalJSON encodes whichever result is set.
func (r *Result) MarshalJSON() ([]byte, error) {
	switch r.Format() {
	case FormatBoth:
		return json.Marshal(r.Combined)
	case FormatCompressed:
		return json.Marshal(r.Compression)
	}
	return json.Marshal(r.Distillation)
}

// LanguageSupport describes one language the distiller can handle.
type LanguageSupport struct {
	Name    string          `json:"name"`
	Variant parsers.Variant `json:"variant"`
}

// RunStats summarize a finished run for progress reporters.
type RunStats struct {
	Files    int
	Skipped  int
	Duration time.Duration
}
