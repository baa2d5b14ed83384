package config

import (
	"strings"
	"time"

	"github.com/mvp-joe/distill/internal/distiller"
	"github.com/mvp-joe/distill/internal/distiller/languages"
	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

// ToDistillerOptions converts a Config to distiller.Options.
func (c *Config) ToDistillerOptions() distiller.Options {
	return distiller.Options{
		IncludePatterns:   c.Paths.Include,
		ExcludePatterns:   c.Paths.Exclude,
		Depth:             languages.Depth(strings.ToLower(c.Distill.Depth)),
		IncludePrivate:    c.Distill.IncludePrivate,
		IncludeNames:      c.Distill.IncludeNames,
		ExcludeNames:      c.Distill.ExcludeNames,
		IncludeDocstrings: c.Distill.IncludeDocstrings,
		Format:            distiller.Format(strings.ToLower(c.Distill.Format)),
		Compact:           c.Distill.Compact,
		Workers:           c.Limits.Workers,
		MaxFileBytes:      int64(c.Limits.MaxFileSizeKB) * 1024,
		ParseTimeout:      time.Duration(c.Limits.ParseTimeoutMS) * time.Millisecond,
		MaxNestingDepth:   c.Limits.MaxNestingDepth,
		BytesPerToken:     c.Limits.BytesPerToken,
	}
}

// ParserVariant returns the configured parser variant.
func (c *Config) ParserVariant() parsers.Variant {
	return parsers.Variant(strings.ToLower(c.Distill.Parser))
}

// OutputStyle returns the configured output style.
func (c *Config) OutputStyle() distiller.Style {
	return distiller.Style(strings.ToLower(c.Output.Style))
}
