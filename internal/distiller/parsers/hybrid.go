package parsers

import (
	"fmt"
	"sort"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// HybridParser uses the grammar parser for every language it supports and
// the fallback parser for the rest. A grammar failure is reported as is and
// never retried on the fallback.
type HybridParser struct {
	grammar  *GrammarParser
	fallback *FallbackParser
}

// NewHybridParser creates a parser covering grammar and fallback languages.
func NewHybridParser(limits Limits) *HybridParser {
	return &HybridParser{
		grammar:  NewGrammarParser(limits),
		fallback: NewFallbackParser(limits),
	}
}

// New returns the parser for a variant name.
func New(variant Variant, limits Limits) (Parser, error) {
	switch variant {
	case VariantGrammar:
		return NewGrammarParser(limits), nil
	case VariantFallback:
		return NewFallbackParser(limits), nil
	case VariantHybrid, "":
		return NewHybridParser(limits), nil
	}
	return nil, fmt.Errorf("unknown parser variant %q", variant)
}

func (p *HybridParser) Initialize() error {
	if err := p.grammar.Initialize(); err != nil {
		return err
	}
	return p.fallback.Initialize()
}

func (p *HybridParser) Variant() Variant { return VariantHybrid }

func (p *HybridParser) IsLanguageSupported(language string) bool {
	return p.grammar.IsLanguageSupported(language) || p.fallback.IsLanguageSupported(language)
}

func (p *HybridParser) SupportedLanguages() []string {
	seen := map[string]bool{}
	var langs []string
	for _, lang := range append(p.grammar.SupportedLanguages(), p.fallback.SupportedLanguages()...) {
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// VariantFor reports which parser handles a language.
func (p *HybridParser) VariantFor(language string) Variant {
	switch {
	case p.grammar.IsLanguageSupported(language):
		return VariantGrammar
	case p.fallback.IsLanguageSupported(language):
		return VariantFallback
	}
	return ""
}

func (p *HybridParser) Parse(path string, content []byte, language string) *ParsedFile {
	if p.grammar.IsLanguageSupported(language) {
		return p.grammar.Parse(path, content, language)
	}
	return p.fallback.Parse(path, content, language)
}

// Extract routes by the variant that produced pf.
func (p *HybridParser) Extract(pf *ParsedFile) (*extraction.CanonicalAPI, error) {
	if pf != nil && pf.variant == VariantFallback {
		return p.fallback.Extract(pf)
	}
	return p.grammar.Extract(pf)
}
