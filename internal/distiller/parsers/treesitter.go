package parsers

import (
	"fmt"
	"sort"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// GrammarParser parses languages with a registered tree-sitter grammar and
// converts the resulting syntax tree into a CanonicalAPI.
type GrammarParser struct {
	limits Limits
	rules  map[string]*languageRules
}

// NewGrammarParser creates a grammar-backed parser with the given limits.
// Zero limit fields fall back to DefaultLimits.
func NewGrammarParser(limits Limits) *GrammarParser {
	ts := typeScriptRules()
	c := cRules()
	return &GrammarParser{
		limits: limits.withDefaults(),
		rules: map[string]*languageRules{
			"python":     pythonRules(),
			"typescript": ts,
			"tsx":        ts,
			"javascript": ts,
			"java":       javaRules(),
			"rust":       rustRules(),
			"c":          c,
			"cpp":        c,
			"php":        phpRules(),
			"ruby":       rubyRules(),
		},
	}
}

// Initialize loads every grammar. Repeated and concurrent calls are cheap.
func (p *GrammarParser) Initialize() error {
	if len(loadGrammars()) == 0 {
		return fmt.Errorf("no tree-sitter grammars registered")
	}
	return nil
}

// Variant implements Parser.
func (p *GrammarParser) Variant() Variant { return VariantGrammar }

// IsLanguageSupported reports whether both a grammar and conversion rules
// exist for the language.
func (p *GrammarParser) IsLanguageSupported(language string) bool {
	if _, ok := grammarFor(language); !ok {
		return false
	}
	_, ok := p.rules[language]
	return ok
}

// SupportedLanguages returns the grammar languages in sorted order.
func (p *GrammarParser) SupportedLanguages() []string {
	var langs []string
	for _, lang := range grammarLanguages() {
		if _, ok := p.rules[lang]; ok {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// Parse builds a syntax tree for content. It never returns nil; failures are
// reported through ParsedFile.Err.
func (p *GrammarParser) Parse(path string, content []byte, language string) (pf *ParsedFile) {
	defer func() {
		if r := recover(); r != nil {
			pf = failedFile(path, language, content, VariantGrammar,
				fmt.Errorf("%w: parser panic: %v", ErrParseFailure, r))
		}
	}()

	grammar, ok := grammarFor(language)
	if !ok {
		return failedFile(path, language, content, VariantGrammar,
			fmt.Errorf("%w: %w: %s", ErrParseFailure, ErrUnsupportedLanguage, language))
	}
	if int64(len(content)) > p.limits.MaxFileBytes {
		return failedFile(path, language, content, VariantGrammar,
			fmt.Errorf("%w: %w: %d bytes exceeds %d", ErrParseFailure, ErrFileTooLarge, len(content), p.limits.MaxFileBytes))
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(grammar); err != nil {
		return failedFile(path, language, content, VariantGrammar,
			fmt.Errorf("%w: %w", ErrParseFailure, err))
	}

	deadline := time.Now().Add(p.limits.ParseTimeout)
	timedOut := false
	tree := parser.ParseWithOptions(func(offset int, _ sitter.Point) []byte {
		if offset >= len(content) {
			return nil
		}
		return content[offset:]
	}, nil, &sitter.ParseOptions{
		ProgressCallback: func(sitter.ParseState) bool {
			if time.Now().After(deadline) {
				timedOut = true
				return true
			}
			return false
		},
	})
	if tree == nil {
		if timedOut {
			return failedFile(path, language, content, VariantGrammar,
				fmt.Errorf("%w: %w after %s", ErrParseFailure, ErrParseTimeout, p.limits.ParseTimeout))
		}
		return failedFile(path, language, content, VariantGrammar,
			fmt.Errorf("%w: tree-sitter returned no tree", ErrParseFailure))
	}

	return &ParsedFile{
		Path:     path,
		Language: language,
		Source:   content,
		variant:  VariantGrammar,
		tree:     tree,
	}
}

// Extract converts the syntax tree of pf into a CanonicalAPI. On failure it
// returns an empty API and an error wrapping ErrParseFailure.
func (p *GrammarParser) Extract(pf *ParsedFile) (api *extraction.CanonicalAPI, err error) {
	if pf == nil {
		return extraction.NewCanonicalAPI("", ""), fmt.Errorf("%w: nil parsed file", ErrParseFailure)
	}
	empty := extraction.NewCanonicalAPI(pf.Path, pf.Language)
	if pf.Err != nil {
		return empty, pf.Err
	}
	if pf.tree == nil {
		return empty, fmt.Errorf("%w: no syntax tree", ErrParseFailure)
	}
	rules, ok := p.rules[pf.Language]
	if !ok {
		return empty, fmt.Errorf("%w: %w: %s", ErrParseFailure, ErrUnsupportedLanguage, pf.Language)
	}

	defer func() {
		if r := recover(); r != nil {
			api = empty
			err = fmt.Errorf("%w: converter panic: %v", ErrParseFailure, r)
		}
	}()

	conv := newConversion(pf, rules, p.limits.MaxNestingDepth)
	if err := conv.run(pf.tree.RootNode()); err != nil {
		return empty, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	return conv.api, nil
}
