package parsers

import (
	"sort"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Grammars are compiled once per process and shared read-only by every
// parser instance.
var (
	grammars     map[string]*sitter.Language
	grammarsOnce sync.Once
)

func loadGrammars() map[string]*sitter.Language {
	grammarsOnce.Do(func() {
		ts := sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		tsx := sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		c := sitter.NewLanguage(tree_sitter_c.Language())
		grammars = map[string]*sitter.Language{
			"python":     sitter.NewLanguage(tree_sitter_python.Language()),
			"typescript": ts,
			"tsx":        tsx,
			// JavaScript is a syntactic subset of TypeScript.
			"javascript": ts,
			"java":       sitter.NewLanguage(tree_sitter_java.Language()),
			"rust":       sitter.NewLanguage(tree_sitter_rust.Language()),
			"c":          c,
			"cpp":        c,
			"php":        sitter.NewLanguage(tree_sitter_php.LanguagePHP()),
			"ruby":       sitter.NewLanguage(tree_sitter_ruby.Language()),
		}
	})
	return grammars
}

// grammarFor returns the compiled grammar for a language.
func grammarFor(language string) (*sitter.Language, bool) {
	l, ok := loadGrammars()[language]
	return l, ok
}

func grammarLanguages() []string {
	g := loadGrammars()
	langs := make([]string, 0, len(g))
	for lang := range g {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
