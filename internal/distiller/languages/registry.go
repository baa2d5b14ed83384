package languages

import (
	"sort"
)

// Registry maps language names to their processor. It is built once at
// startup and passed to the distiller; it is not modified afterwards.
type Registry struct {
	processors map[string]Processor
}

// NewRegistry returns a registry holding every built-in language.
func NewRegistry() *Registry {
	r := &Registry{processors: map[string]Processor{}}
	ts := typeScriptRules()
	c := cRules()
	for lang, rl := range map[string]rules{
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
		"go":         goRules(),
		"kotlin":     kotlinRules(),
		"swift":      swiftRules(),
		"csharp":     csharpRules(),
	} {
		r.Register(newProcessor(lang, rl))
	}
	return r
}

// Register adds or replaces the processor for p.Language().
func (r *Registry) Register(p Processor) {
	r.processors[p.Language()] = p
}

// Get returns the processor for a language.
func (r *Registry) Get(language string) (Processor, bool) {
	p, ok := r.processors[language]
	return p, ok
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.processors))
	for lang := range r.processors {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
