package parsers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// fallbackDecl is one declaration recognized by the pattern scanner. Members
// name their owner; imports carry source and specifiers instead of a name.
type fallbackDecl struct {
	isImport bool
	source   string
	specs    []string

	owner     string
	kind      extraction.Kind
	member    extraction.MemberKind
	name      string
	signature string
	modifiers []string
	doc       string
	line      int
}

// FallbackParser recognizes declarations line by line with per-language
// pattern tables. It trades structural accuracy for coverage of languages
// without a registered grammar.
type FallbackParser struct {
	limits Limits
}

// NewFallbackParser creates a pattern-based parser.
func NewFallbackParser(limits Limits) *FallbackParser {
	return &FallbackParser{limits: limits.withDefaults()}
}

// Initialize implements Parser. Pattern tables compile at package load.
func (p *FallbackParser) Initialize() error { return nil }

// Variant implements Parser.
func (p *FallbackParser) Variant() Variant { return VariantFallback }

// IsLanguageSupported implements Parser.
func (p *FallbackParser) IsLanguageSupported(language string) bool {
	_, ok := fallbackSyntaxes[language]
	return ok
}

// SupportedLanguages implements Parser.
func (p *FallbackParser) SupportedLanguages() []string {
	langs := make([]string, 0, len(fallbackSyntaxes))
	for lang := range fallbackSyntaxes {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Parse scans content into a declaration list. It never returns nil.
func (p *FallbackParser) Parse(path string, content []byte, language string) (pf *ParsedFile) {
	defer func() {
		if r := recover(); r != nil {
			pf = failedFile(path, language, content, VariantFallback,
				fmt.Errorf("%w: scanner panic: %v", ErrParseFailure, r))
		}
	}()

	syn, ok := fallbackSyntaxes[language]
	if !ok {
		return failedFile(path, language, content, VariantFallback,
			fmt.Errorf("%w: %w: %s", ErrParseFailure, ErrUnsupportedLanguage, language))
	}
	if int64(len(content)) > p.limits.MaxFileBytes {
		return failedFile(path, language, content, VariantFallback,
			fmt.Errorf("%w: %w: %d bytes exceeds %d", ErrParseFailure, ErrFileTooLarge, len(content), p.limits.MaxFileBytes))
	}

	decls, err := newFallbackScanner(syn, p.limits.MaxNestingDepth).scan(string(content))
	if err != nil {
		return failedFile(path, language, content, VariantFallback, fmt.Errorf("%w: %w", ErrParseFailure, err))
	}
	return &ParsedFile{
		Path:     path,
		Language: language,
		Source:   content,
		variant:  VariantFallback,
		decls:    decls,
	}
}

// Extract assembles the declaration list into a CanonicalAPI. Members attach
// to their owner; an owner declared elsewhere gets an export of its own.
func (p *FallbackParser) Extract(pf *ParsedFile) (*extraction.CanonicalAPI, error) {
	if pf == nil {
		return extraction.NewCanonicalAPI("", ""), fmt.Errorf("%w: nil parsed file", ErrParseFailure)
	}
	api := extraction.NewCanonicalAPI(pf.Path, pf.Language)
	if pf.Err != nil {
		return api, pf.Err
	}

	byName := map[string]int{}
	// placeholders are owners created for members seen before their type.
	placeholders := map[string]bool{}
	for _, d := range pf.decls {
		switch {
		case d.isImport:
			specs := d.specs
			if specs == nil {
				specs = []string{}
			}
			api.Imports = append(api.Imports, extraction.CanonicalImport{Source: d.source, Specifiers: specs})

		case d.owner == "":
			exp := extraction.CanonicalExport{
				Name:      d.name,
				Kind:      d.kind,
				Signature: d.signature,
				Modifiers: d.modifiers,
				RawDoc:    d.doc,
				Line:      d.line,
			}
			if i, ok := byName[d.name]; ok {
				if placeholders[d.name] {
					exp.Members = api.Exports[i].Members
					api.Exports[i] = exp
					delete(placeholders, d.name)
					continue
				}
				if api.Exports[i].Kind == d.kind {
					// Extensions and partial declarations reopen a type.
					continue
				}
			}
			api.Exports = append(api.Exports, exp)
			if _, ok := byName[d.name]; !ok {
				byName[d.name] = len(api.Exports) - 1
			}

		default:
			i, ok := byName[d.owner]
			if !ok {
				api.Exports = append(api.Exports, extraction.CanonicalExport{
					Name:      d.owner,
					Kind:      extraction.KindClass,
					Signature: d.owner,
					Line:      d.line,
				})
				i = len(api.Exports) - 1
				byName[d.owner] = i
				placeholders[d.owner] = true
			}
			api.Exports[i].Members = append(api.Exports[i].Members, extraction.CanonicalMember{
				Name:      d.name,
				Kind:      d.member,
				Signature: d.signature,
				Modifiers: d.modifiers,
				RawDoc:    d.doc,
				Line:      d.line,
			})
		}
	}
	api.Normalize()
	return api, nil
}

// fallbackRule maps a line pattern to a declaration. The pattern must have a
// "name" group unless names is set.
type fallbackRule struct {
	re     *regexp.Regexp
	kind   extraction.Kind
	member extraction.MemberKind
	// scope marks declarations whose body holds members.
	scope bool
	// names splits a comma list such as `case a, b` into several members.
	names bool
}

type fallbackSyntax struct {
	modifiers map[string]bool

	// imports match a whole line; the "source" group is required and an
	// optional "spec" group names one imported symbol.
	imports []*regexp.Regexp
	// splitImport turns `a.b.C` into source a.b and specifier C.
	splitImport bool

	// block opens a parenthesized group such as Go's `const (`.
	block      *regexp.Regexp
	blockEntry map[string]fallbackRule

	// namespace opens a scope whose body is still top level.
	namespace *regexp.Regexp

	// receiver matches a method declared outside its type, with "recv" and
	// "name" groups.
	receiver *regexp.Regexp

	topLevel []fallbackRule
	members  []fallbackRule
	// enumCase matches enum entries inside enum bodies.
	enumCase *fallbackRule
}

func rule(pattern string, kind extraction.Kind, member extraction.MemberKind) fallbackRule {
	return fallbackRule{re: regexp.MustCompile(pattern), kind: kind, member: member}
}

func scopeRule(pattern string, kind extraction.Kind) fallbackRule {
	r := rule(pattern, kind, extraction.MemberProperty)
	r.scope = true
	return r
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var fallbackSyntaxes = map[string]*fallbackSyntax{
	"go": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^import\s+(?:(?P<spec>[\w.]+)\s+)?"(?P<source>[^"]+)"`),
		},
		block: regexp.MustCompile(`^(?P<kind>import|const|var|type)\s*\($`),
		blockEntry: map[string]fallbackRule{
			"import": rule(`^(?:(?P<spec>[\w.]+)\s+)?"(?P<name>[^"]+)"`, "", ""),
			"const":  rule(`^(?P<name>[A-Za-z_]\w*)`, extraction.KindConst, ""),
			"var":    rule(`^(?P<name>[A-Za-z_]\w*)`, extraction.KindVariable, ""),
			"type":   rule(`^(?P<name>[A-Za-z_]\w*)`, extraction.KindType, ""),
		},
		receiver: regexp.MustCompile(`^func\s+\(\s*(?:\w+\s+)?\*?(?P<recv>\w+)(?:\[[^\]]*\])?\s*\)\s*(?P<name>\w+)`),
		topLevel: []fallbackRule{
			rule(`^func\s+(?P<name>\w+)`, extraction.KindFunction, ""),
			scopeRule(`^type\s+(?P<name>\w+)(?:\[[^\]]*\])?\s+struct\b`, extraction.KindClass),
			scopeRule(`^type\s+(?P<name>\w+)(?:\[[^\]]*\])?\s+interface\b`, extraction.KindInterface),
			rule(`^type\s+(?P<name>\w+)`, extraction.KindType, ""),
			rule(`^const\s+(?P<name>\w+)`, extraction.KindConst, ""),
			rule(`^var\s+(?P<name>\w+)`, extraction.KindVariable, ""),
		},
		members: []fallbackRule{
			rule(`^(?P<name>[A-Za-z_]\w*)\(`, "", extraction.MemberMethod),
			rule(`^(?P<name>[A-Za-z_]\w*)(?:\s*,\s*\w+)*\s+[^\s=(]`, "", extraction.MemberProperty),
		},
	},

	"kotlin": {
		modifiers: wordSet("public", "private", "protected", "internal", "open", "abstract", "final",
			"sealed", "data", "enum", "annotation", "inner", "override", "suspend", "inline", "operator",
			"infix", "const", "lateinit", "companion", "external", "tailrec", "value", "expect", "actual"),
		imports:     []*regexp.Regexp{regexp.MustCompile(`^import\s+(?P<source>[\w.*]+)`)},
		splitImport: true,
		topLevel: []fallbackRule{
			scopeRule(`^class\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^(?:fun\s+)?interface\s+(?P<name>\w+)`, extraction.KindInterface),
			scopeRule(`^object\s+(?P<name>\w+)`, extraction.KindClass),
			rule(`^fun\s+(?:<[^>]*>\s*)?(?:[\w.<>?]+\.)?(?P<name>\w+)\s*\(`, extraction.KindFunction, ""),
			rule(`^val\s+(?P<name>\w+)`, extraction.KindConst, ""),
			rule(`^var\s+(?P<name>\w+)`, extraction.KindVariable, ""),
			rule(`^typealias\s+(?P<name>\w+)`, extraction.KindType, ""),
		},
		members: []fallbackRule{
			rule(`^fun\s+(?:<[^>]*>\s*)?(?:[\w.<>?]+\.)?(?P<name>\w+)\s*\(`, "", extraction.MemberMethod),
			rule(`^(?:val|var)\s+(?P<name>\w+)`, "", extraction.MemberProperty),
			scopeRule(`^class\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^interface\s+(?P<name>\w+)`, extraction.KindInterface),
			scopeRule(`^object\s+(?P<name>\w+)`, extraction.KindClass),
		},
		enumCase: &fallbackRule{re: regexp.MustCompile(`^(?P<name>[A-Z_][\w]*)\s*(?:\([^)]*\))?\s*[,;]?$`), member: extraction.MemberProperty},
	},

	"swift": {
		modifiers: wordSet("public", "private", "fileprivate", "internal", "open", "static", "final",
			"override", "mutating", "nonmutating", "convenience", "required", "lazy", "weak", "unowned",
			"dynamic", "indirect", "nonisolated"),
		imports: []*regexp.Regexp{regexp.MustCompile(`^import\s+(?:\w+\s+)?(?P<source>[\w.]+)`)},
		topLevel: []fallbackRule{
			scopeRule(`^(?:class|actor|struct)\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^protocol\s+(?P<name>\w+)`, extraction.KindInterface),
			scopeRule(`^enum\s+(?P<name>\w+)`, extraction.KindEnum),
			scopeRule(`^extension\s+(?P<name>[\w]+)`, extraction.KindClass),
			rule(`^func\s+(?P<name>\w+)`, extraction.KindFunction, ""),
			rule(`^let\s+(?P<name>\w+)`, extraction.KindConst, ""),
			rule(`^var\s+(?P<name>\w+)`, extraction.KindVariable, ""),
			rule(`^typealias\s+(?P<name>\w+)`, extraction.KindType, ""),
		},
		members: []fallbackRule{
			rule(`^(?:class\s+)?func\s+(?P<name>[^\s(<]+)`, "", extraction.MemberMethod),
			rule(`^(?P<name>init)[?!]?\s*[(<]`, "", extraction.MemberMethod),
			rule(`^(?:class\s+)?(?:var|let)\s+(?P<name>\w+)`, "", extraction.MemberProperty),
			scopeRule(`^(?:class|actor|struct)\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^enum\s+(?P<name>\w+)`, extraction.KindEnum),
		},
		enumCase: &fallbackRule{re: regexp.MustCompile(`^case\s+(?P<name>.+)$`), member: extraction.MemberProperty, names: true},
	},

	"csharp": {
		modifiers: wordSet("public", "private", "protected", "internal", "static", "readonly", "const",
			"virtual", "override", "abstract", "sealed", "async", "partial", "extern", "unsafe", "new",
			"volatile", "required", "file"),
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^using\s+(?:static\s+)?(?:\w+\s*=\s*)?(?P<source>[\w.]+)\s*;`),
		},
		namespace: regexp.MustCompile(`^namespace\s+[\w.]+\s*\{?$`),
		topLevel: []fallbackRule{
			scopeRule(`^(?:class|record(?:\s+class)?)\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^(?:struct|record\s+struct)\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^interface\s+(?P<name>\w+)`, extraction.KindInterface),
			scopeRule(`^enum\s+(?P<name>\w+)`, extraction.KindEnum),
			rule(`^delegate\s+.*?(?P<name>\w+)\s*(?:<[^>]*>)?\s*\(`, extraction.KindType, ""),
		},
		members: []fallbackRule{
			scopeRule(`^(?:class|record(?:\s+class)?)\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^(?:struct|record\s+struct)\s+(?P<name>\w+)`, extraction.KindClass),
			scopeRule(`^interface\s+(?P<name>\w+)`, extraction.KindInterface),
			scopeRule(`^enum\s+(?P<name>\w+)`, extraction.KindEnum),
			rule(`^(?:event\s+)?[\w<>\[\],.? ]+?\s+(?P<name>\w+)\s*(?:<[^>]*>)?\s*\(`, "", extraction.MemberMethod),
			rule(`^(?P<name>\w+)\s*\(`, "", extraction.MemberMethod),
			rule(`^(?:event\s+)?[\w<>\[\],.? ]+?\s+(?P<name>\w+)\s*(?:\{|=>|=|;)`, "", extraction.MemberProperty),
		},
		enumCase: &fallbackRule{re: regexp.MustCompile(`^(?P<name>\w+)\s*(?:=\s*[^,]+)?,?$`), member: extraction.MemberProperty},
	},
}

type fallbackScope struct {
	name        string
	kind        extraction.Kind
	bodyDepth   int
	transparent bool
}

type fallbackScanner struct {
	syn      *fallbackSyntax
	maxDepth int

	decls   []fallbackDecl
	scopes  []fallbackScope
	depth   int
	parens  int
	pending *fallbackScope
	doc     []string
	block   string

	inComment bool
	inRaw     bool
}

func newFallbackScanner(syn *fallbackSyntax, maxDepth int) *fallbackScanner {
	return &fallbackScanner{syn: syn, maxDepth: maxDepth}
}

func (s *fallbackScanner) scan(content string) ([]fallbackDecl, error) {
	for i, raw := range strings.Split(content, "\n") {
		wasComment := s.inComment
		code, shape := s.clean(raw)
		trimmed := strings.TrimSpace(raw)
		code = strings.TrimSpace(code)

		if code == "" {
			if trimmed == "" {
				s.doc = nil
			} else if wasComment || isCommentStart(trimmed) {
				s.doc = append(s.doc, trimmed)
			}
			continue
		}
		if isAnnotationLine(code) {
			s.count(shape)
			continue
		}

		if s.pending != nil && s.parens == 0 && !continuesDeclaration(code) {
			s.pending = nil
		}
		if s.parens == 0 || s.block != "" {
			s.match(code, i+1)
		}
		s.doc = nil

		if err := s.count(shape); err != nil {
			return nil, err
		}
	}
	return s.decls, nil
}

// count updates brace and paren depth from a line with strings blanked and
// closes scopes whose body ended.
func (s *fallbackScanner) count(shape string) error {
	for i := 0; i < len(shape); i++ {
		switch shape[i] {
		case '{':
			if s.pending != nil && s.parens == 0 {
				s.pending.bodyDepth = s.depth + 1
				s.scopes = append(s.scopes, *s.pending)
				s.pending = nil
			}
			s.depth++
		case '}':
			s.depth--
			for len(s.scopes) > 0 && s.depth < s.scopes[len(s.scopes)-1].bodyDepth {
				s.scopes = s.scopes[:len(s.scopes)-1]
			}
		case '(':
			s.parens++
		case ')':
			if s.parens > 0 {
				s.parens--
			}
			if s.parens == 0 && s.block != "" {
				s.block = ""
			}
		case ';':
			if s.parens == 0 {
				s.pending = nil
			}
		}
	}
	if s.depth < 0 {
		s.depth = 0
	}
	if s.depth > s.maxDepth {
		return ErrTooDeep
	}
	return nil
}

func (s *fallbackScanner) current() *fallbackScope {
	if len(s.scopes) == 0 {
		return nil
	}
	return &s.scopes[len(s.scopes)-1]
}

// match recognizes at most one declaration on a line.
func (s *fallbackScanner) match(code string, lineNo int) {
	top := s.current()
	atTop := (top == nil && s.depth == 0) || (top != nil && top.transparent && s.depth == top.bodyDepth)
	inBody := top != nil && !top.transparent && s.depth == top.bodyDepth

	if s.block != "" {
		if atTop && s.parens == 1 {
			s.matchBlockEntry(code, lineNo)
		}
		return
	}

	rest, mods := s.splitModifiers(code)
	switch {
	case atTop:
		if s.matchImport(code) {
			return
		}
		if s.syn.block != nil {
			if m := s.syn.block.FindStringSubmatch(code); m != nil {
				s.block = m[s.syn.block.SubexpIndex("kind")]
				return
			}
		}
		if s.syn.namespace != nil && s.syn.namespace.MatchString(code) {
			s.pending = &fallbackScope{transparent: true}
			return
		}
		if s.syn.receiver != nil {
			if m := s.syn.receiver.FindStringSubmatch(rest); m != nil {
				s.add(fallbackDecl{
					owner:     m[s.syn.receiver.SubexpIndex("recv")],
					member:    extraction.MemberMethod,
					name:      m[s.syn.receiver.SubexpIndex("name")],
					signature: declSignature(code),
					modifiers: mods,
				}, lineNo)
				return
			}
		}
		s.matchRules(s.syn.topLevel, rest, code, mods, "", lineNo)

	case inBody:
		if top.kind == extraction.KindEnum && s.syn.enumCase != nil {
			if s.matchEnumCase(rest, code, mods, top.name, lineNo) {
				return
			}
		}
		s.matchRules(s.syn.members, rest, code, mods, top.name, lineNo)
	}
}

func (s *fallbackScanner) matchRules(rules []fallbackRule, rest, code string, mods []string, owner string, lineNo int) {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		name := m[r.re.SubexpIndex("name")]
		if name == "" {
			return
		}
		if r.scope {
			kind := r.kind
			if containsKind(mods, "enum") {
				kind = extraction.KindEnum
			}
			qualified := qualify(owner, name)
			s.add(fallbackDecl{
				kind:      kind,
				name:      qualified,
				signature: declSignature(code),
				modifiers: mods,
			}, lineNo)
			s.pending = &fallbackScope{name: qualified, kind: kind}
			return
		}
		d := fallbackDecl{
			kind:      r.kind,
			member:    r.member,
			name:      name,
			signature: declSignature(code),
			modifiers: mods,
		}
		if owner != "" {
			d.owner = owner
		}
		s.add(d, lineNo)
		return
	}
}

func (s *fallbackScanner) matchEnumCase(rest, code string, mods []string, owner string, lineNo int) bool {
	r := s.syn.enumCase
	m := r.re.FindStringSubmatch(rest)
	if m == nil {
		return false
	}
	names := []string{m[r.re.SubexpIndex("name")]}
	if r.names {
		names = splitCaseNames(names[0])
	}
	for _, name := range names {
		s.add(fallbackDecl{
			owner:     owner,
			member:    r.member,
			name:      name,
			signature: declSignature(code),
			modifiers: append([]string{"public"}, mods...),
		}, lineNo)
	}
	return true
}

// splitCaseNames turns `a, b(Int), c = 3` into a, b and c.
func splitCaseNames(list string) []string {
	var names []string
	depth := 0
	start := 0
	for i := 0; i <= len(list); i++ {
		if i < len(list) {
			switch list[i] {
			case '(':
				depth++
				continue
			case ')':
				depth--
				continue
			case ',':
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}
		part := strings.TrimSpace(list[start:i])
		if j := strings.IndexAny(part, "(= "); j >= 0 {
			part = part[:j]
		}
		if part != "" {
			names = append(names, part)
		}
		start = i + 1
	}
	return names
}

func (s *fallbackScanner) matchImport(code string) bool {
	for _, re := range s.syn.imports {
		m := re.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		source := m[re.SubexpIndex("source")]
		var specs []string
		if i := re.SubexpIndex("spec"); i >= 0 && m[i] != "" {
			specs = append(specs, m[i])
		}
		if s.syn.splitImport {
			if j := strings.LastIndexByte(source, '.'); j > 0 {
				specs = append(specs, source[j+1:])
				source = source[:j]
			}
		}
		s.decls = append(s.decls, fallbackDecl{isImport: true, source: source, specs: specs})
		return true
	}
	return false
}

func (s *fallbackScanner) matchBlockEntry(code string, lineNo int) {
	r, ok := s.syn.blockEntry[s.block]
	if !ok {
		return
	}
	m := r.re.FindStringSubmatch(code)
	if m == nil {
		return
	}
	name := m[r.re.SubexpIndex("name")]
	if s.block == "import" {
		var specs []string
		if i := r.re.SubexpIndex("spec"); i >= 0 && m[i] != "" {
			specs = append(specs, m[i])
		}
		s.decls = append(s.decls, fallbackDecl{isImport: true, source: name, specs: specs})
		return
	}
	s.add(fallbackDecl{
		kind:      r.kind,
		name:      name,
		signature: s.block + " " + declSignature(code),
	}, lineNo)
}

func (s *fallbackScanner) add(d fallbackDecl, lineNo int) {
	d.line = lineNo
	d.doc = strings.Join(s.doc, "\n")
	s.decls = append(s.decls, d)
}

// splitModifiers strips leading modifier keywords and annotations, returning
// the remainder and the keywords in source order.
func (s *fallbackScanner) splitModifiers(code string) (string, []string) {
	if len(s.syn.modifiers) == 0 {
		return code, nil
	}
	var mods []string
	rest := code
	for {
		rest = strings.TrimLeft(rest, " \t")
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			return rest, mods
		}
		word := rest[:i]
		base := word
		if j := strings.IndexByte(word, '('); j > 0 {
			// Swift setter access such as private(set).
			base = word[:j]
		}
		switch {
		case strings.HasPrefix(word, "@"):
		case strings.HasPrefix(word, "[") && strings.HasSuffix(word, "]"):
		case s.syn.modifiers[base]:
			mods = append(mods, word)
		default:
			return rest, mods
		}
		rest = rest[i:]
	}
}

// clean strips comments from a line and returns it twice: once with string
// literals intact for matching and once with their contents blanked for
// brace counting.
func (s *fallbackScanner) clean(line string) (code, shape string) {
	var cb, sb strings.Builder
	var quote byte
scan:
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case s.inComment:
			if ch == '*' && i+1 < len(line) && line[i+1] == '/' {
				s.inComment = false
				i++
			}
			continue
		case s.inRaw:
			cb.WriteByte(ch)
			if ch == '`' {
				s.inRaw = false
				sb.WriteByte(ch)
			}
			continue
		case quote != 0:
			cb.WriteByte(ch)
			if ch == '\\' && i+1 < len(line) {
				cb.WriteByte(line[i+1])
				i++
				continue
			}
			if ch == quote {
				quote = 0
				sb.WriteByte(ch)
			}
			continue
		}
		if ch == '/' && i+1 < len(line) {
			switch line[i+1] {
			case '/':
				break scan
			case '*':
				s.inComment = true
				i++
				continue
			}
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '`':
			s.inRaw = true
		}
		cb.WriteByte(ch)
		sb.WriteByte(ch)
	}
	return cb.String(), sb.String()
}

// continuesDeclaration reports whether a line still belongs to the header
// of a type whose body has not opened yet.
func continuesDeclaration(code string) bool {
	return strings.HasPrefix(code, "{") || strings.HasPrefix(code, ":") ||
		strings.HasPrefix(code, "where ") || strings.HasPrefix(code, ")")
}

func isCommentStart(line string) bool {
	return strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*")
}

func isAnnotationLine(code string) bool {
	if strings.HasPrefix(code, "@") && !strings.ContainsAny(code, "{}") {
		return !strings.Contains(code, " fun ") && !strings.Contains(code, " class ")
	}
	return strings.HasPrefix(code, "[") && strings.HasSuffix(code, "]")
}

// declSignature is the declaration line up to where its body opens.
func declSignature(code string) string {
	sig := strings.TrimSpace(code)
	if i := bodyOpen(sig); i >= 0 {
		sig = sig[:i]
	}
	sig = strings.TrimSuffix(strings.TrimSpace(sig), ";")
	return strings.TrimSpace(strings.TrimSuffix(sig, "=>"))
}

// bodyOpen returns the offset of the brace that opens a declaration body, or
// -1. Braces inside parens, brackets and string literals are ignored, as are
// type literals such as struct{} and interface{} that close on the line.
func bodyOpen(code string) int {
	depth := 0
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '"', '\'', '`':
			i = skipQuoted(code, i)
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '{':
			if depth > 0 {
				continue
			}
			if !isTypeLiteral(code[:i]) {
				return i
			}
			end := matchingBrace(code, i)
			if end < 0 {
				return i
			}
			i = end
		}
	}
	return -1
}

func isTypeLiteral(before string) bool {
	before = strings.TrimRight(before, " \t")
	for _, kw := range []string{"struct", "interface"} {
		if strings.HasSuffix(before, kw) {
			rest := before[:len(before)-len(kw)]
			if rest == "" || !isIdentByte(rest[len(rest)-1]) {
				return true
			}
		}
	}
	return false
}

// matchingBrace returns the offset of the brace closing the one at open, or
// -1 when it does not close on the line.
func matchingBrace(code string, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '"', '\'', '`':
			i = skipQuoted(code, i)
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipQuoted returns the offset of the quote closing the literal that starts
// at i, or the end of the line.
func skipQuoted(code string, i int) int {
	quote := code[i]
	for j := i + 1; j < len(code); j++ {
		switch code[j] {
		case '\\':
			if quote != '`' {
				j++
			}
		case quote:
			return j
		}
	}
	return len(code)
}

func isIdentByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
