package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// nodeHandler extracts declarations from one allow-listed node kind.
type nodeHandler func(c *conversion, n *sitter.Node)

// languageRules describe how a grammar's tree maps onto the canonical model.
// The handler map is the allow-list of extractable node kinds; any named node
// not in it is descended into, unnamed nodes are always transparent.
type languageRules struct {
	handlers map[string]nodeHandler
	finalize func(c *conversion)
}

// conversion carries the state of one file's conversion. It borrows the
// syntax tree for the duration of run and keeps no reference afterwards.
type conversion struct {
	source   []byte
	language string
	rules    *languageRules
	api      *extraction.CanonicalAPI
	maxDepth int
	err      error

	// nesting counts enclosing class bodies currently being walked.
	nesting int

	// exportedNames collects names re-exported by `export { a, b }`.
	exportedNames map[string]bool

	// impls collects rust impl blocks, merged into their types on finalize.
	impls []rustImpl
}

func newConversion(pf *ParsedFile, rules *languageRules, maxDepth int) *conversion {
	return &conversion{
		source:        pf.Source,
		language:      pf.Language,
		rules:         rules,
		api:           extraction.NewCanonicalAPI(pf.Path, pf.Language),
		maxDepth:      maxDepth,
		exportedNames: map[string]bool{},
	}
}

func (c *conversion) run(root *sitter.Node) error {
	c.walk(root, 0)
	if c.err != nil {
		return c.err
	}
	if c.rules.finalize != nil {
		c.rules.finalize(c)
	}
	c.api.Normalize()
	return c.err
}

// walk descends the tree, dispatching allow-listed named nodes to their
// handler. Handled nodes are not descended into.
func (c *conversion) walk(n *sitter.Node, depth int) {
	if n == nil || c.err != nil {
		return
	}
	if depth > c.maxDepth {
		c.err = ErrTooDeep
		return
	}
	if n.IsNamed() {
		if h, ok := c.rules.handlers[n.Kind()]; ok {
			h(c, n)
			return
		}
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		c.walk(n.Child(i), depth+1)
	}
}

// enterBody guards recursion through nested class bodies. Callers must call
// leaveBody when enterBody returns true.
func (c *conversion) enterBody() bool {
	if c.err != nil {
		return false
	}
	c.nesting++
	if c.nesting > c.maxDepth {
		c.err = ErrTooDeep
		c.nesting--
		return false
	}
	return true
}

func (c *conversion) leaveBody() { c.nesting-- }

func (c *conversion) addExport(e extraction.CanonicalExport) {
	if e.Name == "" {
		return
	}
	c.api.Exports = append(c.api.Exports, e)
}

func (c *conversion) addImport(source string, specifiers ...string) {
	if source == "" {
		return
	}
	if specifiers == nil {
		specifiers = []string{}
	}
	c.api.Imports = append(c.api.Imports, extraction.CanonicalImport{
		Source:     source,
		Specifiers: specifiers,
	})
}

// text returns the source text spanned by n.
func (c *conversion) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(c.source[n.StartByte():n.EndByte()])
}

func (c *conversion) fieldText(n *sitter.Node, field string) string {
	if n == nil {
		return ""
	}
	return c.text(n.ChildByFieldName(field))
}

// signature returns the verbatim source from the start of from up to the
// start of body, or the whole of from when body is nil.
func (c *conversion) signature(from, body *sitter.Node) string {
	if from == nil {
		return ""
	}
	end := from.EndByte()
	if body != nil && body.StartByte() >= from.StartByte() && body.StartByte() <= end {
		end = body.StartByte()
	}
	return strings.TrimSpace(string(c.source[from.StartByte():end]))
}

// statementSignature returns the first line of a body-less declaration,
// without a trailing semicolon.
func (c *conversion) statementSignature(n *sitter.Node) string {
	sig := c.text(n)
	if i := strings.IndexByte(sig, '\n'); i >= 0 {
		sig = sig[:i]
	}
	return strings.TrimSuffix(strings.TrimSpace(sig), ";")
}

func line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPosition().Row) + 1
}

// precedingComments returns the block of comment nodes directly above
// anchor, joined in source order. A blank line ends the block.
func (c *conversion) precedingComments(anchor *sitter.Node, kinds ...string) string {
	if anchor == nil {
		return ""
	}
	var parts []string
	next := anchor
	for prev := anchor.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if !containsKind(kinds, prev.Kind()) {
			break
		}
		if int(next.StartPosition().Row)-int(prev.EndPosition().Row) > 1 {
			break
		}
		parts = append([]string{strings.TrimRight(c.text(prev), "\r\n")}, parts...)
		next = prev
	}
	return strings.Join(parts, "\n")
}

// modifierTokens returns the text of direct children of n whose kind is one
// of kinds.
func (c *conversion) modifierTokens(n *sitter.Node, kinds ...string) []string {
	var mods []string
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if containsKind(kinds, child.Kind()) {
			mods = append(mods, strings.TrimSpace(c.text(child)))
		}
	}
	return mods
}

func containsKind(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// findChildByKind finds the first direct child with the given kind.
func findChildByKind(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// findChildrenByKind finds all direct children with the given kind.
func findChildrenByKind(n *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if n == nil {
		return results
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// namedChildren returns the named direct children of n.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`' || first == '<') &&
			(last == first || (first == '<' && last == '>')) {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// span returns the trimmed source between two byte offsets.
func (c *conversion) span(start, end uint) string {
	if end < start || int(end) > len(c.source) {
		return ""
	}
	return strings.TrimSpace(string(c.source[start:end]))
}

// skipNode is registered for node kinds whose subtrees hold no declarations
// of interest, such as top-level expression statements wrapping callbacks.
func skipNode(*conversion, *sitter.Node) {}
