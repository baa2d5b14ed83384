package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

func cRules() *languageRules {
	return &languageRules{
		handlers: map[string]nodeHandler{
			"preproc_include":      cInclude,
			"preproc_def":          cMacro,
			"preproc_function_def": cMacro,
			"function_definition":  cFunction,
			"declaration":          cDeclaration,
			"type_definition":      cTypedef,
			"struct_specifier":     cRecordSpecifier,
			"union_specifier":      cRecordSpecifier,
			"enum_specifier":       cRecordSpecifier,
			"expression_statement": skipNode,
		},
	}
}

func cInclude(c *conversion, n *sitter.Node) {
	c.addImport(unquote(c.fieldText(n, "path")))
}

func cMacro(c *conversion, n *sitter.Node) {
	kind := extraction.KindConst
	if n.Kind() == "preproc_function_def" {
		kind = extraction.KindFunction
	}
	c.addExport(extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      kind,
		Signature: c.statementSignature(n),
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

// cStorage returns storage class and type qualifiers such as static, extern
// and const.
func cStorage(c *conversion, n *sitter.Node) []string {
	return c.modifierTokens(n, "storage_class_specifier", "type_qualifier")
}

// cDeclaratorName unwraps pointer, array and init declarators down to the
// declared identifier.
func cDeclaratorName(c *conversion, n *sitter.Node) string {
	for depth := 0; n != nil && depth < c.maxDepth; depth++ {
		switch n.Kind() {
		case "identifier", "field_identifier", "type_identifier":
			return c.text(n)
		case "parenthesized_declarator":
			n = n.NamedChild(0)
			continue
		}
		n = n.ChildByFieldName("declarator")
	}
	return ""
}

// cFunctionDeclarator finds the function_declarator in a declarator chain.
func cFunctionDeclarator(n *sitter.Node) *sitter.Node {
	for depth := 0; n != nil && depth < DefaultLimits().MaxNestingDepth; depth++ {
		if n.Kind() == "function_declarator" {
			return n
		}
		n = n.ChildByFieldName("declarator")
	}
	return nil
}

func cFunction(c *conversion, n *sitter.Node) {
	fn := cFunctionDeclarator(n.ChildByFieldName("declarator"))
	if fn == nil {
		return
	}
	c.addExport(extraction.CanonicalExport{
		Name:      cDeclaratorName(c, fn),
		Kind:      extraction.KindFunction,
		Signature: c.signature(n, n.ChildByFieldName("body")),
		Modifiers: cStorage(c, n),
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

// cDeclaration handles top-level declarations: prototypes, globals and
// struct definitions with trailing declarators.
func cDeclaration(c *conversion, n *sitter.Node) {
	mods := cStorage(c, n)
	doc := c.precedingComments(n, "comment")
	if t := n.ChildByFieldName("type"); t != nil {
		if t.ChildByFieldName("body") != nil {
			cRecordSpecifier(c, t)
		}
	}
	kind := extraction.KindVariable
	if containsKind(mods, "const") {
		kind = extraction.KindConst
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.FieldNameForChild(uint32(i)) != "declarator" {
			continue
		}
		decl := n.Child(i)
		if cFunctionDeclarator(decl) != nil {
			c.addExport(extraction.CanonicalExport{
				Name:      cDeclaratorName(c, decl),
				Kind:      extraction.KindFunction,
				Signature: strings.TrimSuffix(strings.TrimSpace(c.text(n)), ";"),
				Modifiers: mods,
				RawDoc:    doc,
				Line:      line(n),
			})
			continue
		}
		sig := c.statementSignature(n)
		if decl.Kind() == "init_declarator" {
			if v := decl.ChildByFieldName("value"); v != nil && !isInlineValue(c.text(v)) {
				sig = strings.TrimSpace(strings.TrimSuffix(c.span(n.StartByte(), v.StartByte()), "="))
			}
		}
		c.addExport(extraction.CanonicalExport{
			Name:      cDeclaratorName(c, decl),
			Kind:      kind,
			Signature: sig,
			Modifiers: mods,
			RawDoc:    doc,
			Line:      line(n),
		})
	}
}

// cTypedef handles `typedef struct {...} Name;` as a record named by the
// typedef and any other typedef as a type alias.
func cTypedef(c *conversion, n *sitter.Node) {
	name := cDeclaratorName(c, n.ChildByFieldName("declarator"))
	t := n.ChildByFieldName("type")
	if t != nil && t.ChildByFieldName("body") != nil {
		exp := cRecord(c, t, n)
		if name != "" {
			exp.Name = name
		}
		exp.Signature = "typedef " + exp.Signature
		c.addExport(exp)
		return
	}
	c.addExport(extraction.CanonicalExport{
		Name:      name,
		Kind:      extraction.KindType,
		Signature: strings.TrimSuffix(strings.TrimSpace(c.text(n)), ";"),
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

func cRecordSpecifier(c *conversion, n *sitter.Node) {
	if n.ChildByFieldName("body") == nil {
		return
	}
	anchor := n
	if p := n.Parent(); p != nil && p.Kind() == "declaration" {
		anchor = p
	}
	c.addExport(cRecord(c, n, anchor))
}

// cRecord converts a struct, union or enum specifier with a body.
func cRecord(c *conversion, n, anchor *sitter.Node) extraction.CanonicalExport {
	body := n.ChildByFieldName("body")
	kind := extraction.KindClass
	if n.Kind() == "enum_specifier" {
		kind = extraction.KindEnum
	}
	exp := extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      kind,
		Signature: c.signature(n, body),
		RawDoc:    c.precedingComments(anchor, "comment"),
		Line:      line(n),
	}
	switch body.Kind() {
	case "field_declaration_list":
		for _, f := range findChildrenByKind(body, "field_declaration") {
			sig := strings.TrimSuffix(strings.TrimSpace(c.text(f)), ";")
			for i := uint(0); i < f.ChildCount(); i++ {
				if f.FieldNameForChild(uint32(i)) != "declarator" {
					continue
				}
				exp.Members = append(exp.Members, extraction.CanonicalMember{
					Name:      cDeclaratorName(c, f.Child(i)),
					Kind:      extraction.MemberProperty,
					Signature: sig,
					RawDoc:    c.precedingComments(f, "comment"),
					Line:      line(f),
				})
			}
		}
	case "enumerator_list":
		for _, e := range findChildrenByKind(body, "enumerator") {
			exp.Members = append(exp.Members, extraction.CanonicalMember{
				Name:      c.fieldText(e, "name"),
				Kind:      extraction.MemberProperty,
				Signature: strings.TrimSpace(c.text(e)),
				Line:      line(e),
			})
		}
	}
	return exp
}
