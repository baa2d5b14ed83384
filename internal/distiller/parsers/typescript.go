package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// maxInlineValue is the longest initializer kept in a variable signature.
const maxInlineValue = 80

var tsMemberModifiers = []string{
	"accessibility_modifier", "static", "async", "readonly", "abstract", "override", "get", "set", "declare",
}

// typeScriptRules serve TypeScript and JavaScript. Control-flow statements
// are skipped whole since bindings inside them are locals.
func typeScriptRules() *languageRules {
	declaration := func(c *conversion, n *sitter.Node) {
		tsDeclaration(c, n, n, nil)
	}
	return &languageRules{
		handlers: map[string]nodeHandler{
			"import_statement":               tsImport,
			"export_statement":               tsExport,
			"class_declaration":              declaration,
			"abstract_class_declaration":     declaration,
			"interface_declaration":          declaration,
			"type_alias_declaration":         declaration,
			"enum_declaration":               declaration,
			"function_declaration":           declaration,
			"generator_function_declaration": declaration,
			"function_signature":             declaration,
			"lexical_declaration":            declaration,
			"variable_declaration":           declaration,
			"expression_statement":           skipNode,
			"statement_block":                skipNode,
			"if_statement":                   skipNode,
			"for_statement":                  skipNode,
			"for_in_statement":               skipNode,
			"while_statement":                skipNode,
			"do_statement":                   skipNode,
			"try_statement":                  skipNode,
			"switch_statement":               skipNode,
			"labeled_statement":              skipNode,
			"with_statement":                 skipNode,
		},
		finalize: tsFinalize,
	}
}

func tsImport(c *conversion, n *sitter.Node) {
	source := unquote(c.fieldText(n, "source"))
	specifiers := []string{}
	if clause := findChildByKind(n, "import_clause"); clause != nil {
		for _, child := range namedChildren(clause) {
			switch child.Kind() {
			case "identifier":
				specifiers = append(specifiers, c.text(child))
			case "namespace_import":
				specifiers = append(specifiers, strings.Join(strings.Fields(c.text(child)), " "))
			case "named_imports":
				for _, spec := range findChildrenByKind(child, "import_specifier") {
					specifiers = append(specifiers, c.fieldText(spec, "name"))
				}
			}
		}
	}
	c.addImport(source, specifiers...)
}

func tsExport(c *conversion, n *sitter.Node) {
	mods := []string{"export"}
	if findChildByKind(n, "default") != nil {
		mods = append(mods, "default")
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		tsDeclaration(c, decl, n, mods)
		return
	}

	source := n.ChildByFieldName("source")
	clause := findChildByKind(n, "export_clause")
	if clause == nil {
		if source != nil {
			c.addImport(unquote(c.text(source)), "*")
		}
		return
	}
	var names []string
	for _, spec := range findChildrenByKind(clause, "export_specifier") {
		names = append(names, c.fieldText(spec, "name"))
	}
	if source != nil {
		c.addImport(unquote(c.text(source)), names...)
		return
	}
	for _, name := range names {
		c.exportedNames[name] = true
	}
}

// tsDeclaration extracts decl. anchor is the outermost node of the statement
// (the export statement when exported) and marks where the signature starts.
func tsDeclaration(c *conversion, decl, anchor *sitter.Node, mods []string) {
	doc := c.precedingComments(anchor, "comment")
	switch decl.Kind() {
	case "class_declaration", "abstract_class_declaration", "class":
		body := decl.ChildByFieldName("body")
		name := c.fieldText(decl, "name")
		exp := extraction.CanonicalExport{
			Name:      name,
			Kind:      extraction.KindClass,
			Signature: c.signature(anchor, body),
			Modifiers: mods,
			RawDoc:    doc,
			Line:      line(anchor),
		}
		if body != nil && c.enterBody() {
			exp.Members = tsClassMembers(c, body)
			c.leaveBody()
		}
		c.addExport(exp)

	case "interface_declaration":
		body := decl.ChildByFieldName("body")
		exp := extraction.CanonicalExport{
			Name:      c.fieldText(decl, "name"),
			Kind:      extraction.KindInterface,
			Signature: c.signature(anchor, body),
			Modifiers: mods,
			RawDoc:    doc,
			Line:      line(anchor),
		}
		if body != nil && c.enterBody() {
			exp.Members = tsInterfaceMembers(c, body)
			c.leaveBody()
		}
		c.addExport(exp)

	case "enum_declaration":
		body := decl.ChildByFieldName("body")
		exp := extraction.CanonicalExport{
			Name:      c.fieldText(decl, "name"),
			Kind:      extraction.KindEnum,
			Signature: c.signature(anchor, body),
			Modifiers: mods,
			RawDoc:    doc,
			Line:      line(anchor),
		}
		for _, child := range namedChildren(body) {
			name := ""
			switch child.Kind() {
			case "property_identifier":
				name = c.text(child)
			case "enum_assignment":
				name = c.fieldText(child, "name")
			}
			if name != "" {
				exp.Members = append(exp.Members, extraction.CanonicalMember{
					Name:      name,
					Kind:      extraction.MemberProperty,
					Signature: strings.TrimSpace(c.text(child)),
					Line:      line(child),
				})
			}
		}
		c.addExport(exp)

	case "type_alias_declaration":
		c.addExport(extraction.CanonicalExport{
			Name:      c.fieldText(decl, "name"),
			Kind:      extraction.KindType,
			Signature: strings.TrimSuffix(c.signature(anchor, nil), ";"),
			Modifiers: mods,
			RawDoc:    doc,
			Line:      line(anchor),
		})

	case "function_declaration", "generator_function_declaration", "function_signature":
		c.addExport(extraction.CanonicalExport{
			Name:      c.fieldText(decl, "name"),
			Kind:      extraction.KindFunction,
			Signature: strings.TrimSuffix(c.signature(anchor, decl.ChildByFieldName("body")), ";"),
			Modifiers: mods,
			RawDoc:    doc,
			Line:      line(anchor),
		})

	case "lexical_declaration", "variable_declaration":
		tsVariables(c, decl, anchor, mods, doc)
	}
}

func tsVariables(c *conversion, decl, anchor *sitter.Node, mods []string, doc string) {
	isConst := decl.ChildCount() > 0 && decl.Child(0).Kind() == "const"
	for _, d := range findChildrenByKind(decl, "variable_declarator") {
		nameNode := d.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}
		kind := extraction.KindVariable
		if isConst {
			kind = extraction.KindConst
		}
		value := d.ChildByFieldName("value")
		var sig string
		switch {
		case value != nil && isFunctionValue(value.Kind()):
			kind = extraction.KindFunction
			sig = c.span(anchor.StartByte(), bodyStart(value))
		case value != nil && !isInlineValue(c.text(value)):
			sig = strings.TrimSpace(strings.TrimSuffix(c.span(anchor.StartByte(), value.StartByte()), "="))
		default:
			sig = c.span(anchor.StartByte(), d.EndByte())
		}
		c.addExport(extraction.CanonicalExport{
			Name:      c.text(nameNode),
			Kind:      kind,
			Signature: sig,
			Modifiers: mods,
			RawDoc:    doc,
			Line:      line(anchor),
		})
	}
}

func isFunctionValue(kind string) bool {
	return kind == "arrow_function" || kind == "function_expression" || kind == "function" || kind == "generator_function"
}

func isInlineValue(v string) bool {
	return len(v) <= maxInlineValue && !strings.Contains(v, "\n")
}

func bodyStart(fn *sitter.Node) uint {
	if body := fn.ChildByFieldName("body"); body != nil {
		return body.StartByte()
	}
	return fn.EndByte()
}

func tsClassMembers(c *conversion, body *sitter.Node) []extraction.CanonicalMember {
	var members []extraction.CanonicalMember
	for _, child := range namedChildren(body) {
		switch child.Kind() {
		case "method_definition", "method_signature", "abstract_method_signature":
			members = appendTSMember(c, members, child, extraction.MemberMethod,
				strings.TrimSuffix(c.signature(child, child.ChildByFieldName("body")), ";"))
		case "public_field_definition":
			members = appendTSMember(c, members, child, extraction.MemberProperty, c.statementSignature(child))
		}
	}
	return members
}

func tsInterfaceMembers(c *conversion, body *sitter.Node) []extraction.CanonicalMember {
	var members []extraction.CanonicalMember
	for _, child := range namedChildren(body) {
		switch child.Kind() {
		case "method_signature":
			members = appendTSMember(c, members, child, extraction.MemberMethod, trimMemberTerminator(c.text(child)))
		case "property_signature":
			members = appendTSMember(c, members, child, extraction.MemberProperty, trimMemberTerminator(c.text(child)))
		}
	}
	return members
}

func appendTSMember(c *conversion, members []extraction.CanonicalMember, n *sitter.Node, kind extraction.MemberKind, sig string) []extraction.CanonicalMember {
	name := c.fieldText(n, "name")
	if name == "" {
		return members
	}
	mods := c.modifierTokens(n, tsMemberModifiers...)
	if strings.HasPrefix(name, "#") {
		mods = append(mods, "#")
	}
	return append(members, extraction.CanonicalMember{
		Name:      name,
		Kind:      kind,
		Signature: sig,
		Modifiers: mods,
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

func trimMemberTerminator(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSuffix(s, ",")
}

// tsFinalize marks declarations exported through `export { name }` lists.
func tsFinalize(c *conversion) {
	for i := range c.api.Exports {
		exp := &c.api.Exports[i]
		if c.exportedNames[exp.Name] && !exp.HasModifier("export") {
			exp.Modifiers = append(exp.Modifiers, "export")
		}
	}
}
