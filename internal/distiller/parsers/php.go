package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

var phpMemberModifiers = []string{
	"visibility_modifier", "static_modifier", "abstract_modifier", "final_modifier", "readonly_modifier",
}

func phpRules() *languageRules {
	typeDecl := func(c *conversion, n *sitter.Node) {
		phpType(c, n)
	}
	return &languageRules{
		handlers: map[string]nodeHandler{
			"namespace_use_declaration": phpUse,
			"class_declaration":         typeDecl,
			"interface_declaration":     typeDecl,
			"trait_declaration":         typeDecl,
			"enum_declaration":          typeDecl,
			"function_definition":       phpFunction,
			"const_declaration":         phpConst,
			"expression_statement":      skipNode,
		},
	}
}

// phpUse splits `use A\B\C;` into source `A\B` and specifier C. Group uses
// `use A\{B, C};` keep the shared prefix as source.
func phpUse(c *conversion, n *sitter.Node) {
	text := strings.Join(strings.Fields(c.text(n)), " ")
	text = strings.TrimSuffix(strings.TrimPrefix(text, "use "), ";")
	for _, prefix := range []string{"function ", "const "} {
		text = strings.TrimPrefix(text, prefix)
	}
	text = strings.TrimPrefix(strings.TrimSpace(text), `\`)

	if i := strings.Index(text, "{"); i >= 0 {
		source := strings.TrimSuffix(strings.TrimSpace(text[:i]), `\`)
		var specs []string
		for _, s := range strings.Split(strings.TrimSuffix(text[i+1:], "}"), ",") {
			if s = phpUseName(s); s != "" {
				specs = append(specs, s)
			}
		}
		c.addImport(source, specs...)
		return
	}
	for _, clause := range strings.Split(text, ",") {
		clause = phpUseName(clause)
		i := strings.LastIndex(clause, `\`)
		if i < 0 {
			c.addImport(clause)
			continue
		}
		c.addImport(clause[:i], clause[i+1:])
	}
}

func phpUseName(s string) string {
	if i := strings.Index(s, " as "); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func phpTypeKind(kind string) extraction.Kind {
	switch kind {
	case "interface_declaration":
		return extraction.KindInterface
	case "enum_declaration":
		return extraction.KindEnum
	default:
		return extraction.KindClass
	}
}

func phpType(c *conversion, n *sitter.Node) {
	body := n.ChildByFieldName("body")
	exp := extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      phpTypeKind(n.Kind()),
		Signature: c.signature(n, body),
		Modifiers: c.modifierTokens(n, "abstract_modifier", "final_modifier", "readonly_modifier"),
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	}
	if n.Kind() == "trait_declaration" {
		exp.Modifiers = append(exp.Modifiers, "trait")
	}
	if body != nil && c.enterBody() {
		exp.Members = phpMembers(c, body)
		c.leaveBody()
	}
	c.addExport(exp)
}

func phpMembers(c *conversion, body *sitter.Node) []extraction.CanonicalMember {
	var members []extraction.CanonicalMember
	for _, child := range namedChildren(body) {
		mods := c.modifierTokens(child, phpMemberModifiers...)
		doc := c.precedingComments(child, "comment")
		switch child.Kind() {
		case "method_declaration":
			members = append(members, extraction.CanonicalMember{
				Name:      c.fieldText(child, "name"),
				Kind:      extraction.MemberMethod,
				Signature: strings.TrimSuffix(c.signature(child, child.ChildByFieldName("body")), ";"),
				Modifiers: mods,
				RawDoc:    doc,
				Line:      line(child),
			})
		case "property_declaration":
			for _, el := range findChildrenByKind(child, "property_element") {
				members = append(members, extraction.CanonicalMember{
					Name:      phpVariableName(c, el),
					Kind:      extraction.MemberProperty,
					Signature: c.statementSignature(child),
					Modifiers: mods,
					RawDoc:    doc,
					Line:      line(child),
				})
			}
		case "const_declaration":
			for _, el := range findChildrenByKind(child, "const_element") {
				members = append(members, extraction.CanonicalMember{
					Name:      phpConstName(c, el),
					Kind:      extraction.MemberProperty,
					Signature: c.statementSignature(child),
					Modifiers: append(mods, "const"),
					RawDoc:    doc,
					Line:      line(child),
				})
			}
		case "enum_case":
			members = append(members, extraction.CanonicalMember{
				Name:      c.fieldText(child, "name"),
				Kind:      extraction.MemberProperty,
				Signature: c.statementSignature(child),
				Modifiers: []string{"public"},
				RawDoc:    doc,
				Line:      line(child),
			})
		}
	}
	return members
}

// phpVariableName returns a property name without its leading `$`.
func phpVariableName(c *conversion, el *sitter.Node) string {
	v := findChildByKind(el, "variable_name")
	if v == nil {
		return ""
	}
	return strings.TrimPrefix(c.text(v), "$")
}

func phpConstName(c *conversion, el *sitter.Node) string {
	if n := findChildByKind(el, "name"); n != nil {
		return c.text(n)
	}
	return ""
}

func phpFunction(c *conversion, n *sitter.Node) {
	c.addExport(extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.KindFunction,
		Signature: c.signature(n, n.ChildByFieldName("body")),
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

func phpConst(c *conversion, n *sitter.Node) {
	for _, el := range findChildrenByKind(n, "const_element") {
		c.addExport(extraction.CanonicalExport{
			Name:      phpConstName(c, el),
			Kind:      extraction.KindConst,
			Signature: c.statementSignature(n),
			RawDoc:    c.precedingComments(n, "comment"),
			Line:      line(n),
		})
	}
}
