package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

var javaDocKinds = []string{"block_comment", "line_comment"}

func javaRules() *languageRules {
	typeDecl := func(c *conversion, n *sitter.Node) {
		javaType(c, n, "", "")
	}
	return &languageRules{
		handlers: map[string]nodeHandler{
			"import_declaration":          javaImport,
			"class_declaration":           typeDecl,
			"interface_declaration":       typeDecl,
			"enum_declaration":            typeDecl,
			"record_declaration":          typeDecl,
			"annotation_type_declaration": typeDecl,
		},
	}
}

// javaImport splits `import a.b.C;` into source "a.b" and specifier "C".
func javaImport(c *conversion, n *sitter.Node) {
	path := strings.TrimSpace(c.text(n))
	path = strings.TrimPrefix(path, "import")
	path = strings.TrimSuffix(strings.TrimSpace(path), ";")
	path = strings.TrimSpace(path)
	path = strings.TrimSpace(strings.TrimPrefix(path, "static "))
	path = strings.Join(strings.Fields(path), "")

	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		c.addImport(path)
		return
	}
	c.addImport(path[:i], path[i+1:])
}

func javaTypeKind(kind string) extraction.Kind {
	switch kind {
	case "interface_declaration", "annotation_type_declaration":
		return extraction.KindInterface
	case "enum_declaration":
		return extraction.KindEnum
	default:
		return extraction.KindClass
	}
}

// javaType extracts a type declaration. owner is the kind of the enclosing
// type declaration, empty at top level.
func javaType(c *conversion, n *sitter.Node, prefix, owner string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qualified := qualify(prefix, name)
	body := n.ChildByFieldName("body")
	mods := javaModifiers(c, n)
	if owner == "interface_declaration" && !hasVisibility(mods) {
		mods = append(mods, "public")
	}
	exp := extraction.CanonicalExport{
		Name:      qualified,
		Kind:      javaTypeKind(n.Kind()),
		Signature: c.signature(n, body),
		Modifiers: mods,
		RawDoc:    c.precedingComments(n, javaDocKinds...),
		Line:      line(n),
	}
	if n.Kind() == "record_declaration" {
		exp.Members = append(exp.Members, javaRecordComponents(c, n)...)
	}
	if body != nil && c.enterBody() {
		exp.Members = append(exp.Members, javaMembers(c, body, qualified, n.Kind())...)
		c.leaveBody()
	}
	c.addExport(exp)
}

func javaMembers(c *conversion, body *sitter.Node, owner, ownerKind string) []extraction.CanonicalMember {
	implicitPublic := ownerKind == "interface_declaration" || ownerKind == "annotation_type_declaration"
	var members []extraction.CanonicalMember
	for _, child := range namedChildren(body) {
		switch child.Kind() {
		case "method_declaration", "constructor_declaration", "compact_constructor_declaration",
			"annotation_type_element_declaration":
			mods := javaModifiers(c, child)
			if implicitPublic && !containsKind(mods, "private") {
				mods = append(mods, "public")
			}
			members = append(members, extraction.CanonicalMember{
				Name:      c.fieldText(child, "name"),
				Kind:      extraction.MemberMethod,
				Signature: strings.TrimSuffix(c.signature(child, child.ChildByFieldName("body")), ";"),
				Modifiers: mods,
				RawDoc:    c.precedingComments(child, javaDocKinds...),
				Line:      line(child),
			})

		case "field_declaration", "constant_declaration":
			mods := javaModifiers(c, child)
			if implicitPublic || child.Kind() == "constant_declaration" {
				mods = append(mods, "public")
			}
			for _, decl := range findChildrenByKind(child, "variable_declarator") {
				members = append(members, extraction.CanonicalMember{
					Name:      c.fieldText(decl, "name"),
					Kind:      extraction.MemberProperty,
					Signature: c.statementSignature(child),
					Modifiers: mods,
					RawDoc:    c.precedingComments(child, javaDocKinds...),
					Line:      line(child),
				})
			}

		case "enum_constant":
			members = append(members, extraction.CanonicalMember{
				Name:      c.fieldText(child, "name"),
				Kind:      extraction.MemberProperty,
				Signature: strings.TrimSuffix(c.statementSignature(child), ","),
				Modifiers: []string{"public", "static", "final"},
				RawDoc:    c.precedingComments(child, javaDocKinds...),
				Line:      line(child),
			})

		case "enum_body_declarations":
			members = append(members, javaMembers(c, child, owner, ownerKind)...)

		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration":
			if c.enterBody() {
				javaType(c, child, owner, ownerKind)
				c.leaveBody()
			}
		}
	}
	return members
}

// javaRecordComponents exposes record components as public properties.
func javaRecordComponents(c *conversion, n *sitter.Node) []extraction.CanonicalMember {
	params := n.ChildByFieldName("parameters")
	var members []extraction.CanonicalMember
	for _, p := range findChildrenByKind(params, "formal_parameter") {
		members = append(members, extraction.CanonicalMember{
			Name:      c.fieldText(p, "name"),
			Kind:      extraction.MemberProperty,
			Signature: strings.TrimSpace(c.text(p)),
			Modifiers: []string{"public", "final"},
			Line:      line(p),
		})
	}
	return members
}

// javaModifiers returns the keyword modifiers of a declaration, skipping
// annotations.
func javaModifiers(c *conversion, n *sitter.Node) []string {
	modsNode := findChildByKind(n, "modifiers")
	if modsNode == nil {
		return nil
	}
	var mods []string
	for i := uint(0); i < modsNode.ChildCount(); i++ {
		child := modsNode.Child(i)
		switch child.Kind() {
		case "annotation", "marker_annotation", "line_comment", "block_comment":
			continue
		}
		mods = append(mods, strings.TrimSpace(c.text(child)))
	}
	return mods
}

func hasVisibility(mods []string) bool {
	for _, m := range mods {
		if m == "public" || m == "protected" || m == "private" {
			return true
		}
	}
	return false
}
