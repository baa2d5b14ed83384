package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

func pythonRules() *languageRules {
	return &languageRules{
		handlers: map[string]nodeHandler{
			"import_statement":      pyImport,
			"import_from_statement": pyImportFrom,
			"class_definition": func(c *conversion, n *sitter.Node) {
				pyClass(c, n, "")
			},
			"function_definition":  pyFunction,
			"expression_statement": pyModuleAssignment,
		},
	}
}

// pyImport handles `import a.b, c as d`.
func pyImport(c *conversion, n *sitter.Node) {
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "dotted_name":
			name := c.text(child)
			c.addImport(name, name)
		case "aliased_import":
			name := c.fieldText(child, "name")
			alias := c.fieldText(child, "alias")
			c.addImport(name, alias)
		}
	}
}

// pyImportFrom handles `from module import a, b as c` and `from m import *`.
func pyImportFrom(c *conversion, n *sitter.Node) {
	module := n.ChildByFieldName("module_name")
	if module == nil {
		return
	}
	specifiers := []string{}
	for _, child := range namedChildren(n) {
		if child.StartByte() == module.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			specifiers = append(specifiers, c.text(child))
		case "aliased_import":
			specifiers = append(specifiers, c.fieldText(child, "name"))
		case "wildcard_import":
			specifiers = append(specifiers, "*")
		}
	}
	c.addImport(c.text(module), specifiers...)
}

func pyClass(c *conversion, n *sitter.Node, prefix string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qualified := qualify(prefix, name)
	body := n.ChildByFieldName("body")
	exp := extraction.CanonicalExport{
		Name:      qualified,
		Kind:      extraction.KindClass,
		Signature: c.signature(n, body),
		RawDoc:    pyDocstring(c, body),
		Line:      line(n),
	}
	if body != nil && c.enterBody() {
		exp.Members = pyClassMembers(c, body, qualified)
		c.leaveBody()
	}
	c.addExport(exp)
}

// pyClassMembers walks the direct children of a class body. Nested classes
// become qualified exports of their own.
func pyClassMembers(c *conversion, body *sitter.Node, className string) []extraction.CanonicalMember {
	var members []extraction.CanonicalMember
	var instanceAttrs []extraction.CanonicalMember
	for _, child := range namedChildren(body) {
		def := child
		if child.Kind() == "decorated_definition" {
			def = child.ChildByFieldName("definition")
			if def == nil {
				continue
			}
		}
		switch def.Kind() {
		case "function_definition":
			m := pyMethod(c, def)
			if m.Name == "" {
				continue
			}
			members = append(members, m)
			if m.Name == "__init__" {
				instanceAttrs = pySelfAssignments(c, def.ChildByFieldName("body"))
			}
		case "class_definition":
			pyClass(c, def, className)
		case "expression_statement":
			if assign := findChildByKind(def, "assignment"); assign != nil {
				left := assign.ChildByFieldName("left")
				if left != nil && left.Kind() == "identifier" {
					members = append(members, extraction.CanonicalMember{
						Name:      c.text(left),
						Kind:      extraction.MemberProperty,
						Signature: c.statementSignature(assign),
						Line:      line(assign),
					})
				}
			}
		}
	}
	return append(members, instanceAttrs...)
}

func pyMethod(c *conversion, n *sitter.Node) extraction.CanonicalMember {
	body := n.ChildByFieldName("body")
	var mods []string
	if findChildByKind(n, "async") != nil {
		mods = append(mods, "async")
	}
	return extraction.CanonicalMember{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.MemberMethod,
		Signature: c.signature(n, body),
		Modifiers: mods,
		RawDoc:    pyDocstring(c, body),
		Line:      line(n),
	}
}

// pySelfAssignments collects `self.attr = value` statements at the top level
// of a constructor body.
func pySelfAssignments(c *conversion, body *sitter.Node) []extraction.CanonicalMember {
	var attrs []extraction.CanonicalMember
	for _, stmt := range namedChildren(body) {
		if stmt.Kind() != "expression_statement" {
			continue
		}
		assign := findChildByKind(stmt, "assignment")
		if assign == nil {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Kind() != "attribute" {
			continue
		}
		if c.fieldText(left, "object") != "self" {
			continue
		}
		attrs = append(attrs, extraction.CanonicalMember{
			Name:      c.fieldText(left, "attribute"),
			Kind:      extraction.MemberProperty,
			Signature: c.statementSignature(assign),
			Line:      line(assign),
		})
	}
	return attrs
}

func pyFunction(c *conversion, n *sitter.Node) {
	body := n.ChildByFieldName("body")
	var mods []string
	if findChildByKind(n, "async") != nil {
		mods = append(mods, "async")
	}
	c.addExport(extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.KindFunction,
		Signature: c.signature(n, body),
		Modifiers: mods,
		RawDoc:    pyDocstring(c, body),
		Line:      line(n),
	})
}

// pyModuleAssignment extracts module-level assignments. Statements nested in
// blocks such as `if __name__ == "__main__":` are ignored.
func pyModuleAssignment(c *conversion, n *sitter.Node) {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "module" {
		return
	}
	assign := findChildByKind(n, "assignment")
	if assign == nil {
		return
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return
	}
	name := c.text(left)
	kind := extraction.KindVariable
	if isConstantName(name) {
		kind = extraction.KindConst
	}
	c.addExport(extraction.CanonicalExport{
		Name:      name,
		Kind:      kind,
		Signature: c.statementSignature(assign),
		Line:      line(assign),
	})
}

// pyDocstring returns the string literal opening a block, if any.
func pyDocstring(c *conversion, body *sitter.Node) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Kind() != "string" {
		return ""
	}
	return c.text(str)
}

// isConstantName checks if a name follows the ALL_CAPS constant convention.
func isConstantName(name string) bool {
	if len(name) == 0 || strings.Trim(name, "_") == "" {
		return false
	}
	for _, ch := range name {
		if ch >= 'a' && ch <= 'z' {
			return false
		}
	}
	return true
}
