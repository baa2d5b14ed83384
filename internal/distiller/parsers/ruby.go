package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

func rubyRules() *languageRules {
	scope := func(c *conversion, n *sitter.Node) {
		rubyScope(c, n, "")
	}
	return &languageRules{
		handlers: map[string]nodeHandler{
			"class":            scope,
			"module":           scope,
			"method":           rubyFunction,
			"singleton_method": rubyFunction,
			"call":             rubyRequire,
			"assignment":       rubyConstant,
		},
	}
}

// rubyRequire records require and require_relative calls. Other top-level
// calls, including blocks passed to them, are not descended into.
func rubyRequire(c *conversion, n *sitter.Node) {
	method := c.fieldText(n, "method")
	if method != "require" && method != "require_relative" {
		return
	}
	args := n.ChildByFieldName("arguments")
	for _, arg := range namedChildren(args) {
		if arg.Kind() == "string" {
			c.addImport(unquote(c.text(arg)))
		}
	}
}

func rubyConstant(c *conversion, n *sitter.Node) {
	if p := n.Parent(); p == nil || p.Kind() != "program" {
		return
	}
	left := n.ChildByFieldName("left")
	if left == nil || left.Kind() != "constant" {
		return
	}
	c.addExport(extraction.CanonicalExport{
		Name:      c.text(left),
		Kind:      extraction.KindConst,
		Signature: c.statementSignature(n),
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

func rubyFunction(c *conversion, n *sitter.Node) {
	c.addExport(extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.KindFunction,
		Signature: c.statementSignature(n),
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

// rubyBody returns the statements of a class, module or singleton class,
// whether or not the grammar wraps them in a body_statement.
func rubyBody(n *sitter.Node) []*sitter.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		return namedChildren(body)
	}
	if body := findChildByKind(n, "body_statement"); body != nil {
		return namedChildren(body)
	}
	var stmts []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		name := n.FieldNameForNamedChild(uint32(i))
		if name == "name" || name == "superclass" || name == "value" {
			continue
		}
		stmts = append(stmts, n.NamedChild(i))
	}
	return stmts
}

func rubyScope(c *conversion, n *sitter.Node, prefix string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qualified := qualify(prefix, strings.ReplaceAll(name, "::", "."))
	var mods []string
	if n.Kind() == "module" {
		mods = append(mods, "module")
	}
	exp := extraction.CanonicalExport{
		Name:      qualified,
		Kind:      extraction.KindClass,
		Signature: c.statementSignature(n),
		Modifiers: mods,
		RawDoc:    c.precedingComments(n, "comment"),
		Line:      line(n),
	}
	if c.enterBody() {
		s := &rubySection{c: c, owner: qualified, visibility: "public"}
		s.walk(rubyBody(n), false)
		s.applyRetroactive()
		exp.Members = s.members
		c.leaveBody()
	}
	c.addExport(exp)
}

// rubySection tracks the visibility section while walking a class body.
type rubySection struct {
	c          *conversion
	owner      string
	visibility string
	members    []extraction.CanonicalMember

	// retro holds names passed to `private :a, :b` style calls.
	retro map[string]string
}

func (s *rubySection) walk(stmts []*sitter.Node, singleton bool) {
	for _, stmt := range stmts {
		switch stmt.Kind() {
		case "identifier":
			// A bare `private` switches the section for what follows.
			switch v := s.c.text(stmt); v {
			case "private", "protected", "public":
				s.visibility = v
			}
		case "method":
			var mods []string
			if singleton {
				mods = append(mods, "static")
			}
			s.addMethod(stmt, s.visibility, mods)
		case "singleton_method":
			s.addMethod(stmt, "public", []string{"static"})
		case "singleton_class":
			if s.c.enterBody() {
				saved := s.visibility
				s.visibility = "public"
				s.walk(rubyBody(stmt), true)
				s.visibility = saved
				s.c.leaveBody()
			}
		case "call":
			s.call(stmt)
		case "assignment":
			left := stmt.ChildByFieldName("left")
			if left != nil && left.Kind() == "constant" {
				s.members = append(s.members, extraction.CanonicalMember{
					Name:      s.c.text(left),
					Kind:      extraction.MemberProperty,
					Signature: s.c.statementSignature(stmt),
					Modifiers: []string{"public", "const"},
					RawDoc:    s.c.precedingComments(stmt, "comment"),
					Line:      line(stmt),
				})
			}
		case "class", "module":
			rubyScope(s.c, stmt, s.owner)
		}
	}
}

func (s *rubySection) addMethod(n *sitter.Node, visibility string, mods []string) {
	s.members = append(s.members, extraction.CanonicalMember{
		Name:      s.c.fieldText(n, "name"),
		Kind:      extraction.MemberMethod,
		Signature: s.c.statementSignature(n),
		Modifiers: append([]string{visibility}, mods...),
		RawDoc:    s.c.precedingComments(n, "comment"),
		Line:      line(n),
	})
}

// call handles attr_* declarations and visibility calls with arguments.
func (s *rubySection) call(n *sitter.Node) {
	if n.ChildByFieldName("receiver") != nil {
		return
	}
	method := s.c.fieldText(n, "method")
	args := namedChildren(n.ChildByFieldName("arguments"))
	switch method {
	case "attr_reader", "attr_writer", "attr_accessor":
		for _, arg := range args {
			if arg.Kind() != "simple_symbol" {
				continue
			}
			s.members = append(s.members, extraction.CanonicalMember{
				Name:      strings.TrimPrefix(s.c.text(arg), ":"),
				Kind:      extraction.MemberProperty,
				Signature: s.c.statementSignature(n),
				Modifiers: []string{s.visibility, method},
				RawDoc:    s.c.precedingComments(n, "comment"),
				Line:      line(n),
			})
		}
	case "private", "protected", "public", "private_class_method":
		visibility := method
		if method == "private_class_method" {
			visibility = "private"
		}
		for _, arg := range args {
			switch arg.Kind() {
			case "method":
				s.addMethod(arg, visibility, nil)
			case "singleton_method":
				s.addMethod(arg, visibility, []string{"static"})
			case "simple_symbol":
				if s.retro == nil {
					s.retro = map[string]string{}
				}
				s.retro[strings.TrimPrefix(s.c.text(arg), ":")] = visibility
			}
		}
	}
}

func (s *rubySection) applyRetroactive() {
	for i := range s.members {
		m := &s.members[i]
		if v, ok := s.retro[m.Name]; ok && len(m.Modifiers) > 0 {
			m.Modifiers[0] = v
		}
	}
}
