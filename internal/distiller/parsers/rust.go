package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// rustDocKinds includes attribute items so that doc comments above
// `#[derive(...)]` stay attached. Attributes are dropped when docs are cleaned.
var rustDocKinds = []string{"line_comment", "block_comment", "attribute_item"}

// rustImpl is an impl block waiting to be merged into its type.
type rustImpl struct {
	typeName  string
	trait     string
	signature string
	line      int
	members   []extraction.CanonicalMember
}

func rustRules() *languageRules {
	return &languageRules{
		handlers: map[string]nodeHandler{
			"use_declaration":         rustUse,
			"function_item":           rustFunction,
			"function_signature_item": rustFunction,
			"struct_item":             rustStruct,
			"union_item":              rustStruct,
			"enum_item":               rustEnum,
			"trait_item":              rustTrait,
			"impl_item":               rustImplBlock,
			"type_item":               rustItem(extraction.KindType),
			"const_item":              rustItem(extraction.KindConst),
			"static_item":             rustItem(extraction.KindVariable),
			"macro_invocation":        skipNode,
		},
		finalize: rustFinalize,
	}
}

// rustUse flattens `use a::b::{C, D as E};` into source "a::b" with
// specifiers C and D.
func rustUse(c *conversion, n *sitter.Node) {
	path := c.fieldText(n, "argument")
	if path == "" {
		return
	}
	path = rustPathTidy.Replace(strings.Join(strings.Fields(path), " "))
	if i := strings.Index(path, "::{"); i >= 0 {
		var specs []string
		for _, s := range strings.Split(strings.TrimSuffix(path[i+3:], "}"), ",") {
			if s = rustUseName(s); s != "" {
				specs = append(specs, s)
			}
		}
		c.addImport(path[:i], specs...)
		return
	}
	i := strings.LastIndex(path, "::")
	if i < 0 {
		c.addImport(rustUseName(path))
		return
	}
	c.addImport(path[:i], rustUseName(path[i+2:]))
}

var rustPathTidy = strings.NewReplacer(":: ", "::", " ::", "::", "{ ", "{", " }", "}", ", ", ",", " ,", ",")

// rustUseName drops a rename: `D as E` imports D.
func rustUseName(s string) string {
	if i := strings.Index(s, " as "); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func rustVisibility(c *conversion, n *sitter.Node) []string {
	var mods []string
	if v := findChildByKind(n, "visibility_modifier"); v != nil {
		mods = append(mods, strings.Join(strings.Fields(c.text(v)), ""))
	}
	if fm := findChildByKind(n, "function_modifiers"); fm != nil {
		mods = append(mods, strings.Fields(c.text(fm))...)
	}
	return mods
}

func rustFunction(c *conversion, n *sitter.Node) {
	c.addExport(extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.KindFunction,
		Signature: strings.TrimSuffix(c.signature(n, n.ChildByFieldName("body")), ";"),
		Modifiers: rustVisibility(c, n),
		RawDoc:    c.precedingComments(n, rustDocKinds...),
		Line:      line(n),
	})
}

func rustStruct(c *conversion, n *sitter.Node) {
	body := n.ChildByFieldName("body")
	exp := extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.KindClass,
		Modifiers: rustVisibility(c, n),
		RawDoc:    c.precedingComments(n, rustDocKinds...),
		Line:      line(n),
	}
	if body != nil && body.Kind() == "field_declaration_list" {
		exp.Signature = c.signature(n, body)
		for _, f := range findChildrenByKind(body, "field_declaration") {
			exp.Members = append(exp.Members, extraction.CanonicalMember{
				Name:      c.fieldText(f, "name"),
				Kind:      extraction.MemberProperty,
				Signature: strings.TrimSpace(c.text(f)),
				Modifiers: rustVisibility(c, f),
				RawDoc:    c.precedingComments(f, rustDocKinds...),
				Line:      line(f),
			})
		}
	} else {
		// Tuple and unit structs keep their full declaration.
		exp.Signature = strings.TrimSuffix(strings.TrimSpace(c.text(n)), ";")
	}
	c.addExport(exp)
}

func rustEnum(c *conversion, n *sitter.Node) {
	body := n.ChildByFieldName("body")
	exp := extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.KindEnum,
		Signature: c.signature(n, body),
		Modifiers: rustVisibility(c, n),
		RawDoc:    c.precedingComments(n, rustDocKinds...),
		Line:      line(n),
	}
	for _, v := range findChildrenByKind(body, "enum_variant") {
		exp.Members = append(exp.Members, extraction.CanonicalMember{
			Name:      c.fieldText(v, "name"),
			Kind:      extraction.MemberProperty,
			Signature: strings.TrimSpace(c.text(v)),
			Modifiers: []string{"pub"},
			RawDoc:    c.precedingComments(v, rustDocKinds...),
			Line:      line(v),
		})
	}
	c.addExport(exp)
}

func rustTrait(c *conversion, n *sitter.Node) {
	body := n.ChildByFieldName("body")
	exp := extraction.CanonicalExport{
		Name:      c.fieldText(n, "name"),
		Kind:      extraction.KindInterface,
		Signature: c.signature(n, body),
		Modifiers: rustVisibility(c, n),
		RawDoc:    c.precedingComments(n, rustDocKinds...),
		Line:      line(n),
	}
	if body != nil && c.enterBody() {
		// Trait items share the trait's visibility.
		exp.Members = rustDeclarations(c, body, []string{"pub"})
		c.leaveBody()
	}
	c.addExport(exp)
}

func rustImplBlock(c *conversion, n *sitter.Node) {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	body := n.ChildByFieldName("body")
	impl := rustImpl{
		typeName:  rustTypeName(c, typeNode),
		trait:     c.fieldText(n, "trait"),
		signature: c.signature(n, body),
		line:      line(n),
	}
	var implied []string
	if impl.trait != "" {
		implied = []string{"pub"}
	}
	if body != nil && c.enterBody() {
		impl.members = rustDeclarations(c, body, implied)
		c.leaveBody()
	}
	c.impls = append(c.impls, impl)
}

// rustTypeName strips generic arguments and paths from an impl target.
func rustTypeName(c *conversion, n *sitter.Node) string {
	switch n.Kind() {
	case "generic_type":
		return rustTypeName(c, n.ChildByFieldName("type"))
	case "scoped_type_identifier":
		return c.fieldText(n, "name")
	}
	return c.text(n)
}

// rustDeclarations extracts the items of a trait or impl body. Items without
// a visibility modifier receive implied.
func rustDeclarations(c *conversion, body *sitter.Node, implied []string) []extraction.CanonicalMember {
	var members []extraction.CanonicalMember
	for _, child := range namedChildren(body) {
		var kind extraction.MemberKind
		var sig string
		switch child.Kind() {
		case "function_item", "function_signature_item":
			kind = extraction.MemberMethod
			sig = strings.TrimSuffix(c.signature(child, child.ChildByFieldName("body")), ";")
		case "associated_type", "const_item", "type_item":
			kind = extraction.MemberProperty
			sig = c.statementSignature(child)
		default:
			continue
		}
		mods := rustVisibility(c, child)
		if findChildByKind(child, "visibility_modifier") == nil {
			mods = append(mods, implied...)
		}
		members = append(members, extraction.CanonicalMember{
			Name:      c.fieldText(child, "name"),
			Kind:      kind,
			Signature: sig,
			Modifiers: mods,
			RawDoc:    c.precedingComments(child, rustDocKinds...),
			Line:      line(child),
		})
	}
	return members
}

func rustItem(kind extraction.Kind) nodeHandler {
	return func(c *conversion, n *sitter.Node) {
		c.addExport(extraction.CanonicalExport{
			Name:      c.fieldText(n, "name"),
			Kind:      kind,
			Signature: c.statementSignature(n),
			Modifiers: rustVisibility(c, n),
			RawDoc:    c.precedingComments(n, rustDocKinds...),
			Line:      line(n),
		})
	}
}

// rustFinalize merges impl blocks into the struct, enum or union they
// implement. Impls of types declared elsewhere become exports of their own.
func rustFinalize(c *conversion) {
	for _, impl := range c.impls {
		merged := false
		for i := range c.api.Exports {
			exp := &c.api.Exports[i]
			if exp.Name != impl.typeName {
				continue
			}
			if exp.Kind != extraction.KindClass && exp.Kind != extraction.KindEnum {
				continue
			}
			exp.Members = append(exp.Members, impl.members...)
			merged = true
			break
		}
		if merged {
			continue
		}
		c.addExport(extraction.CanonicalExport{
			Name:      impl.typeName,
			Kind:      extraction.KindClass,
			Signature: impl.signature,
			Members:   impl.members,
			Modifiers: []string{"pub"},
			Line:      impl.line,
		})
	}
}
