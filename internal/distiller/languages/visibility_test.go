package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// Test Plan for per-language visibility:
// - Each language maps its modifiers (or naming convention) to a visibility
// - Defaults apply when no modifier is present
// - Owner kind changes member defaults where the language says so
// - JavaScript files without ES exports are public scripts

func exportVis(lang string, e extraction.CanonicalExport, api *extraction.CanonicalAPI) extraction.Visibility {
	p, _ := NewRegistry().Get(lang)
	proc := p.(*processor)
	if api == nil {
		api = extraction.NewCanonicalAPI("f", lang)
		api.Exports = []extraction.CanonicalExport{e}
	}
	return proc.rules.export(newFileContext(api), e)
}

func memberVis(lang string, owner extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
	p, _ := NewRegistry().Get(lang)
	return p.(*processor).rules.member(owner, m)
}

func mods(m ...string) []string { return m }

func TestVisibility_Exports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang string
		exp  extraction.CanonicalExport
		want extraction.Visibility
	}{
		{"python", extraction.CanonicalExport{Name: "run"}, extraction.Public},
		{"python", extraction.CanonicalExport{Name: "_run"}, extraction.Private},
		{"python", extraction.CanonicalExport{Name: "Outer._Inner"}, extraction.Private},
		{"typescript", extraction.CanonicalExport{Name: "a", Modifiers: mods("export")}, extraction.Public},
		{"typescript", extraction.CanonicalExport{Name: "a"}, extraction.Private},
		{"java", extraction.CanonicalExport{Name: "A", Modifiers: mods("public", "final")}, extraction.Public},
		{"java", extraction.CanonicalExport{Name: "A"}, extraction.Protected},
		{"rust", extraction.CanonicalExport{Name: "a", Modifiers: mods("pub")}, extraction.Public},
		{"rust", extraction.CanonicalExport{Name: "a", Modifiers: mods("pub(crate)")}, extraction.Protected},
		{"rust", extraction.CanonicalExport{Name: "a"}, extraction.Private},
		{"c", extraction.CanonicalExport{Name: "a", Modifiers: mods("static")}, extraction.Private},
		{"cpp", extraction.CanonicalExport{Name: "a"}, extraction.Public},
		{"php", extraction.CanonicalExport{Name: "a"}, extraction.Public},
		{"ruby", extraction.CanonicalExport{Name: "_a"}, extraction.Private},
		{"go", extraction.CanonicalExport{Name: "Exported"}, extraction.Public},
		{"go", extraction.CanonicalExport{Name: "unexported"}, extraction.Private},
		{"kotlin", extraction.CanonicalExport{Name: "A", Modifiers: mods("internal")}, extraction.Protected},
		{"kotlin", extraction.CanonicalExport{Name: "A"}, extraction.Public},
		{"swift", extraction.CanonicalExport{Name: "A", Modifiers: mods("fileprivate")}, extraction.Private},
		{"csharp", extraction.CanonicalExport{Name: "A"}, extraction.Protected},
		{"csharp", extraction.CanonicalExport{Name: "A", Modifiers: mods("public", "static")}, extraction.Public},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exportVis(tt.lang, tt.exp, nil), "%s %s %v", tt.lang, tt.exp.Name, tt.exp.Modifiers)
	}
}

func TestVisibility_JavaScriptScripts(t *testing.T) {
	t.Parallel()

	script := extraction.NewCanonicalAPI("a.js", "javascript")
	script.Exports = []extraction.CanonicalExport{{Name: "helper"}}
	assert.Equal(t, extraction.Public, exportVis("javascript", script.Exports[0], script))

	module := extraction.NewCanonicalAPI("b.js", "javascript")
	module.Exports = []extraction.CanonicalExport{{Name: "helper"}, {Name: "api", Modifiers: mods("export")}}
	assert.Equal(t, extraction.Private, exportVis("javascript", module.Exports[0], module))

	// Test: TypeScript has no script exception
	ts := extraction.NewCanonicalAPI("c.ts", "typescript")
	ts.Exports = []extraction.CanonicalExport{{Name: "helper"}}
	assert.Equal(t, extraction.Private, exportVis("typescript", ts.Exports[0], ts))
}

func TestVisibility_Members(t *testing.T) {
	t.Parallel()

	class := extraction.CanonicalExport{Name: "C", Kind: extraction.KindClass}
	iface := extraction.CanonicalExport{Name: "I", Kind: extraction.KindInterface}

	tests := []struct {
		lang   string
		owner  extraction.CanonicalExport
		member extraction.CanonicalMember
		want   extraction.Visibility
	}{
		{"python", class, extraction.CanonicalMember{Name: "__repr__"}, extraction.Public},
		{"python", class, extraction.CanonicalMember{Name: "__secret"}, extraction.Private},
		{"python", class, extraction.CanonicalMember{Name: "_x"}, extraction.Private},
		{"typescript", class, extraction.CanonicalMember{Name: "a"}, extraction.Public},
		{"typescript", class, extraction.CanonicalMember{Name: "a", Modifiers: mods("private")}, extraction.Private},
		{"typescript", class, extraction.CanonicalMember{Name: "#a", Modifiers: mods("#")}, extraction.Private},
		{"typescript", class, extraction.CanonicalMember{Name: "a", Modifiers: mods("protected", "static")}, extraction.Protected},
		{"java", class, extraction.CanonicalMember{Name: "a"}, extraction.Protected},
		{"rust", class, extraction.CanonicalMember{Name: "a", Modifiers: mods("pub(super)")}, extraction.Protected},
		{"php", class, extraction.CanonicalMember{Name: "a"}, extraction.Public},
		{"php", class, extraction.CanonicalMember{Name: "a", Modifiers: mods("private", "static")}, extraction.Private},
		{"ruby", class, extraction.CanonicalMember{Name: "a", Modifiers: mods("protected")}, extraction.Protected},
		{"ruby", class, extraction.CanonicalMember{Name: "a", Modifiers: mods("public", "static")}, extraction.Public},
		{"go", class, extraction.CanonicalMember{Name: "field"}, extraction.Private},
		{"swift", class, extraction.CanonicalMember{Name: "y", Modifiers: mods("private(set)")}, extraction.Public},
		{"csharp", class, extraction.CanonicalMember{Name: "a"}, extraction.Private},
		{"csharp", iface, extraction.CanonicalMember{Name: "a"}, extraction.Public},
		{"c", class, extraction.CanonicalMember{Name: "a"}, extraction.Public},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, memberVis(tt.lang, tt.owner, tt.member), "%s %s %v", tt.lang, tt.member.Name, tt.member.Modifiers)
	}
}
