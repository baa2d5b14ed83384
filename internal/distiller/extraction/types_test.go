package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for CanonicalAPI.Normalize:
// - Exports are unique on (kind, name), first occurrence wins
// - Same name with a different kind is kept
// - Exports sort by kind then name
// - Members are unique on (kind, name) and keep source order
// - Imports are unique on source with specifiers merged in first-seen order
// - Imports sort by source
// - Normalizing twice is a no-op

func TestNormalize_Exports(t *testing.T) {
	t.Parallel()

	api := NewCanonicalAPI("a.ts", "typescript")
	api.Exports = []CanonicalExport{
		{Name: "b", Kind: KindFunction, Signature: "first"},
		{Name: "a", Kind: KindFunction},
		{Name: "b", Kind: KindFunction, Signature: "second"},
		{Name: "b", Kind: KindClass, Members: []CanonicalMember{
			{Name: "z", Kind: MemberMethod, Signature: "z1"},
			{Name: "y", Kind: MemberProperty},
			{Name: "z", Kind: MemberMethod, Signature: "z2"},
			{Name: "z", Kind: MemberProperty},
		}},
	}

	api.Normalize()

	require.Len(t, api.Exports, 3)
	assert.Equal(t, KindClass, api.Exports[0].Kind)
	assert.Equal(t, "a", api.Exports[1].Name)
	assert.Equal(t, "b", api.Exports[2].Name)
	assert.Equal(t, "first", api.Exports[2].Signature)

	members := api.Exports[0].Members
	require.Len(t, members, 3)
	assert.Equal(t, "z1", members[0].Signature)
	assert.Equal(t, "y", members[1].Name)
	assert.Equal(t, MemberProperty, members[2].Kind)
}

func TestNormalize_Imports(t *testing.T) {
	t.Parallel()

	api := NewCanonicalAPI("a.py", "python")
	api.Imports = []CanonicalImport{
		{Source: "typing", Specifiers: []string{"List"}},
		{Source: "os", Specifiers: nil},
		{Source: "typing", Specifiers: []string{"Dict", "List"}},
	}

	api.Normalize()

	require.Len(t, api.Imports, 2)
	assert.Equal(t, "os", api.Imports[0].Source)
	assert.NotNil(t, api.Imports[0].Specifiers)
	assert.Empty(t, api.Imports[0].Specifiers)
	assert.Equal(t, []string{"List", "Dict"}, api.Imports[1].Specifiers)
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	api := NewCanonicalAPI("a.go", "go")
	api.Exports = []CanonicalExport{{Name: "B", Kind: KindType}, {Name: "A", Kind: KindFunction}}
	api.Imports = []CanonicalImport{{Source: "fmt", Specifiers: []string{}}}

	api.Normalize()
	first := *api
	firstExports := append([]CanonicalExport(nil), api.Exports...)

	api.Normalize()
	assert.Equal(t, firstExports, api.Exports)
	assert.Equal(t, first.Imports, api.Imports)
}

func TestVisibilityRank(t *testing.T) {
	t.Parallel()

	assert.Less(t, Public.Rank(), Protected.Rank())
	assert.Less(t, Protected.Rank(), Private.Rank())
}
