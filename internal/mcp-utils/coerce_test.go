package mcputils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for CoerceBindArguments:
// - Native JSON types bind directly
// - JSON-encoded arrays and booleans sent as strings are decoded
// - Comma separated strings bind to slices
// - Pointer fields stay nil when absent
// - Type mismatches that cannot be coerced return an error

type mockArgumentGetter struct {
	args map[string]interface{}
}

func (m *mockArgumentGetter) GetArguments() map[string]interface{} {
	return m.args
}

type distillArgs struct {
	Path           string   `json:"path"`
	Depth          string   `json:"depth,omitempty"`
	IncludePrivate *bool    `json:"include_private,omitempty"`
	Compact        bool     `json:"compact,omitempty"`
	IncludeNames   []string `json:"include_names,omitempty"`
	Workers        int      `json:"workers,omitempty"`
}

func TestCoerceBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("native types", func(t *testing.T) {
		t.Parallel()
		request := &mockArgumentGetter{args: map[string]interface{}{
			"path":            "src",
			"include_private": true,
			"include_names":   []interface{}{"User*", "Order*"},
			"workers":         float64(4),
		}}

		var got distillArgs
		require.NoError(t, CoerceBindArguments(request, &got))
		assert.Equal(t, "src", got.Path)
		require.NotNil(t, got.IncludePrivate)
		assert.True(t, *got.IncludePrivate)
		assert.Equal(t, []string{"User*", "Order*"}, got.IncludeNames)
		assert.Equal(t, 4, got.Workers)
	})

	t.Run("stringified values", func(t *testing.T) {
		t.Parallel()
		request := &mockArgumentGetter{args: map[string]interface{}{
			"path":            "src",
			"include_private": "false",
			"compact":         "true",
			"include_names":   `["User*", "*Admin*"]`,
			"workers":         "2",
		}}

		var got distillArgs
		require.NoError(t, CoerceBindArguments(request, &got))
		require.NotNil(t, got.IncludePrivate)
		assert.False(t, *got.IncludePrivate)
		assert.True(t, got.Compact)
		assert.Equal(t, []string{"User*", "*Admin*"}, got.IncludeNames)
		assert.Equal(t, 2, got.Workers)
	})

	t.Run("comma separated slice", func(t *testing.T) {
		t.Parallel()
		request := &mockArgumentGetter{args: map[string]interface{}{
			"include_names": "User*,Order*",
		}}

		var got distillArgs
		require.NoError(t, CoerceBindArguments(request, &got))
		assert.Equal(t, []string{"User*", "Order*"}, got.IncludeNames)
	})

	t.Run("absent pointer stays nil", func(t *testing.T) {
		t.Parallel()
		request := &mockArgumentGetter{args: map[string]interface{}{"path": "."}}

		var got distillArgs
		require.NoError(t, CoerceBindArguments(request, &got))
		assert.Nil(t, got.IncludePrivate)
		assert.Empty(t, got.Depth)
	})

	t.Run("uncoercible value", func(t *testing.T) {
		t.Parallel()
		request := &mockArgumentGetter{args: map[string]interface{}{
			"workers": "many",
		}}

		var got distillArgs
		assert.Error(t, CoerceBindArguments(request, &got))
	})
}
