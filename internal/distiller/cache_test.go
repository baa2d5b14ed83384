package distiller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

// Test Plan for parseCache:
// - Identical content is parsed once and the copy carries the new file path
// - A replayed failure describes the content, not the file that first hit it

func newTestCache(t *testing.T) *parseCache {
	t.Helper()
	c, err := newParseCache(16)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestParseCache_ReusesIdenticalContent(t *testing.T) {
	t.Parallel()

	parser, err := parsers.New(parsers.VariantGrammar, parsers.Limits{})
	require.NoError(t, err)
	require.NoError(t, parser.Initialize())
	c := newTestCache(t)

	src := []byte("def ping():\n    return 1\n")
	first, err := c.extract(parser, "a/ping.py", "python", src)
	require.NoError(t, err)
	second, err := c.extract(parser, "b/ping.py", "python", src)
	require.NoError(t, err)

	assert.Equal(t, "a/ping.py", first.File)
	assert.Equal(t, "b/ping.py", second.File)
	assert.Equal(t, first.Exports, second.Exports)

	// Test: the same bytes under another language are a separate entry
	_, ok := c.entries.Get(contentKey("ruby", src))
	assert.False(t, ok)
}

func TestParseCache_ReplayedErrorHasNoPath(t *testing.T) {
	t.Parallel()

	parser, err := parsers.New(parsers.VariantGrammar, parsers.Limits{MaxFileBytes: 8})
	require.NoError(t, err)
	require.NoError(t, parser.Initialize())
	c := newTestCache(t)

	src := []byte("def too_long():\n    pass\n")
	_, err = c.extract(parser, "first.py", "python", src)
	require.ErrorIs(t, err, parsers.ErrFileTooLarge)

	api, err := c.extract(parser, "second.py", "python", src)
	require.ErrorIs(t, err, parsers.ErrFileTooLarge)
	assert.NotContains(t, err.Error(), "first.py")
	assert.Equal(t, "second.py", api.File)
	assert.Empty(t, api.Exports)
}
