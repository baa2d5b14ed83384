package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for docstring cleaning:
// - Block comments lose markers and leading asterisks
// - Line comments lose their slashes
// - Rust keeps doc comments and drops attributes and plain comments
// - Ruby hash comments lose their hashes
// - Python docstrings lose quotes and shared indentation

func TestCleanBlockDoc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Finds a user.\n\n@param id the id", cleanBlockDoc("/**\n * Finds a user.\n *\n * @param id the id\n */"))
	assert.Equal(t, "One line.", cleanBlockDoc("/** One line. */"))
	assert.Equal(t, "Store keeps items.\nThread safe.", cleanBlockDoc("// Store keeps items.\n// Thread safe."))
	assert.Equal(t, "<summary>x</summary>", cleanBlockDoc("/// <summary>x</summary>"))
	assert.Empty(t, cleanBlockDoc(""))
}

func TestCleanRustDoc(t *testing.T) {
	t.Parallel()

	raw := "// plain note\n/// A user.\n/// Second line.\n#[derive(Debug)]"
	assert.Equal(t, "A user.\nSecond line.", cleanRustDoc(raw))

	assert.Equal(t, "Block doc.", cleanRustDoc("/**\n * Block doc.\n */\n#[inline]"))
	assert.Empty(t, cleanRustDoc("#[test]"))
}

func TestCleanHashDoc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A user.\nHolds a name.", cleanHashDoc("# A user.\n# Holds a name."))
	assert.Equal(t, "Doc", cleanHashDoc("## Doc"))
}

func TestCleanPythonDoc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Fetch a URL.", cleanPythonDoc(`"""Fetch a URL."""`))
	assert.Equal(t, "Summary.\n\nDetails here.\n  Indented.",
		cleanPythonDoc("\"\"\"Summary.\n\n    Details here.\n      Indented.\n    \"\"\""))
	assert.Equal(t, "raw", cleanPythonDoc(`r'''raw'''`))
	assert.Equal(t, "single", cleanPythonDoc(`'single'`))
}
