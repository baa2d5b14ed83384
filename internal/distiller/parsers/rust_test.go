package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// Test Plan for rust conversion:
// - Structs carry fields with their own visibility
// - Inherent impl methods merge into their struct
// - Trait impl methods and trait items are implicitly pub
// - pub(crate) visibility is kept verbatim
// - Impls of types declared elsewhere become their own export
// - use declarations flatten into source and specifiers

const rustSource = `use std::collections::HashMap;
use std::io::{self, Read as R};

/// A user record.
#[derive(Debug)]
pub struct User {
    pub name: String,
    id: u64,
}

impl User {
    /// Creates a user.
    pub fn new(name: String) -> Self {
        User { name, id: 0 }
    }

    fn secret(&self) -> u64 {
        self.id
    }
}

impl Display for User {
    fn fmt(&self, f: &mut Formatter) -> Result {
        Ok(())
    }
}

pub trait Store {
    fn get(&self, id: u64) -> Option<User>;
}

pub(crate) fn helper() {}

pub const LIMIT: usize = 10;

impl Remote {
    pub fn ping(&self) {}
}
`

func TestRust_StructAndImpls(t *testing.T) {
	t.Parallel()

	api := extract(t, "lib.rs", rustSource)

	user := findExport(t, api, "User")
	assert.Equal(t, extraction.KindClass, user.Kind)
	assert.Equal(t, "pub struct User", user.Signature)
	assert.Contains(t, user.RawDoc, "/// A user record.")
	assert.ElementsMatch(t, []string{"name", "id", "new", "secret", "fmt"}, memberNames(user))

	assert.Equal(t, []string{"pub"}, findMember(t, user, "name").Modifiers)
	assert.Empty(t, findMember(t, user, "id").Modifiers)
	assert.Empty(t, findMember(t, user, "secret").Modifiers)

	// Test: trait impl methods follow the trait's visibility
	assert.Equal(t, []string{"pub"}, findMember(t, user, "fmt").Modifiers)

	newFn := findMember(t, user, "new")
	assert.Equal(t, "pub fn new(name: String) -> Self", newFn.Signature)
	assert.Contains(t, newFn.RawDoc, "Creates a user.")
}

func TestRust_TraitsAndItems(t *testing.T) {
	t.Parallel()

	api := extract(t, "lib.rs", rustSource)

	store := findExport(t, api, "Store")
	assert.Equal(t, extraction.KindInterface, store.Kind)
	get := findMember(t, store, "get")
	assert.Equal(t, []string{"pub"}, get.Modifiers)
	assert.Equal(t, "fn get(&self, id: u64) -> Option<User>", get.Signature)

	assert.Equal(t, []string{"pub(crate)"}, findExport(t, api, "helper").Modifiers)
	assert.Equal(t, extraction.KindConst, findExport(t, api, "LIMIT").Kind)

	remote := findExport(t, api, "Remote")
	assert.Equal(t, "impl Remote", remote.Signature)
	assert.Equal(t, []string{"ping"}, memberNames(remote))
}

func TestRust_Imports(t *testing.T) {
	t.Parallel()

	api := extract(t, "lib.rs", rustSource)

	require.Equal(t, []string{"std::collections", "std::io"}, importSources(api))
	assert.Equal(t, []string{"HashMap"}, api.Imports[0].Specifiers)
	assert.Equal(t, []string{"self", "Read"}, api.Imports[1].Specifiers)
}
