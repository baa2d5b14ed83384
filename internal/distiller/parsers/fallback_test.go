package parsers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// Test Plan for FallbackParser:
// - Go: functions, structs with fields, interfaces, receiver methods,
//   const/var/import blocks, doc comments
// - Go: methods declared before their type attach once the type appears
// - Kotlin: classes with modifiers, members, top-level functions, imports
// - Swift: extensions merge members into their type, enum cases split
// - C#: namespace bodies are top level, Allman braces open scopes
// - Braces inside strings and comments do not confuse depth tracking
// - Signatures run to the body brace past struct{}, interface{} and
//   braces nested in parameters
// - Oversized input is a parse failure

func TestFallback_Go(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("../../../testdata/code/go/simple.go")
	require.NoError(t, err)

	api := extract(t, "simple.go", string(src))

	handler := findExport(t, api, "Handler")
	assert.ElementsMatch(t, []string{"config", "ServeHTTP"}, memberNames(handler))
	assert.Equal(t, []string{"Port", "Timeout"}, memberNames(findExport(t, api, "Config")))
	assert.Equal(t, extraction.KindConst, findExport(t, api, "DefaultPort").Kind)
	assert.Equal(t, extraction.KindVariable, findExport(t, api, "globalConfig").Kind)
	assert.Equal(t, []string{"fmt", "net/http"}, importSources(api))
}

const goSource = `package store

import (
	"context"
	str "strings"
)

import "fmt"

const (
	MaxItems = 10
	minItems = 1
)

var ErrMissing = fmt.Errorf("missing {")

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrMissing
	}
	return s.items[key], nil
}

// Store keeps items.
type Store struct {
	Name  string ` + "`json:\"name\"`" + `
	items map[string]string
	sync.Mutex
}

// Reader reads.
type Reader interface {
	Read(key string) string
}

type ID int

// New creates a store.
func New() *Store {
	s := &Store{}
	return s
}

func helper() {}
`

func TestFallback_GoDeclarations(t *testing.T) {
	t.Parallel()

	api := extract(t, "store.go", goSource)

	store := findExport(t, api, "Store")
	assert.Equal(t, extraction.KindClass, store.Kind)
	assert.Equal(t, "type Store struct", store.Signature)
	assert.Equal(t, "// Store keeps items.", store.RawDoc)

	// Test: fields, embedded types skipped, method declared before the type attached
	assert.ElementsMatch(t, []string{"Name", "items", "Get"}, memberNames(store))
	get := findMember(t, store, "Get")
	assert.Equal(t, extraction.MemberMethod, get.Kind)
	assert.Equal(t, "func (s *Store) Get(ctx context.Context, key string) (string, error)", get.Signature)

	reader := findExport(t, api, "Reader")
	assert.Equal(t, extraction.KindInterface, reader.Kind)
	assert.Equal(t, []string{"Read"}, memberNames(reader))

	newFn := findExport(t, api, "New")
	assert.Equal(t, extraction.KindFunction, newFn.Kind)
	assert.Equal(t, "func New() *Store", newFn.Signature)
	assert.Equal(t, "// New creates a store.", newFn.RawDoc)

	assert.Equal(t, extraction.KindType, findExport(t, api, "ID").Kind)
	assert.Equal(t, extraction.KindConst, findExport(t, api, "MaxItems").Kind)
	assert.Equal(t, extraction.KindConst, findExport(t, api, "minItems").Kind)
	assert.Equal(t, extraction.KindVariable, findExport(t, api, "ErrMissing").Kind)
	assert.Contains(t, exportNames(api), "helper")

	// Test: locals inside function bodies are not exports
	assert.NotContains(t, exportNames(api), "s")

	assert.Equal(t, []string{"context", "fmt", "strings"}, importSources(api))
	assert.Equal(t, []string{"str"}, api.Imports[2].Specifiers)
}

const goLiteralSource = `package events

type Set map[string]struct{}

type Empty struct{}

func Handle(m map[string]struct{}) error {
	return nil
}

func Convert(v interface{}) error {
	return nil
}

func Keys() struct{} { return struct{}{} }

func (b *Bus) Publish(topic string, payload map[string]interface{}) (int, error) {
	return 0, nil
}

func Label() string { return "{" }
`

func TestFallback_GoSignatureStopsAtBody(t *testing.T) {
	t.Parallel()

	api := extract(t, "events.go", goLiteralSource)

	tests := map[string]string{
		"Set":     "type Set map[string]struct{}",
		"Empty":   "type Empty struct{}",
		"Handle":  "func Handle(m map[string]struct{}) error",
		"Convert": "func Convert(v interface{}) error",
		"Keys":    "func Keys() struct{}",
		"Label":   "func Label() string",
	}
	for name, want := range tests {
		assert.Equal(t, want, findExport(t, api, name).Signature, name)
	}

	publish := findMember(t, findExport(t, api, "Bus"), "Publish")
	assert.Equal(t, "func (b *Bus) Publish(topic string, payload map[string]interface{}) (int, error)", publish.Signature)
}

func TestBodyOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want int
	}{
		{"func F() {", 9},
		{"func F(v interface{}) error {", 28},
		{"type T struct {", 14},
		{"type T struct{}", -1},
		{`var s = "{"`, -1},
		{"public int Count { get; set; }", 17},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bodyOpen(tt.code), tt.code)
	}
}

const kotlinSource = `package app

import kotlinx.coroutines.flow.Flow

/** A repository. */
@Singleton
open class UserRepository(
    private val api: Api,
) : Repository {
    private val cache = mutableMapOf<String, User>()

    suspend fun load(id: String): User {
        return api.get(id)
    }

    internal fun clear() {}
}

enum class Role {
    ADMIN,
    MEMBER;
}

fun topLevel(x: Int): Int = x * 2
`

func TestFallback_Kotlin(t *testing.T) {
	t.Parallel()

	api := extract(t, "UserRepository.kt", kotlinSource)

	repo := findExport(t, api, "UserRepository")
	assert.Equal(t, extraction.KindClass, repo.Kind)
	assert.Equal(t, []string{"open"}, repo.Modifiers)
	assert.Equal(t, "/** A repository. */", repo.RawDoc)
	assert.ElementsMatch(t, []string{"cache", "load", "clear"}, memberNames(repo))
	assert.Equal(t, []string{"suspend"}, findMember(t, repo, "load").Modifiers)
	assert.Equal(t, []string{"internal"}, findMember(t, repo, "clear").Modifiers)

	role := findExport(t, api, "Role")
	assert.Equal(t, extraction.KindEnum, role.Kind)
	assert.Equal(t, []string{"ADMIN", "MEMBER"}, memberNames(role))

	assert.Equal(t, extraction.KindFunction, findExport(t, api, "topLevel").Kind)

	require.Len(t, api.Imports, 1)
	assert.Equal(t, "kotlinx.coroutines.flow", api.Imports[0].Source)
	assert.Equal(t, []string{"Flow"}, api.Imports[0].Specifiers)
}

const swiftSource = `import Foundation

public struct Point {
    public var x: Double
    private(set) var y: Double

    public init(x: Double, y: Double) {
        self.x = x
        self.y = y
    }
}

extension Point {
    func distance(to other: Point) -> Double {
        return 0
    }
}

enum Direction {
    case north, south
    case custom(String)
}
`

func TestFallback_Swift(t *testing.T) {
	t.Parallel()

	api := extract(t, "Point.swift", swiftSource)

	point := findExport(t, api, "Point")
	assert.Equal(t, "public struct Point", point.Signature)
	assert.ElementsMatch(t, []string{"x", "y", "init", "distance"}, memberNames(point))
	assert.Equal(t, []string{"private(set)"}, findMember(t, point, "y").Modifiers)

	dir := findExport(t, api, "Direction")
	assert.Equal(t, extraction.KindEnum, dir.Kind)
	assert.Equal(t, []string{"north", "south", "custom"}, memberNames(dir))
}

const csharpSource = `using System;
using System.Collections.Generic;

namespace App.Services
{
    /// <summary>Handles orders.</summary>
    [Serializable]
    public class OrderService : IOrderService
    {
        private readonly Dictionary<string, Order> _orders = new();

        public OrderService()
        {
        }

        public Order Find(string id)
        {
            var text = "}";
            return _orders[id];
        }

        public int Count { get; private set; }

        protected virtual void OnChanged() { }
    }

    public enum Status
    {
        Open,
        Closed = 2,
    }
}
`

func TestFallback_CSharp(t *testing.T) {
	t.Parallel()

	api := extract(t, "OrderService.cs", csharpSource)

	svc := findExport(t, api, "OrderService")
	assert.Equal(t, []string{"public"}, svc.Modifiers)
	assert.Equal(t, "/// <summary>Handles orders.</summary>", svc.RawDoc)
	assert.ElementsMatch(t, []string{"_orders", "OrderService", "Find", "Count", "OnChanged"}, memberNames(svc))
	assert.Equal(t, extraction.MemberProperty, findMember(t, svc, "Count").Kind)
	assert.Equal(t, []string{"protected", "virtual"}, findMember(t, svc, "OnChanged").Modifiers)

	status := findExport(t, api, "Status")
	assert.Equal(t, extraction.KindEnum, status.Kind)
	assert.Equal(t, []string{"Open", "Closed"}, memberNames(status))

	assert.Equal(t, []string{"System", "System.Collections.Generic"}, importSources(api))
}

func TestFallback_FileTooLarge(t *testing.T) {
	t.Parallel()

	p := NewFallbackParser(Limits{MaxFileBytes: 8})
	pf := p.Parse("big.go", []byte("package big\n\nfunc A() {}\n"), "go")

	require.Error(t, pf.Err)
	assert.ErrorIs(t, pf.Err, ErrParseFailure)
	assert.ErrorIs(t, pf.Err, ErrFileTooLarge)

	api, err := p.Extract(pf)
	assert.Error(t, err)
	assert.Empty(t, api.Exports)
}

func TestFallback_TooDeep(t *testing.T) {
	t.Parallel()

	p := NewFallbackParser(Limits{MaxNestingDepth: 3})
	pf := p.Parse("deep.go", []byte("func A() {\n{\n{\n{\n{\n}}}}}\n"), "go")

	assert.ErrorIs(t, pf.Err, ErrTooDeep)
}
