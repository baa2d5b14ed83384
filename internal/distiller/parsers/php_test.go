package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// Test Plan for php conversion:
// - Classes, interfaces, traits and enums are extracted with their members
// - Member modifiers come from visibility and static keywords
// - Property names drop the leading $
// - Namespace use declarations split into namespace and class name
// - Top-level calls are not descended into

const phpSource = `<?php

namespace App\Services;

use App\Models\User;
use Illuminate\Support\{Collection, Str};

/**
 * Handles users.
 */
final class UserService implements Service
{
    public const VERSION = "1";
    private array $cache = [];
    protected static $instances = 0;

    public function find(int $id): ?User
    {
        return null;
    }

    private function reset(): void {}

    function legacy() {}
}

interface Service
{
    public function find(int $id): ?User;
}

trait Loggable
{
    public function log(string $msg): void {}
}

enum Status: string
{
    case Active = 'active';
    case Inactive = 'inactive';
}

function helper(): int
{
    return 1;
}

register(function () {
    function inside() {}
});
`

func TestPHP_Class(t *testing.T) {
	t.Parallel()

	api := extract(t, "UserService.php", phpSource)

	svc := findExport(t, api, "UserService")
	assert.Equal(t, extraction.KindClass, svc.Kind)
	assert.Contains(t, svc.Modifiers, "final")
	assert.Contains(t, svc.RawDoc, "Handles users.")
	assert.ElementsMatch(t, []string{"VERSION", "cache", "instances", "find", "reset", "legacy"}, memberNames(svc))

	assert.Equal(t, []string{"private"}, findMember(t, svc, "cache").Modifiers)
	assert.Equal(t, []string{"protected", "static"}, findMember(t, svc, "instances").Modifiers)
	assert.Empty(t, findMember(t, svc, "legacy").Modifiers)

	find := findMember(t, svc, "find")
	assert.Equal(t, "public function find(int $id): ?User", find.Signature)
}

func TestPHP_OtherTypes(t *testing.T) {
	t.Parallel()

	api := extract(t, "UserService.php", phpSource)

	assert.Equal(t, extraction.KindInterface, findExport(t, api, "Service").Kind)
	assert.True(t, findExport(t, api, "Loggable").HasModifier("trait"))

	status := findExport(t, api, "Status")
	assert.Equal(t, extraction.KindEnum, status.Kind)
	assert.Equal(t, []string{"Active", "Inactive"}, memberNames(status))

	assert.Equal(t, extraction.KindFunction, findExport(t, api, "helper").Kind)
	assert.NotContains(t, exportNames(api), "inside")
}

func TestPHP_Imports(t *testing.T) {
	t.Parallel()

	api := extract(t, "UserService.php", phpSource)

	assert.Equal(t, []string{`App\Models`, `Illuminate\Support`}, importSources(api))
	assert.Equal(t, []string{"User"}, api.Imports[0].Specifiers)
	assert.Equal(t, []string{"Collection", "Str"}, api.Imports[1].Specifiers)
}
