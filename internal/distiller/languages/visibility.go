package languages

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

const (
	public    = extraction.Public
	protected = extraction.Protected
	private   = extraction.Private
)

// pythonSpecialMethods are dunder names that stay public even though they
// start with an underscore.
var pythonSpecialMethods = map[string]bool{
	"__init__": true, "__new__": true, "__call__": true, "__repr__": true, "__str__": true,
	"__eq__": true, "__hash__": true, "__len__": true, "__iter__": true, "__next__": true,
	"__getitem__": true, "__setitem__": true, "__delitem__": true, "__contains__": true,
	"__enter__": true, "__exit__": true, "__aenter__": true, "__aexit__": true, "__bool__": true,
	"__lt__": true, "__le__": true, "__gt__": true, "__ge__": true, "__ne__": true,
	"__post_init__": true,
}

// baseName returns the last segment of a qualified name such as Outer.Inner.
func baseName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func underscoreVisibility(name string, special map[string]bool) extraction.Visibility {
	name = baseName(name)
	if special[name] {
		return public
	}
	if strings.HasPrefix(name, "_") {
		return private
	}
	return public
}

// keywordVisibility returns the visibility of the first modifier found in
// table, or def when none is present.
func keywordVisibility(mods []string, table map[string]extraction.Visibility, def extraction.Visibility) extraction.Visibility {
	for _, m := range mods {
		if v, ok := table[m]; ok {
			return v
		}
	}
	return def
}

var (
	javaKeywords = map[string]extraction.Visibility{
		"public": public, "protected": protected, "private": private,
	}
	tsKeywords = map[string]extraction.Visibility{
		"public": public, "protected": protected, "private": private, "#": private,
	}
	kotlinKeywords = map[string]extraction.Visibility{
		"public": public, "protected": protected, "internal": protected, "private": private,
	}
	swiftKeywords = map[string]extraction.Visibility{
		"open": public, "public": public, "internal": protected, "private": private, "fileprivate": private,
	}
	csharpKeywords = map[string]extraction.Visibility{
		"public": public, "protected": protected, "internal": protected, "private": private,
	}
)

func pythonRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return underscoreVisibility(e.Name, nil)
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			return underscoreVisibility(m.Name, pythonSpecialMethods)
		},
		cleanDoc: cleanPythonDoc,
	}
}

// typeScriptRules cover typescript, tsx and javascript. A JavaScript file
// without any ES export is a script whose top level is public.
func typeScriptRules() rules {
	return rules{
		export: func(ctx *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			if e.HasModifier("export") {
				return public
			}
			if ctx.language == "javascript" && !ctx.hasExports {
				return public
			}
			return private
		},
		member: func(owner extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			if owner.Kind == extraction.KindInterface || owner.Kind == extraction.KindEnum {
				return public
			}
			return keywordVisibility(m.Modifiers, tsKeywords, public)
		},
		cleanDoc: cleanBlockDoc,
	}
}

// javaRules map package-private declarations to protected.
func javaRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return keywordVisibility(e.Modifiers, javaKeywords, protected)
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			return keywordVisibility(m.Modifiers, javaKeywords, protected)
		},
		cleanDoc: cleanBlockDoc,
	}
}

func rustVisibility(mods []string) extraction.Visibility {
	for _, m := range mods {
		switch {
		case m == "pub":
			return public
		case strings.HasPrefix(m, "pub("):
			return protected
		}
	}
	return private
}

func rustRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return rustVisibility(e.Modifiers)
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			return rustVisibility(m.Modifiers)
		},
		cleanDoc: cleanRustDoc,
	}
}

// cRules treat static declarations as file-private.
func cRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			if e.HasModifier("static") {
				return private
			}
			return public
		},
		member: func(extraction.CanonicalExport, extraction.CanonicalMember) extraction.Visibility {
			return public
		},
		cleanDoc: cleanBlockDoc,
	}
}

func phpRules() rules {
	return rules{
		export: func(*fileContext, extraction.CanonicalExport) extraction.Visibility {
			return public
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			return keywordVisibility(m.Modifiers, javaKeywords, public)
		},
		cleanDoc: cleanBlockDoc,
	}
}

// rubyRules read the section visibility the converter stores as the first
// modifier of each member.
func rubyRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return underscoreVisibility(e.Name, nil)
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			if underscoreVisibility(m.Name, nil) == private {
				return private
			}
			return keywordVisibility(m.Modifiers, javaKeywords, public)
		},
		cleanDoc: cleanHashDoc,
	}
}

func goExported(name string) extraction.Visibility {
	r, _ := utf8.DecodeRuneInString(baseName(name))
	if unicode.IsUpper(r) {
		return public
	}
	return private
}

func goRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return goExported(e.Name)
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			return goExported(m.Name)
		},
		cleanDoc: cleanBlockDoc,
	}
}

func kotlinRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return keywordVisibility(e.Modifiers, kotlinKeywords, public)
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			return keywordVisibility(m.Modifiers, kotlinKeywords, public)
		},
		cleanDoc: cleanBlockDoc,
	}
}

// swiftRules match modifiers exactly, so private(set) leaves the getter's
// visibility in place.
func swiftRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return keywordVisibility(e.Modifiers, swiftKeywords, public)
		},
		member: func(_ extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			return keywordVisibility(m.Modifiers, swiftKeywords, public)
		},
		cleanDoc: cleanBlockDoc,
	}
}

// csharpRules default top-level types to internal and members to private,
// except inside interfaces and enums.
func csharpRules() rules {
	return rules{
		export: func(_ *fileContext, e extraction.CanonicalExport) extraction.Visibility {
			return keywordVisibility(e.Modifiers, csharpKeywords, protected)
		},
		member: func(owner extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility {
			def := private
			if owner.Kind == extraction.KindInterface || owner.Kind == extraction.KindEnum {
				def = public
			}
			return keywordVisibility(m.Modifiers, csharpKeywords, def)
		},
		cleanDoc: cleanBlockDoc,
	}
}
