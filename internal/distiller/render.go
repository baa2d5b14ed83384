package distiller

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

const memberIndent = "    "

// commentPrefix returns the line comment marker used for docstrings.
func commentPrefix(language string) string {
	switch language {
	case "python", "ruby":
		return "#"
	}
	return "//"
}

// RenderAPI renders one file's distilled surface as plain text: imports,
// then each export's signature with its members indented below it. The
// same text is used for token estimates, bundles and markdown blocks.
func RenderAPI(api *extraction.ExtractedAPI, compact bool) string {
	var sb strings.Builder
	prefix := commentPrefix(api.Language)

	for _, imp := range api.Imports {
		sb.WriteString(renderImport(imp))
		sb.WriteString("\n")
	}
	if len(api.Imports) > 0 && len(api.Exports) > 0 {
		sb.WriteString("\n")
	}

	for i, exp := range api.Exports {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeDoc(&sb, exp.Docstring, prefix, "")
		writeIndented(&sb, exp.Signature, "")
		if len(exp.Members) == 0 {
			continue
		}
		if compact {
			sb.WriteString(memberIndent + prefix + " " + memberSummary(exp.Members) + "\n")
			continue
		}
		for _, m := range exp.Members {
			writeDoc(&sb, m.Docstring, prefix, memberIndent)
			writeIndented(&sb, m.Signature, memberIndent)
		}
	}
	return sb.String()
}

func renderImport(imp extraction.CanonicalImport) string {
	if len(imp.Specifiers) == 0 {
		return "import " + imp.Source
	}
	return "import " + imp.Source + ": " + strings.Join(imp.Specifiers, ", ")
}

func writeDoc(sb *strings.Builder, doc, prefix, indent string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			sb.WriteString(indent + prefix + "\n")
			continue
		}
		sb.WriteString(indent + prefix + " " + line + "\n")
	}
}

// writeIndented writes a possibly multi-line signature, re-indenting every
// line after the first relative to indent.
func writeIndented(sb *strings.Builder, text, indent string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			line = strings.TrimLeft(line, " \t")
			if line != "" {
				line = memberIndent + line
			}
		}
		sb.WriteString(indent + line + "\n")
	}
}

// memberSummary counts members by kind, e.g. "2 methods, 1 property".
func memberSummary(members []extraction.ExtractedMember) string {
	var methods, properties int
	for _, m := range members {
		if m.Kind == extraction.MemberMethod {
			methods++
		} else {
			properties++
		}
	}
	var parts []string
	if methods > 0 {
		parts = append(parts, plural(methods, "method", "methods"))
	}
	if properties > 0 {
		parts = append(parts, plural(properties, "property", "properties"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
