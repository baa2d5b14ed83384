package languages

import (
	"strings"
)

// cleanBlockDoc strips C-family comment markers (`/** */`, `/* */`, `///`,
// `//`) and leading asterisks, keeping the text's own line breaks.
func cleanBlockDoc(raw string) string {
	if raw == "" {
		return ""
	}
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		for _, prefix := range []string{"/**", "/*!", "/*", "///", "//!", "//"} {
			if strings.HasPrefix(line, prefix) {
				line = line[len(prefix):]
				break
			}
		}
		line = strings.TrimSuffix(strings.TrimSpace(line), "*/")
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		}
		lines = append(lines, line)
	}
	return joinTrimmed(lines)
}

// cleanRustDoc keeps doc comments only, dropping attributes and plain
// comments gathered above an item.
func cleanRustDoc(raw string) string {
	var kept []string
	inBlock := false
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			kept = append(kept, line)
			if strings.Contains(trimmed, "*/") {
				inBlock = false
			}
		case strings.HasPrefix(trimmed, "///"), strings.HasPrefix(trimmed, "//!"):
			kept = append(kept, line)
		case strings.HasPrefix(trimmed, "/**"), strings.HasPrefix(trimmed, "/*!"):
			kept = append(kept, line)
			inBlock = !strings.Contains(trimmed[3:], "*/")
		}
	}
	return cleanBlockDoc(strings.Join(kept, "\n"))
}

// cleanHashDoc strips `#` line comments as used by Ruby.
func cleanHashDoc(raw string) string {
	if raw == "" {
		return ""
	}
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "=begin" || line == "=end" {
			continue
		}
		line = strings.TrimLeft(line, "#")
		lines = append(lines, strings.TrimSpace(line))
	}
	return joinTrimmed(lines)
}

// cleanPythonDoc removes the string quotes and common indentation of a
// docstring.
func cleanPythonDoc(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			s = s[len(q) : len(s)-len(q)]
			break
		}
	}
	return dedent(strings.Split(s, "\n"))
}

// dedent removes the smallest indentation shared by all lines after the
// first, the way Python's inspect.cleandoc does.
func dedent(lines []string) string {
	indent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	out := []string{strings.TrimSpace(lines[0])}
	for _, line := range lines[1:] {
		if indent > 0 && len(line) >= indent {
			line = line[indent:]
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return joinTrimmed(out)
}

// joinTrimmed joins lines, dropping blank lines at either end.
func joinTrimmed(lines []string) string {
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
