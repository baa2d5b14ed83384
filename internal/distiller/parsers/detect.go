package parsers

import (
	"path/filepath"
	"sort"
	"strings"
)

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".py":    "python",
	".pyi":   "python",
	".ts":    "typescript",
	".mts":   "typescript",
	".cts":   "typescript",
	".tsx":   "tsx",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "tsx",
	".java":  "java",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".php":   "php",
	".rb":    "ruby",
	".go":    "go",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".swift": "swift",
	".cs":    "csharp",
}

// DetectLanguage returns the language for a file path based on its
// extension, or "" when the extension is not recognized.
func DetectLanguage(path string) string {
	return extToLanguage[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns every recognized file extension, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extToLanguage))
	for ext := range extToLanguage {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
