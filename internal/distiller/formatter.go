package distiller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

// ErrInvalidStyle indicates an unknown output style.
var ErrInvalidStyle = errors.New("invalid output style")

// Style selects how FormatResult serializes a result.
type Style string

const (
	StyleText   Style = "text"
	StyleJSON   Style = "json"
	StyleBundle Style = "bundle"
)

// ParseStyle validates a style name. The empty string means StyleText.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StyleText:
		return StyleText, nil
	case StyleJSON, StyleBundle:
		return Style(s), nil
	}
	return "", fmt.Errorf("%w: %q (want text, json or bundle)", ErrInvalidStyle, s)
}

// FormatResult writes result to w. rootPath only labels the output.
func FormatResult(w io.Writer, result *Result, rootPath string, style Style) error {
	if result == nil {
		return errors.New("nil result")
	}
	switch style {
	case StyleJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case StyleBundle:
		return writeBundle(w, result)
	case StyleText, "":
		return writeMarkdown(w, result, rootPath)
	}
	return fmt.Errorf("%w: %q", ErrInvalidStyle, style)
}

func writeBundle(w io.Writer, result *Result) error {
	var sb strings.Builder
	switch result.Format() {
	case FormatDistilled:
		bundleDistilled(&sb, result.Distillation)
	case FormatCompressed:
		bundleCompressed(&sb, result.Compression)
	case FormatBoth:
		bundleCompressed(&sb, result.Combined.Compression)
		bundleDistilled(&sb, result.Combined.Distillation)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func bundleDistilled(sb *strings.Builder, res *DistillationResult) {
	for i := range res.APIs {
		writeFileBlock(sb, res.APIs[i].File, RenderAPI(&res.APIs[i], res.compact))
	}
}

func bundleCompressed(sb *strings.Builder, res *CompressionResult) {
	for _, f := range res.Files {
		writeFileBlock(sb, f.Path, f.Content)
	}
}

func writeFileBlock(sb *strings.Builder, path, body string) {
	sb.WriteString(`<file path="` + path + `">` + "\n")
	sb.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("</file>\n")
}

func writeMarkdown(w io.Writer, result *Result, rootPath string) error {
	md := markdown.NewMarkdown(w)
	name := displayRoot(rootPath)

	switch result.Format() {
	case FormatDistilled:
		writeDistillation(md, name, result.Distillation)
	case FormatCompressed:
		writeCompression(md, name, result.Compression)
	case FormatBoth:
		writeDistillation(md, name, result.Combined.Distillation)
		md.HorizontalRule()
		writeCompression(md, name, result.Combined.Compression)
	}
	return md.Build()
}

func writeDistillation(md *markdown.Markdown, name string, res *DistillationResult) {
	md.H1("Distilled API: " + name)
	md.PlainText("")

	meta := res.Metadata
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Files", strconv.Itoa(res.Structure.FileCount)},
			{"Directories", strconv.Itoa(len(res.Structure.Directories))},
			{"Languages", languageSummary(res.Structure.Languages)},
			{"Original tokens", strconv.Itoa(meta.OriginalTokens)},
			{"Distilled tokens", strconv.Itoa(meta.DistilledTokens)},
			{"Compression ratio", fmt.Sprintf("%.1f%%", meta.CompressionRatio*100)},
			{"Skipped", strconv.Itoa(len(meta.Skipped))},
		},
	})
	md.PlainText("")

	for i := range res.APIs {
		api := &res.APIs[i]
		md.H2(api.File)
		md.PlainText("")
		body := RenderAPI(api, res.compact)
		if body == "" {
			md.PlainText("No public API.")
		} else {
			writeFenced(md, api.Language, strings.TrimRight(body, "\n"))
		}
		md.PlainText("")
	}

	if len(meta.Skipped) > 0 {
		md.H2("Skipped")
		md.PlainText("")
		items := make([]string, 0, len(meta.Skipped))
		for _, s := range meta.Skipped {
			items = append(items, fmt.Sprintf("`%s`: %s", s.Name, s.Reason))
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

func writeCompression(md *markdown.Markdown, name string, res *CompressionResult) {
	md.H1("Files: " + name)
	md.PlainText("")
	if len(res.Files) == 0 {
		md.PlainText("No files.")
		return
	}
	for _, f := range res.Files {
		md.H2(f.Path)
		md.PlainText("")
		writeFenced(md, parsers.DetectLanguage(f.Path), strings.TrimRight(f.Content, "\n"))
		md.PlainText("")
	}
}

// writeFenced emits body as a code block. The fence grows past any backtick
// run in body so the block cannot close early.
func writeFenced(md *markdown.Markdown, lang, body string) {
	longest, run := 0, 0
	for i := 0; i < len(body); i++ {
		if body[i] != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	if longest < 3 {
		md.CodeBlocks(markdown.SyntaxHighlight(lang), body)
		return
	}
	fence := strings.Repeat("`", longest+1)
	md.PlainText(fence + lang + "\n" + body + "\n" + fence)
}

// languageSummary renders counts as "Python (2), Rust (1)", sorted by name.
func languageSummary(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	names := make([]string, 0, len(counts))
	for lang := range counts {
		names = append(names, lang)
	}
	sort.Strings(names)

	title := cases.Title(language.English)
	parts := make([]string, 0, len(names))
	for _, lang := range names {
		parts = append(parts, fmt.Sprintf("%s (%d)", title.String(lang), counts[lang]))
	}
	return strings.Join(parts, ", ")
}

func displayRoot(rootPath string) string {
	if abs, err := filepath.Abs(rootPath); err == nil {
		return filepath.Base(abs)
	}
	return rootPath
}
