package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/distill/internal/distiller"
	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

var languagesJSON bool

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and the parser used for each",
	Long: `Languages prints every language distill understands, the file extensions
mapped to it, and whether it is parsed with a full grammar or with the
line-based fallback parser.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeLanguages(cmd.OutOrStdout(), languagesJSON)
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "Print as JSON")
}

func executeLanguages(w io.Writer, asJSON bool) error {
	langs, err := distiller.New(nil).Languages()
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(langs)
	}

	exts := extensionsByLanguage()
	rows := make([][]string, 0, len(langs))
	for _, lang := range langs {
		rows = append(rows, []string{lang.Name, string(lang.Variant), strings.Join(exts[lang.Name], " ")})
	}

	return markdown.NewMarkdown(w).
		Table(markdown.TableSet{
			Header: []string{"Language", "Parser", "Extensions"},
			Rows:   rows,
		}).
		Build()
}

func extensionsByLanguage() map[string][]string {
	out := make(map[string][]string)
	for _, ext := range parsers.Extensions() {
		lang := parsers.DetectLanguage("file" + ext)
		out[lang] = append(out[lang], ext)
	}
	return out
}
