// Command distill-debug prints what the parsers see in a single source
// file: the canonical API before visibility rules run, or the raw syntax
// tree. It is meant for working on language converters.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

var (
	showTree  bool
	treeDepth int
	variant   string
	language  string
)

func main() {
	cmd := &cobra.Command{
		Use:          "distill-debug <file>",
		Short:        "Dump the canonical API or syntax tree of one file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the syntax tree instead of the canonical API")
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Limit tree output to this depth (0 = unlimited)")
	cmd.Flags().StringVar(&variant, "parser", string(parsers.VariantHybrid), "Parser variant: hybrid, grammar or fallback")
	cmd.Flags().StringVar(&language, "language", "", "Override the language detected from the extension")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lang := language
	if lang == "" {
		lang = parsers.DetectLanguage(path)
	}
	if lang == "" {
		return fmt.Errorf("%w: %s", parsers.ErrUnsupportedLanguage, path)
	}

	parser, err := parsers.New(parsers.Variant(variant), parsers.DefaultLimits())
	if err != nil {
		return err
	}
	if err := parser.Initialize(); err != nil {
		return err
	}

	pf := parser.Parse(path, source, lang)
	defer pf.Close()

	out := cmd.OutOrStdout()
	if showTree {
		return pf.DumpTree(out, treeDepth)
	}

	api, err := parser.Extract(pf)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(api)
}
