package parsers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrNoTree indicates a parsed file has no syntax tree to dump, either
// because parsing failed or because the fallback parser produced it.
var ErrNoTree = errors.New("no syntax tree")

// DumpTree writes the named nodes of pf's syntax tree, one per line,
// indented by depth and tagged with the 1-based start line. Leaves include
// their text. A maxDepth of zero prints the whole tree.
func (pf *ParsedFile) DumpTree(w io.Writer, maxDepth int) error {
	if pf == nil || pf.tree == nil {
		return ErrNoTree
	}
	return dumpNode(w, pf.tree.RootNode(), pf.Source, 0, maxDepth)
}

func dumpNode(w io.Writer, n *sitter.Node, source []byte, depth, maxDepth int) error {
	if maxDepth > 0 && depth >= maxDepth {
		return nil
	}

	indent := strings.Repeat("  ", depth)
	var err error
	if n.NamedChildCount() == 0 {
		_, err = fmt.Fprintf(w, "%s%s [%d] %q\n", indent, n.Kind(), n.StartPosition().Row+1, n.Utf8Text(source))
	} else {
		_, err = fmt.Fprintf(w, "%s%s [%d]\n", indent, n.Kind(), n.StartPosition().Row+1)
	}
	if err != nil {
		return err
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		if err := dumpNode(w, n.NamedChild(i), source, depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}
