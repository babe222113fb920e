// Package export renders mind map trees as markdown outlines and
// standalone HTML pages.
package export

import (
	"fmt"
	"strings"

	"github.com/A-dvika/MindMaven/internal/mindmap"
)

// Markdown renders a tree as a markdown outline: the central node as
// an H1 followed by a nested bullet list.
func Markdown(tree *mindmap.TreeNode) string {
	if tree == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(tree.Name)
	sb.WriteString("\n")

	if len(tree.SubNodes) > 0 {
		sb.WriteString("\n")
		for _, child := range tree.SubNodes {
			writeBullets(&sb, child, 0)
		}
	}
	return sb.String()
}

func writeBullets(sb *strings.Builder, node *mindmap.TreeNode, indent int) {
	fmt.Fprintf(sb, "%s- %s\n", strings.Repeat("  ", indent), node.Name)
	for _, child := range node.SubNodes {
		writeBullets(sb, child, indent+1)
	}
}
