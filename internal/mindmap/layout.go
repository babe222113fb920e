package mindmap

// Spacing between a parent and its children in diagram coordinates.
const (
	HorizontalSpacing = 300.0
	VerticalSpacing   = 200.0
)

// Palette is the repeating per-level color band. DiagramNode.ColorLevel
// indexes into it; renderers may substitute their own palette of the same
// size.
var Palette = []string{
	"#e3f2fd", // level 0: light blue
	"#e8f5e9", // level 1: light green
	"#fff3e0", // level 2: light orange
	"#f3e5f5", // level 3: light purple
	"#fce4ec", // level 4: light pink
	"#e0f7fa", // level 5: light cyan
}

// DiagramNode is the render-ready projection of one visible tree node.
type DiagramNode struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	ColorLevel int     `json:"colorLevel"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// DiagramEdge connects a visible parent to a visible child.
type DiagramEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Layout computes the positioned node/edge projection of the visible
// portion of the tree. The root is placed at the origin; an expanded node
// with k children centers them under itself, span (k-1)*HorizontalSpacing
// apart, one VerticalSpacing lower. A node's children are visible iff the
// node's own id is in expanded; descending further requires each child to
// be expanded as well, so collapsing a parent keeps descendant expansion
// flags intact for when it is reopened.
//
// Layout is deterministic: identical inputs always produce identical
// output, so repeated toggles never move unrelated nodes. A nil tree
// yields empty slices, never an error.
func Layout(tree *TreeNode, expanded ExpandedSet, originX, originY float64) ([]DiagramNode, []DiagramEdge) {
	nodes := []DiagramNode{}
	edges := []DiagramEdge{}
	if tree == nil {
		return nodes, edges
	}
	placeNode(tree, RootID, 0, originX, originY, expanded, &nodes, &edges)
	return nodes, edges
}

func placeNode(n *TreeNode, id string, depth int, x, y float64, expanded ExpandedSet, nodes *[]DiagramNode, edges *[]DiagramEdge) {
	*nodes = append(*nodes, DiagramNode{
		ID:         id,
		Label:      n.Name,
		ColorLevel: depth % len(Palette),
		X:          x,
		Y:          y,
	})

	if !expanded.Contains(id) || len(n.SubNodes) == 0 {
		return
	}

	span := float64(len(n.SubNodes)-1) * HorizontalSpacing
	childY := y + VerticalSpacing
	for i, child := range n.SubNodes {
		childID := ChildID(id, i)
		childX := x - span/2 + float64(i)*HorizontalSpacing
		*edges = append(*edges, DiagramEdge{
			ID:     id + "-" + childID,
			Source: id,
			Target: childID,
		})
		placeNode(child, childID, depth+1, childX, childY, expanded, nodes, edges)
	}
}
