package mindmap

// Diagram bundles the node and edge sequences handed to a renderer.
type Diagram struct {
	Nodes []DiagramNode `json:"nodes"`
	Edges []DiagramEdge `json:"edges"`
}

// Session is the state container for one rendering session: the current
// tree, its expansion set, and the derived diagram. The caller owns
// persistence across interactions; Session performs no locking and is
// meant to be driven from a single goroutine at a time.
type Session struct {
	tree     *TreeNode
	expanded ExpandedSet
	originX  float64
	originY  float64
	diagram  Diagram
}

// NewSession creates a session for the given tree with the root placed at
// the origin. The root starts expanded so the first level is visible.
func NewSession(tree *TreeNode, originX, originY float64) *Session {
	s := &Session{
		originX: originX,
		originY: originY,
	}
	s.Replace(tree)
	return s
}

// Replace installs a new tree, resetting the expansion state. Node ids are
// only stable across re-renders while the tree shape is unchanged, so the
// old set would address arbitrary positions in the new tree.
func (s *Session) Replace(tree *TreeNode) {
	s.tree = tree
	s.expanded = NewExpandedSet(RootID)
	s.relayout()
}

// Toggle flips the expansion state of the given node id and recomputes the
// full diagram over the unchanged tree.
func (s *Session) Toggle(id string) Diagram {
	s.expanded = s.expanded.Toggle(id)
	s.relayout()
	return s.diagram
}

// Refresh recomputes the diagram after the tree was grown in place,
// keeping the current expansion set. Appending children preserves
// existing node ids, so the set still addresses the same nodes.
func (s *Session) Refresh() Diagram {
	s.relayout()
	return s.diagram
}

// Diagram returns the current node/edge projection.
func (s *Session) Diagram() Diagram { return s.diagram }

// Tree returns the underlying tree.
func (s *Session) Tree() *TreeNode { return s.tree }

// Expanded returns the current expansion set.
func (s *Session) Expanded() ExpandedSet { return s.expanded }

func (s *Session) relayout() {
	nodes, edges := Layout(s.tree, s.expanded, s.originX, s.originY)
	s.diagram = Diagram{Nodes: nodes, Edges: edges}
}
