package mindmap

import (
	"fmt"
	"strings"
)

// RootID is the NodeID of the tree root.
const RootID = "root"

// TreeNode is one topic entry with an ordered list of subtopics.
// Trees arrive from the outline package already normalized: Name is
// non-empty and SubNodes is non-nil at every level.
type TreeNode struct {
	Name     string      `json:"name"`
	SubNodes []*TreeNode `json:"subNodes"`
}

// ChildID returns the NodeID of the i-th child of the node with the given id.
// IDs are index paths from the root: root, root-0, root-0-1.
func ChildID(parent string, i int) string {
	return fmt.Sprintf("%s-%d", parent, i)
}

// NodeAt resolves a NodeID to the TreeNode it addresses, or nil if the id
// does not describe a position in the tree.
func NodeAt(tree *TreeNode, id string) *TreeNode {
	if tree == nil {
		return nil
	}
	if id == RootID {
		return tree
	}
	if !strings.HasPrefix(id, RootID+"-") {
		return nil
	}
	current := tree
	for _, part := range strings.Split(id[len(RootID)+1:], "-") {
		idx := 0
		for _, c := range part {
			if c < '0' || c > '9' {
				return nil
			}
			idx = idx*10 + int(c-'0')
		}
		if part == "" || idx >= len(current.SubNodes) {
			return nil
		}
		current = current.SubNodes[idx]
	}
	return current
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(tree *TreeNode) int {
	if tree == nil {
		return 0
	}
	n := 1
	for _, child := range tree.SubNodes {
		n += CountNodes(child)
	}
	return n
}

// Depth returns the number of levels in the tree. A lone root has depth 1.
func Depth(tree *TreeNode) int {
	if tree == nil {
		return 0
	}
	max := 0
	for _, child := range tree.SubNodes {
		if d := Depth(child); d > max {
			max = d
		}
	}
	return max + 1
}

// ExpandedSet marks which nodes currently reveal their children. The zero
// value is unusable; use NewExpandedSet. Sets are never mutated in place by
// Toggle, so callers may hold on to old values safely.
type ExpandedSet map[string]struct{}

// NewExpandedSet returns a set containing the given ids.
func NewExpandedSet(ids ...string) ExpandedSet {
	s := make(ExpandedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s ExpandedSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle returns a copy of the set with id removed if present, added if
// absent. Toggling the same id twice yields a set equal to the original.
func (s ExpandedSet) Toggle(id string) ExpandedSet {
	next := make(ExpandedSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}

// IDs returns the members of the set in unspecified order.
func (s ExpandedSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}
