package outline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/A-dvika/MindMaven/internal/mindmap"
)

// ValidationError describes why a model response was rejected. The whole
// tree is rejected on any violation; there are no partial imports.
type ValidationError struct {
	Path   string // JSON-ish location, e.g. "nodes[2].subNodes[0]"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid outline: %s", e.Reason)
	}
	return fmt.Sprintf("invalid outline at %s: %s", e.Path, e.Reason)
}

// rawOutline mirrors the shape the model is asked to produce. subNodes may
// be absent in the wild, hence the omitempty tolerance on unmarshal.
type rawOutline struct {
	CentralNode string    `json:"centralNode"`
	Nodes       []rawNode `json:"nodes"`
}

type rawNode struct {
	Name     string    `json:"name"`
	SubNodes []rawNode `json:"subNodes"`
}

type rawNodeList struct {
	Nodes []rawNode `json:"nodes"`
}

// Parse converts free-form model output into a normalized tree. It strips
// markdown fences, cuts the text down to the outermost JSON object, and
// validates that every node carries a name. Levels deeper than maxDepth
// below the root are dropped rather than rejected, since models routinely
// overshoot the requested depth by one.
func Parse(raw string, maxDepth int) (*mindmap.TreeNode, error) {
	var outline rawOutline
	if err := unmarshalLoose(raw, &outline); err != nil {
		return nil, err
	}
	if strings.TrimSpace(outline.CentralNode) == "" {
		return nil, &ValidationError{Path: "centralNode", Reason: "missing or empty"}
	}

	subNodes, err := normalize(outline.Nodes, "nodes", 1, maxDepth)
	if err != nil {
		return nil, err
	}
	return &mindmap.TreeNode{
		Name:     strings.TrimSpace(outline.CentralNode),
		SubNodes: subNodes,
	}, nil
}

// ParseNodeList parses an expansion response: a bare {"nodes": [...]}.
// The returned children sit one level deep, so maxDepth applies relative
// to them.
func ParseNodeList(raw string, maxDepth int) ([]*mindmap.TreeNode, error) {
	var list rawNodeList
	if err := unmarshalLoose(raw, &list); err != nil {
		return nil, err
	}
	if len(list.Nodes) == 0 {
		return nil, &ValidationError{Path: "nodes", Reason: "missing or empty"}
	}
	return normalize(list.Nodes, "nodes", 1, maxDepth)
}

func unmarshalLoose(raw string, v any) error {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return &ValidationError{Reason: "no JSON object found in response"}
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return nil
}

// extractJSON strips markdown code fences and trims the input to the
// outermost {...} pair. Models wrap JSON in fences or lead with prose
// often enough that this is worth doing unconditionally.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		lines := strings.Split(raw, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			raw = strings.Join(lines[1:end], "\n")
		}
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// normalize converts raw nodes into TreeNodes with non-nil SubNodes,
// rejecting nameless nodes and truncating below maxDepth.
func normalize(nodes []rawNode, path string, depth, maxDepth int) ([]*mindmap.TreeNode, error) {
	out := make([]*mindmap.TreeNode, 0, len(nodes))
	for i, n := range nodes {
		nodePath := fmt.Sprintf("%s[%d]", path, i)
		name := strings.TrimSpace(n.Name)
		if name == "" {
			return nil, &ValidationError{Path: nodePath, Reason: "missing name"}
		}

		children := []*mindmap.TreeNode{}
		if depth < maxDepth && len(n.SubNodes) > 0 {
			var err error
			children, err = normalize(n.SubNodes, nodePath+".subNodes", depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, &mindmap.TreeNode{Name: name, SubNodes: children})
	}
	return out, nil
}
