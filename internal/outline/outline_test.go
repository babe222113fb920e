package outline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/A-dvika/MindMaven/internal/llm"
	"github.com/A-dvika/MindMaven/internal/mindmap"
)

// fakeProvider replays a queue of responses in order.
type fakeProvider struct {
	responses []string
	errs      []error
	requests  []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	content := ""
	if i < len(f.responses) {
		content = f.responses[i]
	}
	return &llm.CompletionResponse{Content: content, InputTokens: 5, OutputTokens: 7}, nil
}

func TestParseValidOutline(t *testing.T) {
	raw := `{"centralNode": "Go", "nodes": [
		{"name": "Concurrency", "subNodes": [{"name": "Goroutines"}]},
		{"name": "Tooling", "subNodes": []}
	]}`

	tree, err := Parse(raw, 3)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Name != "Go" {
		t.Errorf("root = %q, want Go", tree.Name)
	}
	if len(tree.SubNodes) != 2 {
		t.Fatalf("children = %d, want 2", len(tree.SubNodes))
	}
	if tree.SubNodes[0].SubNodes[0].Name != "Goroutines" {
		t.Errorf("grandchild = %q", tree.SubNodes[0].SubNodes[0].Name)
	}
	// subNodes absent in JSON must still come out non-nil.
	if tree.SubNodes[0].SubNodes[0].SubNodes == nil {
		t.Error("leaf SubNodes is nil, want empty slice")
	}
}

func TestParseStripsFencesAndProse(t *testing.T) {
	raw := "Here is your mind map:\n```json\n{\"centralNode\": \"X\", \"nodes\": []}\n```\nEnjoy!"
	tree, err := Parse(raw, 3)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Name != "X" || len(tree.SubNodes) != 0 {
		t.Errorf("tree = %+v", tree)
	}
}

func TestParseRejectsMissingCentralNode(t *testing.T) {
	_, err := Parse(`{"nodes": [{"name": "a"}]}`, 3)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if verr.Path != "centralNode" {
		t.Errorf("path = %q", verr.Path)
	}
}

func TestParseRejectsNamelessNode(t *testing.T) {
	_, err := Parse(`{"centralNode": "X", "nodes": [{"name": "a"}, {"subNodes": []}]}`, 3)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if !strings.Contains(verr.Path, "nodes[1]") {
		t.Errorf("path = %q, want nodes[1]", verr.Path)
	}
}

func TestParseRejectsNonJSON(t *testing.T) {
	for _, raw := range []string{"", "sorry, I cannot do that", "[1,2,3]"} {
		if _, err := Parse(raw, 3); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", raw)
		}
	}
}

func TestParseTruncatesBeyondMaxDepth(t *testing.T) {
	raw := `{"centralNode": "X", "nodes": [
		{"name": "l1", "subNodes": [
			{"name": "l2", "subNodes": [
				{"name": "l3", "subNodes": []}
			]}
		]}
	]}`

	tree, err := Parse(raw, 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	l2 := tree.SubNodes[0].SubNodes[0]
	if l2.Name != "l2" {
		t.Fatalf("level 2 = %q", l2.Name)
	}
	if len(l2.SubNodes) != 0 {
		t.Errorf("level 3 survived maxDepth=2: %+v", l2.SubNodes)
	}
}

func TestParseNodeList(t *testing.T) {
	nodes, err := ParseNodeList(`{"nodes": [{"name": "a"}, {"name": "b"}]}`, 2)
	if err != nil {
		t.Fatalf("ParseNodeList: %v", err)
	}
	if len(nodes) != 2 || nodes[0].Name != "a" {
		t.Errorf("nodes = %+v", nodes)
	}

	if _, err := ParseNodeList(`{"nodes": []}`, 2); err == nil {
		t.Error("empty node list accepted")
	}
}

func TestClampDepth(t *testing.T) {
	cases := map[int]int{0: DefaultDepth, -3: MinDepth, 1: 1, 5: 5, 10: 10, 42: MaxDepth}
	for in, want := range cases {
		if got := ClampDepth(in); got != want {
			t.Errorf("ClampDepth(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestGenerate(t *testing.T) {
	fake := &fakeProvider{responses: []string{
		`{"centralNode": "Tea", "nodes": [{"name": "Green", "subNodes": []}]}`,
	}}
	g := NewGenerator(fake, "fake-model")

	res, err := g.Generate(context.Background(), "Tea", 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Tree.Name != "Tea" || len(res.Tree.SubNodes) != 1 {
		t.Errorf("tree = %+v", res.Tree)
	}
	if res.InputTokens != 5 || res.OutputTokens != 7 {
		t.Errorf("usage = %d/%d", res.InputTokens, res.OutputTokens)
	}
	if len(fake.requests) != 1 {
		t.Fatalf("calls = %d, want 1", len(fake.requests))
	}
	if !fake.requests[0].JSONMode {
		t.Error("JSONMode not requested")
	}
}

func TestGenerateFallsBackOnParseFailure(t *testing.T) {
	fake := &fakeProvider{responses: []string{
		"I'd be happy to help! What kind of mind map?",
		`{"centralNode": "Tea", "nodes": []}`,
	}}
	g := NewGenerator(fake, "fake-model")

	res, err := g.Generate(context.Background(), "Tea", 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Tree.Name != "Tea" {
		t.Errorf("tree = %+v", res.Tree)
	}
	if len(fake.requests) != 2 {
		t.Fatalf("calls = %d, want 2 (fallback)", len(fake.requests))
	}
	// Usage accumulates across both calls.
	if res.InputTokens != 10 || res.OutputTokens != 14 {
		t.Errorf("usage = %d/%d", res.InputTokens, res.OutputTokens)
	}
}

func TestGenerateRejectsAfterFallback(t *testing.T) {
	fake := &fakeProvider{responses: []string{"nope", "still nope"}}
	g := NewGenerator(fake, "fake-model")

	if _, err := g.Generate(context.Background(), "Tea", 2); err == nil {
		t.Fatal("expected error when both responses fail to parse")
	}
}

func TestGenerateRequiresTopic(t *testing.T) {
	g := NewGenerator(&fakeProvider{}, "fake-model")
	if _, err := g.Generate(context.Background(), "   ", 2); err == nil {
		t.Fatal("expected error for empty topic")
	}
}

func TestExpandAppendsChildren(t *testing.T) {
	tree := &mindmap.TreeNode{Name: "Tea", SubNodes: []*mindmap.TreeNode{
		{Name: "Green", SubNodes: []*mindmap.TreeNode{}},
	}}
	fake := &fakeProvider{responses: []string{
		`{"nodes": [{"name": "Sencha"}, {"name": "Matcha"}]}`,
	}}
	g := NewGenerator(fake, "fake-model")

	res, err := g.Expand(context.Background(), tree, "root-0")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	got := res.Tree.SubNodes[0].SubNodes
	if len(got) != 2 || got[0].Name != "Sencha" || got[1].Name != "Matcha" {
		t.Errorf("children = %+v", got)
	}
	// The prompt names the node being expanded.
	prompt := fake.requests[0].Messages[1].Content
	if !strings.Contains(prompt, `"Green"`) || !strings.Contains(prompt, "Tea > Green") {
		t.Errorf("expand prompt missing context: %s", prompt)
	}
}

func TestExpandUnknownNode(t *testing.T) {
	tree := &mindmap.TreeNode{Name: "Tea", SubNodes: []*mindmap.TreeNode{}}
	g := NewGenerator(&fakeProvider{}, "fake-model")
	if _, err := g.Expand(context.Background(), tree, "root-5"); err == nil {
		t.Fatal("expected error for unknown node id")
	}
}
