package outline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/A-dvika/MindMaven/internal/llm"
	"github.com/A-dvika/MindMaven/internal/mindmap"
)

// Depth limits for generation requests. Requests outside the range are
// clamped, not rejected.
const (
	MinDepth     = 1
	MaxDepth     = 10
	DefaultDepth = 3
)

const defaultMaxTokens = 4096

// Generator turns a topic into a validated mind map tree by prompting an
// LLM provider and defensively parsing what comes back.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a Generator using the given provider and model.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Result holds a generated tree along with token usage for the request,
// including any fallback retry.
type Result struct {
	Tree         *mindmap.TreeNode
	InputTokens  int
	OutputTokens int
}

// ClampDepth bounds a requested depth to [MinDepth, MaxDepth], mapping
// zero to DefaultDepth.
func ClampDepth(depth int) int {
	switch {
	case depth == 0:
		return DefaultDepth
	case depth < MinDepth:
		return MinDepth
	case depth > MaxDepth:
		return MaxDepth
	}
	return depth
}

// Generate produces a tree for the topic with at most depth levels below
// the central node. On a parse failure the model is retried once with a
// stricter prompt; if that also fails the whole generation is rejected and
// no tree is returned.
func (g *Generator) Generate(ctx context.Context, topic string, depth int) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	depth = ClampDepth(depth)

	resp, err := g.completeWithRetry(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    buildGenerateMessages(topic, depth),
		MaxTokens:   defaultMaxTokens,
		Temperature: 0.4,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	result := &Result{InputTokens: resp.InputTokens, OutputTokens: resp.OutputTokens}

	tree, parseErr := Parse(resp.Content, depth)
	if parseErr != nil {
		fallbackResp, fallbackErr := g.completeWithRetry(ctx, llm.CompletionRequest{
			Model:       g.model,
			Messages:    buildFallbackMessages(topic, depth),
			MaxTokens:   defaultMaxTokens,
			Temperature: 0.0,
			JSONMode:    true,
		})
		if fallbackErr != nil {
			return nil, fmt.Errorf("parsing outline: %w", parseErr)
		}
		result.InputTokens += fallbackResp.InputTokens
		result.OutputTokens += fallbackResp.OutputTokens

		tree, parseErr = Parse(fallbackResp.Content, depth)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing outline after fallback: %w", parseErr)
		}
	}

	result.Tree = tree
	return result, nil
}

// Expand asks the model for further subtopics of the node at nodeID and
// appends them to that node in place. Appending keeps all existing node
// ids stable, so the caller's expansion set remains valid.
func (g *Generator) Expand(ctx context.Context, tree *mindmap.TreeNode, nodeID string) (*Result, error) {
	if tree == nil {
		return nil, fmt.Errorf("no tree to expand")
	}
	node := mindmap.NodeAt(tree, nodeID)
	if node == nil {
		return nil, fmt.Errorf("unknown node id %q", nodeID)
	}

	path := nodePath(tree, nodeID)
	resp, err := g.completeWithRetry(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    buildExpandMessages(tree.Name, node.Name, path),
		MaxTokens:   defaultMaxTokens,
		Temperature: 0.4,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	children, parseErr := ParseNodeList(resp.Content, 2)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing expansion: %w", parseErr)
	}

	node.SubNodes = append(node.SubNodes, children...)
	return &Result{
		Tree:         tree,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// nodePath collects the names from the root down to nodeID.
func nodePath(tree *mindmap.TreeNode, nodeID string) []string {
	path := []string{tree.Name}
	rest := strings.TrimPrefix(strings.TrimPrefix(nodeID, mindmap.RootID), "-")
	current := tree
	for _, part := range strings.Split(rest, "-") {
		if part == "" {
			break
		}
		idx := 0
		for _, c := range part {
			idx = idx*10 + int(c-'0')
		}
		if idx >= len(current.SubNodes) {
			break
		}
		current = current.SubNodes[idx]
		path = append(path, current.Name)
	}
	return path
}

// completeWithRetry calls the provider with exponential backoff on
// rate-limit and overload errors.
func (g *Generator) completeWithRetry(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	const maxRetries = 4
	backoff := 10 * time.Second

	for attempt := 0; ; attempt++ {
		resp, err := g.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}

		errStr := err.Error()
		retryable := strings.Contains(errStr, "rate_limit") ||
			strings.Contains(errStr, "429") ||
			strings.Contains(errStr, "too many requests") ||
			strings.Contains(errStr, "overloaded")
		if !retryable {
			return nil, err
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("rate limited after %d retries: %w", maxRetries, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > time.Minute {
				backoff = time.Minute
			}
		}
	}
}
