package mcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/mindmap"
	"github.com/A-dvika/MindMaven/internal/outline"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

func (s *Server) handleGenerateMindmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}
	depth := outline.ClampDepth(request.GetInt("depth", outline.DefaultDepth))

	result, err := s.gen.Generate(ctx, topic, depth)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	mapID := ""
	if s.store != nil {
		rec := &history.Record{
			Topic:        topic,
			Depth:        depth,
			Provider:     s.provider,
			Model:        s.model,
			Tree:         result.Tree,
			InputTokens:  result.InputTokens,
			OutputTokens: result.OutputTokens,
		}
		if err := s.store.Save(ctx, rec); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("saving mind map: %v", err)), nil
		}
		mapID = rec.ID
		s.indexMap(ctx, rec)
	}

	var sb strings.Builder
	if mapID != "" {
		fmt.Fprintf(&sb, "Map id: %s\n\n", mapID)
	}
	writeOutline(&sb, result.Tree, mindmap.RootID, 0)
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleExpandNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mapID, err := request.RequireString("map_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: map_id"), nil
	}
	nodeID, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: node_id"), nil
	}
	if s.store == nil {
		return mcp.NewToolResultError("no history store configured; expand_node needs persistent maps"), nil
	}

	rec, err := s.store.GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mcp.NewToolResultError(fmt.Sprintf("no mind map with id %q", mapID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("loading mind map: %v", err)), nil
	}

	if _, err := s.gen.Expand(ctx, rec.Tree, nodeID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("expansion failed: %v", err)), nil
	}
	if err := s.store.UpdateTree(ctx, mapID, rec.Tree); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saving expanded map: %v", err)), nil
	}

	node := mindmap.NodeAt(rec.Tree, nodeID)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Expanded %q:\n\n", node.Name)
	writeOutline(&sb, node, nodeID, 0)
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleFindRelatedMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	if s.vectors == nil {
		return mcp.NewToolResultError("semantic search is not configured; set an embedding provider"), nil
	}

	limit := request.GetInt("limit", 5)
	matches, err := s.vectors.FindRelated(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No related mind maps found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d related map(s):\n", len(matches))
	for i, m := range matches {
		fmt.Fprintf(&sb, "\n%d. %s (id: %s, %.0f%% match)\n", i+1, m.Entry.Topic, m.Entry.ID, m.Similarity*100)
		if len(m.Entry.Branches) > 0 {
			fmt.Fprintf(&sb, "   Branches: %s\n", strings.Join(m.Entry.Branches, ", "))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// indexMap adds a saved map to the vector index, best effort.
func (s *Server) indexMap(ctx context.Context, rec *history.Record) {
	if s.vectors == nil {
		return
	}
	branches := make([]string, 0, len(rec.Tree.SubNodes))
	for _, child := range rec.Tree.SubNodes {
		branches = append(branches, child.Name)
	}
	_ = s.vectors.Index(ctx, vectordb.Entry{
		ID:       rec.ID,
		Topic:    rec.Topic,
		Branches: branches,
		Depth:    rec.Depth,
	})
}

// writeOutline renders a subtree as an indented outline with node ids,
// so agents can address nodes in follow-up expand_node calls.
func writeOutline(sb *strings.Builder, node *mindmap.TreeNode, id string, indent int) {
	fmt.Fprintf(sb, "%s- %s (%s)\n", strings.Repeat("  ", indent), node.Name, id)
	for i, child := range node.SubNodes {
		writeOutline(sb, child, mindmap.ChildID(id, i), indent+1)
	}
}
