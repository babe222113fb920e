package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateMindmapTool defines the generate_mindmap MCP tool.
var generateMindmapTool = mcp.NewTool("generate_mindmap",
	mcp.WithDescription("Generate a hierarchical mind map for a topic. Returns the map as a markdown outline plus its id for later expansion."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("The central topic of the mind map"),
	),
	mcp.WithNumber("depth",
		mcp.Description("How many levels deep to generate (1-10, default 3)"),
	),
)

// expandNodeTool defines the expand_node MCP tool.
var expandNodeTool = mcp.NewTool("expand_node",
	mcp.WithDescription("Ask the AI for additional sub-topics under one node of a previously generated mind map."),
	mcp.WithString("map_id",
		mcp.Required(),
		mcp.Description("Id of the mind map, as returned by generate_mindmap"),
	),
	mcp.WithString("node_id",
		mcp.Required(),
		mcp.Description("Id of the node to expand, e.g. root-0-1"),
	),
)

// findRelatedMapsTool defines the find_related_maps MCP tool.
var findRelatedMapsTool = mcp.NewTool("find_related_maps",
	mcp.WithDescription("Semantically search previously generated mind maps by topic."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of maps to return (default 5)"),
	),
)
