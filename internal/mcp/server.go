// Package mcp exposes mind map generation to AI agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/outline"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing mind map tools.
type Server struct {
	gen      *outline.Generator
	store    *history.Store
	vectors  vectordb.Store // nil disables find_related_maps
	provider string
	model    string
	mcp      *server.MCPServer
}

// NewServer creates an MCP server with the given dependencies. store
// may be nil for stateless use; expand_node then only works within a
// single generate call.
func NewServer(gen *outline.Generator, store *history.Store, vectors vectordb.Store, provider, model string) *Server {
	s := &Server{
		gen:      gen,
		store:    store,
		vectors:  vectors,
		provider: provider,
		model:    model,
	}

	s.mcp = server.NewMCPServer(
		"mindmaven",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(generateMindmapTool, s.handleGenerateMindmap)
	s.mcp.AddTool(expandNodeTool, s.handleExpandNode)
	s.mcp.AddTool(findRelatedMapsTool, s.handleFindRelatedMaps)
}

// Serve starts the MCP server on stdio. Stdout carries MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
