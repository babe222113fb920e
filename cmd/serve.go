package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/A-dvika/MindMaven/internal/db"
	"github.com/A-dvika/MindMaven/internal/history"
	mcpserver "github.com/A-dvika/MindMaven/internal/mcp"
	"github.com/A-dvika/MindMaven/internal/outline"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing mind map generation and search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		gen := outline.NewGenerator(provider, cfg.Model)

		database, err := db.Open(filepath.Join(cfg.DataDir, "mindmaven.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store := history.NewStore(database)

		var vectors vectordb.Store
		if embedder, err := createEmbedderFromConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: find_related_maps disabled: %v\n", err)
		} else {
			cs, err := vectordb.NewChromemStore(embedder)
			if err != nil {
				return fmt.Errorf("creating vector store: %w", err)
			}
			if err := cs.Load(context.Background(), cfg.DataDir); err != nil && verbose {
				fmt.Fprintf(os.Stderr, "No saved map index at %s: %v\n", cfg.DataDir, err)
			}
			vectors = cs
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "mindmaven MCP server started on stdio (provider=%s, model=%s)\n", cfg.Provider, cfg.Model)

		srv := mcpserver.NewServer(gen, store, vectors, string(cfg.Provider), cfg.Model)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
