package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/A-dvika/MindMaven/internal/db"
	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/outline"
	"github.com/A-dvika/MindMaven/internal/server"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the mind map web server",
	Long:  `Starts the HTTP server with the browser UI, the REST API, and the WebSocket channel for interactive mind maps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		port := serverPort
		if port == 0 {
			port = cfg.Port
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		gen := outline.NewGenerator(provider, cfg.Model)

		dbPath := filepath.Join(cfg.DataDir, "mindmaven.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store := history.NewStore(database)

		// Semantic search needs an embedding provider; run without it
		// when none is usable.
		var vectors vectordb.Store
		if embedder, err := createEmbedderFromConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: semantic search disabled: %v\n", err)
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

		srv := server.New(server.Config{
			Port:         port,
			AllowAll:     true,
			Provider:     string(cfg.Provider),
			Model:        cfg.Model,
			DefaultDepth: cfg.DefaultDepth,
			OriginX:      cfg.Layout.OriginX,
			OriginY:      cfg.Layout.OriginY,
		}, gen, store, vectors)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			if vectors != nil {
				if err := vectors.Persist(context.Background(), cfg.DataDir); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not persist map index: %v\n", err)
				}
			}
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "mindmaven v%s starting on http://localhost:%d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (0 uses the config value)")
	rootCmd.AddCommand(serverCmd)
}
