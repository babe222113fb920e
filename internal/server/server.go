// Package server exposes the mind map generator over HTTP: a JSON API
// for generating, toggling, and exporting maps, a WebSocket channel for
// interactive use, and the embedded browser UI.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/outline"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port         int
	AllowAll     bool // allow all CORS origins (dev mode)
	Provider     string
	Model        string
	DefaultDepth int
	OriginX      float64
	OriginY      float64
}

// Server wires the outline generator, history store, and vector index
// behind the HTTP API.
type Server struct {
	cfg        Config
	gen        *outline.Generator
	store      *history.Store
	vectors    vectordb.Store // nil when semantic search is not configured
	sessions   *sessionRegistry
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. store and vectors may be nil; the matching
// endpoints then report the feature as unavailable.
func New(cfg Config, gen *outline.Generator, store *history.Store, vectors vectordb.Store) *Server {
	if cfg.DefaultDepth == 0 {
		cfg.DefaultDepth = outline.DefaultDepth
	}
	s := &Server{
		cfg:      cfg,
		gen:      gen,
		store:    store,
		vectors:  vectors,
		sessions: newSessionRegistry(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.ServeIndex)
	r.Get("/ws/mindmap", s.handleWebSocket)

	r.Post("/api/mindmaps", s.handleGenerate)
	r.Get("/api/sessions/{id}", s.handleGetSession)
	r.Post("/api/sessions/{id}/toggle", s.handleToggle)
	r.Post("/api/sessions/{id}/expand", s.handleExpand)
	r.Get("/api/sessions/{id}/export", s.handleExport)
	r.Get("/api/history/search", s.handleSearch)

	if s.store != nil {
		history.RegisterRoutes(r, s.store)
	}

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port and blocks.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("mindmaven server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
