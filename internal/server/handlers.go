package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/A-dvika/MindMaven/internal/export"
	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/mindmap"
	"github.com/A-dvika/MindMaven/internal/outline"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

type generateRequest struct {
	Topic string `json:"topic"`
	Depth int    `json:"depth"`
}

type generateResponse struct {
	SessionID    string          `json:"session_id"`
	MapID        string          `json:"map_id,omitempty"`
	Topic        string          `json:"topic"`
	Depth        int             `json:"depth"`
	NodeCount    int             `json:"node_count"`
	InputTokens  int             `json:"input_tokens"`
	OutputTokens int             `json:"output_tokens"`
	Diagram      mindmap.Diagram `json:"diagram"`
}

type sessionResponse struct {
	SessionID string          `json:"session_id"`
	Topic     string          `json:"topic"`
	Expanded  []string        `json:"expanded"`
	Diagram   mindmap.Diagram `json:"diagram"`
}

type toggleRequest struct {
	NodeID string `json:"node_id"`
}

type diagramResponse struct {
	SessionID string          `json:"session_id"`
	Diagram   mindmap.Diagram `json:"diagram"`
}

type expandResponse struct {
	SessionID    string          `json:"session_id"`
	NodeID       string          `json:"node_id"`
	InputTokens  int             `json:"input_tokens"`
	OutputTokens int             `json:"output_tokens"`
	Diagram      mindmap.Diagram `json:"diagram"`
}

type searchResult struct {
	MapID      string   `json:"map_id"`
	Topic      string   `json:"topic"`
	Branches   []string `json:"branches,omitempty"`
	Similarity float32  `json:"similarity"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	depth := req.Depth
	if depth == 0 {
		depth = s.cfg.DefaultDepth
	}
	depth = outline.ClampDepth(depth)

	result, err := s.gen.Generate(r.Context(), req.Topic, depth)
	if err != nil {
		writeError(w, http.StatusBadGateway, "generation failed: "+err.Error())
		return
	}

	ms := &mapSession{
		topic: req.Topic,
		depth: depth,
		state: mindmap.NewSession(result.Tree, s.cfg.OriginX, s.cfg.OriginY),
	}
	sessionID := s.sessions.add(ms)

	if s.store != nil {
		rec := &history.Record{
			Topic:        req.Topic,
			Depth:        depth,
			Provider:     s.cfg.Provider,
			Model:        s.cfg.Model,
			Tree:         result.Tree,
			InputTokens:  result.InputTokens,
			OutputTokens: result.OutputTokens,
		}
		if err := s.store.Save(r.Context(), rec); err != nil {
			log.Printf("server: save mind map: %v", err)
		} else {
			ms.recordID = rec.ID
			s.indexMap(r.Context(), rec.ID, req.Topic, depth, result.Tree)
		}
	}

	_, diagram, _ := ms.snapshot()
	writeJSON(w, http.StatusCreated, generateResponse{
		SessionID:    sessionID,
		MapID:        ms.recordID,
		Topic:        req.Topic,
		Depth:        depth,
		NodeCount:    mindmap.CountNodes(result.Tree),
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		Diagram:      diagram,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	topic, diagram, expanded := ms.snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: chi.URLParam(r, "id"),
		Topic:     topic,
		Expanded:  expanded,
		Diagram:   diagram,
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NodeID == "" {
		writeError(w, http.StatusBadRequest, "node_id is required")
		return
	}

	diagram, err := ms.toggle(req.NodeID)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, diagramResponse{
		SessionID: chi.URLParam(r, "id"),
		Diagram:   diagram,
	})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ms, ok := s.sessions.get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NodeID == "" {
		writeError(w, http.StatusBadRequest, "node_id is required")
		return
	}

	tree, err := ms.beginExpand()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if mindmap.NodeAt(tree, req.NodeID) == nil {
		ms.abortExpand()
		writeError(w, http.StatusNotFound, "node not found: "+req.NodeID)
		return
	}

	result, err := s.gen.Expand(r.Context(), tree, req.NodeID)
	if err != nil {
		ms.abortExpand()
		writeError(w, http.StatusBadGateway, "expansion failed: "+err.Error())
		return
	}
	diagram := ms.finishExpand(req.NodeID)

	if s.store != nil && ms.recordID != "" {
		if err := s.store.UpdateTree(r.Context(), ms.recordID, tree); err != nil {
			log.Printf("server: update mind map %s: %v", ms.recordID, err)
		}
	}

	writeJSON(w, http.StatusOK, expandResponse{
		SessionID:    sessionID,
		NodeID:       req.NodeID,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		Diagram:      diagram,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	tree, err := ms.exportTree()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(export.Markdown(tree)))
	case "html":
		page, err := export.HTML(tree)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.vectors == nil {
		writeError(w, http.StatusServiceUnavailable, "semantic search not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := s.vectors.FindRelated(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed: "+err.Error())
		return
	}

	results := make([]searchResult, len(matches))
	for i, m := range matches {
		results[i] = searchResult{
			MapID:      m.Entry.ID,
			Topic:      m.Entry.Topic,
			Branches:   m.Entry.Branches,
			Similarity: m.Similarity,
		}
	}
	writeJSON(w, http.StatusOK, results)
}

// indexMap adds a saved map to the vector index. Failures are logged,
// not surfaced; search is best effort.
func (s *Server) indexMap(ctx context.Context, id, topic string, depth int, tree *mindmap.TreeNode) {
	if s.vectors == nil {
		return
	}
	branches := make([]string, 0, len(tree.SubNodes))
	for _, child := range tree.SubNodes {
		branches = append(branches, child.Name)
	}
	err := s.vectors.Index(ctx, vectordb.Entry{
		ID:       id,
		Topic:    topic,
		Branches: branches,
		Depth:    depth,
	})
	if err != nil {
		log.Printf("server: index mind map %s: %v", id, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
