package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/mindmap"
	"github.com/A-dvika/MindMaven/internal/outline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"`       // "generate", "toggle", or "expand"
	SessionID string `json:"session_id"` // empty for generate
	Topic     string `json:"topic"`
	Depth     int    `json:"depth"`
	NodeID    string `json:"node_id"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string           `json:"type"` // "diagram" or "error"
	SessionID string           `json:"session_id"`
	Topic     string           `json:"topic,omitempty"`
	NodeID    string           `json:"node_id,omitempty"`
	Diagram   *mindmap.Diagram `json:"diagram,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sendWSError(conn, "", "invalid message format")
			continue
		}

		switch req.Type {
		case "generate":
			s.wsGenerate(conn, r, req)
		case "toggle":
			s.wsToggle(conn, req)
		case "expand":
			s.wsExpand(conn, r, req)
		default:
			sendWSError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) wsGenerate(conn *websocket.Conn, r *http.Request, req wsRequest) {
	if req.Topic == "" {
		sendWSError(conn, "", "topic is required")
		return
	}
	depth := req.Depth
	if depth == 0 {
		depth = s.cfg.DefaultDepth
	}
	depth = outline.ClampDepth(depth)

	result, err := s.gen.Generate(r.Context(), req.Topic, depth)
	if err != nil {
		sendWSError(conn, "", "generation failed: "+err.Error())
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
	sendWS(conn, wsResponse{
		Type:      "diagram",
		SessionID: sessionID,
		Topic:     req.Topic,
		Diagram:   &diagram,
	})
}

func (s *Server) wsToggle(conn *websocket.Conn, req wsRequest) {
	ms, ok := s.sessions.get(req.SessionID)
	if !ok {
		sendWSError(conn, req.SessionID, "session not found")
		return
	}
	if req.NodeID == "" {
		sendWSError(conn, req.SessionID, "node_id is required")
		return
	}

	diagram, err := ms.toggle(req.NodeID)
	if err != nil {
		sendWSError(conn, req.SessionID, err.Error())
		return
	}
	sendWS(conn, wsResponse{
		Type:      "diagram",
		SessionID: req.SessionID,
		NodeID:    req.NodeID,
		Diagram:   &diagram,
	})
}

func (s *Server) wsExpand(conn *websocket.Conn, r *http.Request, req wsRequest) {
	ms, ok := s.sessions.get(req.SessionID)
	if !ok {
		sendWSError(conn, req.SessionID, "session not found")
		return
	}
	if req.NodeID == "" {
		sendWSError(conn, req.SessionID, "node_id is required")
		return
	}

	tree, err := ms.beginExpand()
	if err != nil {
		sendWSError(conn, req.SessionID, err.Error())
		return
	}
	if mindmap.NodeAt(tree, req.NodeID) == nil {
		ms.abortExpand()
		sendWSError(conn, req.SessionID, "node not found: "+req.NodeID)
		return
	}

	if _, err := s.gen.Expand(r.Context(), tree, req.NodeID); err != nil {
		ms.abortExpand()
		sendWSError(conn, req.SessionID, "expansion failed: "+err.Error())
		return
	}
	diagram := ms.finishExpand(req.NodeID)

	if s.store != nil && ms.recordID != "" {
		if err := s.store.UpdateTree(r.Context(), ms.recordID, tree); err != nil {
			log.Printf("server: update mind map %s: %v", ms.recordID, err)
		}
	}

	sendWS(conn, wsResponse{
		Type:      "diagram",
		SessionID: req.SessionID,
		NodeID:    req.NodeID,
		Diagram:   &diagram,
	})
}

func sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, sessionID, message string) {
	sendWS(conn, wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Error:     message,
	})
}
