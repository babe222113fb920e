package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/A-dvika/MindMaven/internal/db"
	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/llm"
	"github.com/A-dvika/MindMaven/internal/outline"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

// scriptedProvider replays canned completions in order.
type scriptedProvider struct {
	responses []string
	calls     int
}

func (p *scriptedProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.calls >= len(p.responses) {
		return nil, fmt.Errorf("no scripted response left")
	}
	content := p.responses[p.calls]
	p.calls++
	return &llm.CompletionResponse{Content: content, InputTokens: 10, OutputTokens: 20}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

const outlineJSON = `{
	"centralNode": "Photosynthesis",
	"nodes": [
		{"name": "Light reactions", "subNodes": [{"name": "Photolysis"}]},
		{"name": "Calvin cycle"}
	]
}`

func newTestServer(t *testing.T, responses ...string) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	gen := outline.NewGenerator(&scriptedProvider{responses: responses}, "test-model")
	cfg := Config{Provider: "scripted", Model: "test-model", DefaultDepth: 3}
	return New(cfg, gen, history.NewStore(database), nil)
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestGenerateAndToggle(t *testing.T) {
	srv := newTestServer(t, outlineJSON)

	w := postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: "Photosynthesis", Depth: 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("generate status = %d: %s", w.Code, w.Body.String())
	}
	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SessionID == "" || resp.MapID == "" {
		t.Fatalf("missing ids: %+v", resp)
	}
	if resp.NodeCount != 4 {
		t.Errorf("node_count = %d, want 4", resp.NodeCount)
	}
	// Root expanded by default: root plus two children visible.
	if len(resp.Diagram.Nodes) != 3 {
		t.Errorf("visible nodes = %d, want 3", len(resp.Diagram.Nodes))
	}

	// Toggle a branch open.
	w = postJSON(t, srv, "/api/sessions/"+resp.SessionID+"/toggle", toggleRequest{NodeID: "root-0"})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", w.Code, w.Body.String())
	}
	var togg diagramResponse
	if err := json.Unmarshal(w.Body.Bytes(), &togg); err != nil {
		t.Fatalf("unmarshal toggle: %v", err)
	}
	if len(togg.Diagram.Nodes) != 4 {
		t.Errorf("nodes after toggle = %d, want 4", len(togg.Diagram.Nodes))
	}

	// Session state endpoint reflects the toggle.
	req := httptest.NewRequest("GET", "/api/sessions/"+resp.SessionID, nil)
	w2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("get session status = %d", w2.Code)
	}
	var sess sessionResponse
	if err := json.Unmarshal(w2.Body.Bytes(), &sess); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if len(sess.Expanded) != 2 {
		t.Errorf("expanded = %v, want root and root-0", sess.Expanded)
	}
}

func TestGenerateValidation(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty topic status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest("POST", "/api/mindmaps", strings.NewReader("{not json"))
	w2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w2, req)
	if w2.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", w2.Code)
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	// Both the primary and fallback prompts return garbage.
	srv := newTestServer(t, "not json", "still not json")

	w := postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: "Anything"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/api/sessions/nope/toggle", toggleRequest{NodeID: "root"})
	if w.Code != http.StatusNotFound {
		t.Errorf("toggle status = %d, want 404", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/sessions/nope", nil)
	w2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w2, req)
	if w2.Code != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", w2.Code)
	}
}

func TestExpandGrowsTree(t *testing.T) {
	srv := newTestServer(t, outlineJSON,
		`{"nodes": [{"name": "Rubisco"}, {"name": "G3P"}]}`)

	w := postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: "Photosynthesis"})
	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Expand the leaf "Calvin cycle".
	w = postJSON(t, srv, "/api/sessions/"+resp.SessionID+"/expand", toggleRequest{NodeID: "root-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expand status = %d: %s", w.Code, w.Body.String())
	}
	var exp expandResponse
	if err := json.Unmarshal(w.Body.Bytes(), &exp); err != nil {
		t.Fatalf("unmarshal expand: %v", err)
	}

	// The expanded node opens automatically so its new children show.
	var found bool
	for _, n := range exp.Diagram.Nodes {
		if n.ID == "root-1-0" && n.Label == "Rubisco" {
			found = true
		}
	}
	if !found {
		t.Errorf("new child not visible: %+v", exp.Diagram.Nodes)
	}
}

func TestExpandUnknownNode(t *testing.T) {
	srv := newTestServer(t, outlineJSON)

	w := postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: "Photosynthesis"})
	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	w = postJSON(t, srv, "/api/sessions/"+resp.SessionID+"/expand", toggleRequest{NodeID: "root-9"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestExportFormats(t *testing.T) {
	srv := newTestServer(t, outlineJSON)

	w := postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: "Photosynthesis"})
	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/sessions/"+resp.SessionID+"/export", nil)
	w2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("export status = %d", w2.Code)
	}
	if !strings.HasPrefix(w2.Body.String(), "# Photosynthesis") {
		t.Errorf("markdown export = %q", w2.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/sessions/"+resp.SessionID+"/export?format=html", nil)
	w3 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w3, req)
	if w3.Code != http.StatusOK || !strings.Contains(w3.Body.String(), "<!DOCTYPE html>") {
		t.Errorf("html export status = %d", w3.Code)
	}

	req = httptest.NewRequest("GET", "/api/sessions/"+resp.SessionID+"/export?format=pdf", nil)
	w4 := httptest.NewRecorder()
	srv.Router().ServeHTTP(w4, req)
	if w4.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", w4.Code)
	}
}

func TestGenerateSavesHistory(t *testing.T) {
	srv := newTestServer(t, outlineJSON)

	postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: "Photosynthesis"})

	req := httptest.NewRequest("GET", "/api/history/", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var records []history.Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(records) != 1 || records[0].Topic != "Photosynthesis" {
		t.Errorf("history = %+v", records)
	}
}

func TestSearchUnconfigured(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/history/search?q=spanish", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

// stubVectors returns fixed matches without an embedding backend.
type stubVectors struct {
	matches []vectordb.Match
	indexed []vectordb.Entry
}

func (s *stubVectors) Index(_ context.Context, e vectordb.Entry) error {
	s.indexed = append(s.indexed, e)
	return nil
}

func (s *stubVectors) FindRelated(_ context.Context, _ string, _ int) ([]vectordb.Match, error) {
	return s.matches, nil
}

func (s *stubVectors) Delete(context.Context, string) error  { return nil }
func (s *stubVectors) Persist(context.Context, string) error { return nil }
func (s *stubVectors) Load(context.Context, string) error    { return nil }
func (s *stubVectors) Count() int                            { return len(s.indexed) }

func TestSearchAndIndexing(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	vectors := &stubVectors{matches: []vectordb.Match{
		{Entry: vectordb.Entry{ID: "m1", Topic: "Spanish grammar"}, Similarity: 0.91},
	}}
	gen := outline.NewGenerator(&scriptedProvider{responses: []string{outlineJSON}}, "test-model")
	srv := New(Config{DefaultDepth: 3}, gen, history.NewStore(database), vectors)

	postJSON(t, srv, "/api/mindmaps", generateRequest{Topic: "Photosynthesis"})
	if len(vectors.indexed) != 1 {
		t.Fatalf("indexed = %d entries, want 1", len(vectors.indexed))
	}
	if vectors.indexed[0].Topic != "Photosynthesis" || len(vectors.indexed[0].Branches) != 2 {
		t.Errorf("indexed entry = %+v", vectors.indexed[0])
	}

	req := httptest.NewRequest("GET", "/api/history/search?q=spanish", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var results []searchResult
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("unmarshal results: %v", err)
	}
	if len(results) != 1 || results[0].Topic != "Spanish grammar" {
		t.Errorf("results = %+v", results)
	}
}

func TestServeIndex(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("index status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "MindMaven") {
		t.Error("index page missing title")
	}
}
