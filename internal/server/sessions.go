package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/A-dvika/MindMaven/internal/mindmap"
)

// errBusy means the session has an LLM expansion in flight. Only one
// expansion runs per session at a time; other tree accesses wait it
// out client-side.
var errBusy = errors.New("expansion in progress")

// mapSession is one live mind map: the rendering state plus the
// metadata needed to persist and re-export it.
type mapSession struct {
	mu       sync.Mutex
	busy     bool
	topic    string
	depth    int
	recordID string
	state    *mindmap.Session
}

func (ms *mapSession) snapshot() (topic string, d mindmap.Diagram, expanded []string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.topic, ms.state.Diagram(), ms.state.Expanded().IDs()
}

func (ms *mapSession) toggle(id string) (mindmap.Diagram, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.busy {
		return mindmap.Diagram{}, errBusy
	}
	return ms.state.Toggle(id), nil
}

func (ms *mapSession) exportTree() (*mindmap.TreeNode, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.busy {
		return nil, errBusy
	}
	return ms.state.Tree(), nil
}

// beginExpand marks the session busy and hands out the tree for the
// expansion call. The caller must finish with finishExpand or
// abortExpand.
func (ms *mapSession) beginExpand() (*mindmap.TreeNode, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.busy {
		return nil, errBusy
	}
	ms.busy = true
	return ms.state.Tree(), nil
}

// finishExpand clears the busy flag, makes sure the grown node is
// expanded so its new children show, and recomputes the diagram.
func (ms *mapSession) finishExpand(nodeID string) mindmap.Diagram {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.busy = false
	if nodeID != "" && !ms.state.Expanded().Contains(nodeID) {
		return ms.state.Toggle(nodeID)
	}
	return ms.state.Refresh()
}

func (ms *mapSession) abortExpand() {
	ms.mu.Lock()
	ms.busy = false
	ms.mu.Unlock()
}

// sessionRegistry holds live sessions keyed by id. Sessions live for
// the process lifetime; saved maps go to the history store.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*mapSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*mapSession)}
}

func (r *sessionRegistry) add(ms *mapSession) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = ms
	r.mu.Unlock()
	return id
}

func (r *sessionRegistry) get(id string) (*mapSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ms, ok := r.sessions[id]
	return ms, ok
}
