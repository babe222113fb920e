package history

import (
	"time"

	"github.com/A-dvika/MindMaven/internal/mindmap"
)

// Record is one saved mind map generation.
type Record struct {
	ID           string            `json:"id"`
	Topic        string            `json:"topic"`
	Depth        int               `json:"depth"`
	Provider     string            `json:"provider"`
	Model        string            `json:"model"`
	Tree         *mindmap.TreeNode `json:"tree,omitempty"`
	NodeCount    int               `json:"node_count"`
	InputTokens  int               `json:"input_tokens"`
	OutputTokens int               `json:"output_tokens"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
