package vectordb

import (
	"context"
	"time"
)

// Entry is a saved mind map as indexed for semantic search. The
// embedded text combines the topic with its top-level branch names so
// related maps match on either.
type Entry struct {
	ID        string
	Topic     string
	Branches  []string
	Depth     int
	CreatedAt time.Time
}

// Match pairs an indexed entry with its similarity to the query.
type Match struct {
	Entry      Entry
	Similarity float32
}

// Store indexes mind maps for related-map lookup.
type Store interface {
	// Index adds or replaces an entry.
	Index(ctx context.Context, entry Entry) error

	// FindRelated returns up to limit entries semantically close to
	// the query text, best match first.
	FindRelated(ctx context.Context, query string, limit int) ([]Match, error)

	// Delete removes an entry by id. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Persist writes the index to dir.
	Persist(ctx context.Context, dir string) error

	// Load restores the index from dir.
	Load(ctx context.Context, dir string) error

	// Count reports the number of indexed entries.
	Count() int
}
