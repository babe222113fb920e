package vectordb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/A-dvika/MindMaven/internal/embeddings"
)

const (
	collectionName = "mindmaps"
	indexFileName  = "mindmaps.gob.gz"
)

// ChromemStore implements Store on chromem-go's in-memory index with
// gob snapshots for persistence.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

// embedText is what actually gets vectorized: the topic plus the
// first-level branches, so "Spanish verbs" finds "Spanish grammar".
func embedText(e Entry) string {
	if len(e.Branches) == 0 {
		return e.Topic
	}
	return e.Topic + ": " + strings.Join(e.Branches, ", ")
}

func (s *ChromemStore) Index(ctx context.Context, entry Entry) error {
	doc := chromem.Document{
		ID:      entry.ID,
		Content: embedText(entry),
		Metadata: map[string]string{
			"topic":      entry.Topic,
			"branches":   strings.Join(entry.Branches, "\n"),
			"depth":      strconv.Itoa(entry.Depth),
			"created_at": entry.CreatedAt.Format(time.RFC3339),
		},
	}
	return s.collection.AddDocuments(ctx, []chromem.Document{doc}, 1)
}

func (s *ChromemStore) FindRelated(ctx context.Context, query string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go rejects nResults larger than the collection.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Entry:      entryFromDocument(r.ID, r.Metadata),
			Similarity: r.Similarity,
		}
	}
	return matches, nil
}

func (s *ChromemStore) Delete(ctx context.Context, id string) error {
	if s.collection.Count() == 0 {
		return nil
	}
	return s.collection.Delete(ctx, nil, nil, id)
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(dir+"/"+indexFileName, true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(dir+"/"+indexFileName, ""); err != nil {
		return fmt.Errorf("import index: %w", err)
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func entryFromDocument(id string, md map[string]string) Entry {
	depth, _ := strconv.Atoi(md["depth"])
	createdAt, _ := time.Parse(time.RFC3339, md["created_at"])

	var branches []string
	if md["branches"] != "" {
		branches = strings.Split(md["branches"], "\n")
	}

	return Entry{
		ID:        id,
		Topic:     md["topic"],
		Branches:  branches,
		Depth:     depth,
		CreatedAt: createdAt,
	}
}
