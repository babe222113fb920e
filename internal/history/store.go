package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/A-dvika/MindMaven/internal/db"
	"github.com/A-dvika/MindMaven/internal/mindmap"
)

// Store provides CRUD operations for saved mind maps.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save inserts a new record. If rec.ID is empty a UUID is generated; the
// generated id is written back into rec.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	treeJSON, err := json.Marshal(rec.Tree)
	if err != nil {
		return fmt.Errorf("marshalling tree: %w", err)
	}
	rec.NodeCount = mindmap.CountNodes(rec.Tree)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mindmaps (id, topic, depth, provider, model, tree, node_count, input_tokens, output_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Topic, rec.Depth, rec.Provider, rec.Model,
		string(treeJSON), rec.NodeCount, rec.InputTokens, rec.OutputTokens,
	)
	if err != nil {
		return fmt.Errorf("inserting mindmap: %w", err)
	}
	return nil
}

// UpdateTree replaces the stored tree of an existing record, used after a
// node expansion grows the map.
func (s *Store) UpdateTree(ctx context.Context, id string, tree *mindmap.TreeNode) error {
	treeJSON, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshalling tree: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE mindmaps SET tree = ?, node_count = ?, updated_at = datetime('now') WHERE id = ?`,
		string(treeJSON), mindmap.CountNodes(tree), id,
	)
	if err != nil {
		return fmt.Errorf("updating mindmap: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID retrieves a single record including its tree.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, topic, depth, provider, model, tree, node_count, input_tokens, output_tokens, created_at, updated_at
		FROM mindmaps WHERE id = ?`, id)
	return scanRecord(row, true)
}

// ListFilter controls which records List returns. Trees are omitted from
// listings; fetch them with GetByID.
type ListFilter struct {
	Topic  string // substring match
	Limit  int
	Offset int
}

// List returns saved maps, newest first, without their trees.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Topic != "" {
		clauses = append(clauses, "topic LIKE ?")
		args = append(args, "%"+filter.Topic+"%")
	}

	query := "SELECT id, topic, depth, provider, model, node_count, input_tokens, output_tokens, created_at, updated_at FROM mindmaps"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mindmaps: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Delete removes a record. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM mindmaps WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting mindmap: %w", err)
	}
	return nil
}

// Count returns the number of saved maps.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mindmaps").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting mindmaps: %w", err)
	}
	return n, nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner, withTree bool) (*Record, error) {
	var (
		rec                  Record
		treeJSON             string
		createdAt, updatedAt string
	)

	var err error
	if withTree {
		err = sc.Scan(&rec.ID, &rec.Topic, &rec.Depth, &rec.Provider, &rec.Model,
			&treeJSON, &rec.NodeCount, &rec.InputTokens, &rec.OutputTokens, &createdAt, &updatedAt)
	} else {
		err = sc.Scan(&rec.ID, &rec.Topic, &rec.Depth, &rec.Provider, &rec.Model,
			&rec.NodeCount, &rec.InputTokens, &rec.OutputTokens, &createdAt, &updatedAt)
	}
	if err != nil {
		return nil, err
	}

	if withTree && treeJSON != "" {
		var tree mindmap.TreeNode
		if err := json.Unmarshal([]byte(treeJSON), &tree); err != nil {
			return nil, fmt.Errorf("unmarshalling stored tree: %w", err)
		}
		normalizeTree(&tree)
		rec.Tree = &tree
	}

	rec.CreatedAt = parseTimestamp(createdAt)
	rec.UpdatedAt = parseTimestamp(updatedAt)
	return &rec, nil
}

// normalizeTree restores the non-nil SubNodes invariant after a JSON
// round trip, where empty slices come back as null.
func normalizeTree(n *mindmap.TreeNode) {
	if n.SubNodes == nil {
		n.SubNodes = []*mindmap.TreeNode{}
	}
	for _, child := range n.SubNodes {
		normalizeTree(child)
	}
}

func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return time.Time{}
}
