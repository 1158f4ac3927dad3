package index

import (
	"context"
	"fmt"
	"strings"
)

// SearchOpts configures a full-text search.
type SearchOpts struct {
	Limit int    // default 10
	Skill string // optional filter to one skill
}

// Hit is one search result.
type Hit struct {
	Skill   string
	Path    string
	Title   string
	Snippet string
	Score   float64 // BM25 rank; more negative is more relevant
}

// Search runs a BM25-ranked FTS5 query over indexed documents. The snippet
// marks matched terms with >>...<< and is clamped to 24 tokens.
func (s *Store) Search(ctx context.Context, query string, opts SearchOpts) ([]Hit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	sanitized := sanitizeQuery(query)
	if sanitized == "" {
		return nil, fmt.Errorf("empty search query")
	}

	q := `SELECT d.skill, d.path, d.title,
	             snippet(documents_fts, 1, '>>', '<<', '...', 24),
	             rank
	      FROM documents_fts
	      JOIN documents d ON d.id = documents_fts.rowid
	      WHERE documents_fts MATCH ?`
	args := []any{sanitized}

	if opts.Skill != "" {
		q += ` AND d.skill = ?`
		args = append(args, opts.Skill)
	}
	q += ` ORDER BY rank LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Skill, &h.Path, &h.Title, &h.Snippet, &h.Score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}
	return hits, nil
}

// sanitizeQuery wraps each term in double quotes to prevent FTS5 operator
// interpretation (e.g., "and", "or", "not" are FTS5 operators) and joins
// them with OR for broader recall.
func sanitizeQuery(query string) string {
	words := strings.Fields(query)
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		clean := strings.Map(func(r rune) rune {
			if r == '"' {
				return -1
			}
			return r
		}, w)
		if clean != "" {
			quoted = append(quoted, `"`+clean+`"`)
		}
	}
	return strings.Join(quoted, " OR ")
}
