package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"skillpack/pkg/skill"
)

// Store manages the documents and builds tables.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given SQLite database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Reindex replaces every indexed document of the corpus's skill with the
// current on-disk content. Returns the number of documents indexed.
func (s *Store) Reindex(ctx context.Context, c *skill.Corpus) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reindex: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE skill = ?`, c.Manifest.Name); err != nil {
		return 0, fmt.Errorf("clear old documents: %w", err)
	}

	n := 0
	for _, rel := range c.Documents() {
		content, err := docContent(c, rel)
		if err != nil {
			return 0, err
		}
		title := firstHeading(content)
		if title == "" {
			title = rel
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (skill, path, title, content) VALUES (?, ?, ?, ?)`,
			c.Manifest.Name, rel, title, content,
		); err != nil {
			return 0, fmt.Errorf("index %s: %w", rel, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reindex: %w", err)
	}
	return n, nil
}

// docContent returns the indexable text of a document. SKILL.md is indexed
// without its frontmatter so manifest fields don't pollute search results.
func docContent(c *skill.Corpus, rel string) (string, error) {
	if rel == skill.IndexDoc {
		return string(c.Body), nil
	}
	b, err := os.ReadFile(filepath.Join(c.Root, filepath.FromSlash(rel)))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return string(b), nil
}

// firstHeading returns the text of the first markdown heading in content.
// Lines inside fenced code blocks are not headings (a shell comment in an
// example snippet must not become the document title).
func firstHeading(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}
