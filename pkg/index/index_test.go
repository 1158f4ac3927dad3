package index_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"skillpack/pkg/index"
	"skillpack/pkg/skill"
)

// setupStore opens a fresh index database in a temp dir.
func setupStore(t *testing.T) (*index.Store, *sql.DB) {
	t.Helper()

	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return index.NewStore(db), db
}

// setupIndexedCorpus writes a corpus, loads it, and indexes it.
func setupIndexedCorpus(t *testing.T, store *index.Store) *skill.Corpus {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"SKILL.md": `---
name: django-tips
description: Django guidance.
version: 1.0.0
---

# Django Tips

Prefer class-based views for CRUD. See [deploy](references/deploy.md).
`,
		"references/deploy.md": "# Deployment\n\nUse gunicorn behind nginx. Collect static files first.\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	c, err := skill.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n, err := store.Reindex(context.Background(), c)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if n != 2 {
		t.Fatalf("Reindex indexed %d documents, want 2", n)
	}
	return c
}

func TestReindexAndSearch(t *testing.T) {
	store, _ := setupStore(t)
	setupIndexedCorpus(t, store)

	hits, err := store.Search(context.Background(), "gunicorn nginx", index.SearchOpts{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one hit")
	}
	if hits[0].Path != "references/deploy.md" {
		t.Errorf("top hit = %q, want references/deploy.md", hits[0].Path)
	}
	if hits[0].Title != "Deployment" {
		t.Errorf("title = %q, want Deployment", hits[0].Title)
	}
	if hits[0].Snippet == "" {
		t.Error("snippet should not be empty")
	}
}

func TestReindexReplacesOldDocuments(t *testing.T) {
	store, db := setupStore(t)
	c := setupIndexedCorpus(t, store)

	// Reindex again; document count must stay at 2, not double.
	if _, err := store.Reindex(context.Background(), c); err != nil {
		t.Fatalf("second Reindex: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM documents WHERE skill = 'django-tips'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("documents = %d, want 2", count)
	}
}

func TestReindexTitleSkipsFencedCode(t *testing.T) {
	store, db := setupStore(t)

	root := t.TempDir()
	files := map[string]string{
		"SKILL.md": `---
name: fence-skill
description: d
version: 1.0.0
---

# Fence Skill
`,
		"references/deploy.md": "```sh\n# not a title\necho deploy\n```\n\n# Deployment\n\nbody\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	c, err := skill.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := store.Reindex(context.Background(), c); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	var title string
	if err := db.QueryRow(`SELECT title FROM documents WHERE path = 'references/deploy.md'`).Scan(&title); err != nil {
		t.Fatalf("query title: %v", err)
	}
	if title != "Deployment" {
		t.Errorf("title = %q, want Deployment", title)
	}
}

func TestSearchSkillFilter(t *testing.T) {
	store, _ := setupStore(t)
	setupIndexedCorpus(t, store)

	hits, err := store.Search(context.Background(), "gunicorn", index.SearchOpts{Skill: "other-skill"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits for other-skill, got %d", len(hits))
	}
}

func TestSearchOperatorWordsAreQuoted(t *testing.T) {
	store, _ := setupStore(t)
	setupIndexedCorpus(t, store)

	// "and"/"or" are FTS5 operators; an unsanitized query would error.
	if _, err := store.Search(context.Background(), "views and deploy", index.SearchOpts{}); err != nil {
		t.Errorf("Search with operator words: %v", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	store, _ := setupStore(t)

	if _, err := store.Search(context.Background(), "   ", index.SearchOpts{}); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestRecordAndListBuilds(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	id, err := store.RecordBuild(ctx, index.BuildRecord{
		Skill:      "django-tips",
		Output:     "/tmp/django-tips.skill",
		FileCount:  4,
		TotalBytes: 2048,
		SHA256:     "abc123",
	})
	if err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	if id == "" {
		t.Fatal("RecordBuild returned empty id")
	}

	if _, err := store.RecordBuild(ctx, index.BuildRecord{Skill: "other", Version: "2.0.0", SHA256: "def"}); err != nil {
		t.Fatalf("RecordBuild other: %v", err)
	}

	recs, err := store.ListBuilds(ctx, index.ListBuildsOpts{Skill: "django-tips"})
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("ListBuilds = %d records, want 1", len(recs))
	}
	if recs[0].Version != "0.0.0" {
		t.Errorf("Version = %q, want default 0.0.0", recs[0].Version)
	}
	if recs[0].FileCount != 4 || recs[0].TotalBytes != 2048 {
		t.Errorf("record = %+v", recs[0])
	}

	all, err := store.ListBuilds(ctx, index.ListBuildsOpts{})
	if err != nil {
		t.Fatalf("ListBuilds all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListBuilds all = %d records, want 2", len(all))
	}
}

func TestListBuildsNewestFirst(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	// All three rows land within the same second; insert order must still win.
	for _, sha := range []string{"first", "second", "third"} {
		if _, err := store.RecordBuild(ctx, index.BuildRecord{Skill: "tie-skill", SHA256: sha}); err != nil {
			t.Fatalf("RecordBuild %s: %v", sha, err)
		}
	}

	recs, err := store.ListBuilds(ctx, index.ListBuildsOpts{})
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("ListBuilds = %d records, want 3", len(recs))
	}
	if recs[0].SHA256 != "third" || recs[1].SHA256 != "second" || recs[2].SHA256 != "first" {
		t.Errorf("order = %s, %s, %s; want third, second, first", recs[0].SHA256, recs[1].SHA256, recs[2].SHA256)
	}
}
