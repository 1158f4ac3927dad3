package index

// SchemaDDL defines the SQLite schema for the skillpack index database.
// Tables: documents, documents_fts (FTS5), builds.
// Execute against a SQLite database with: db.Exec(SchemaDDL)
const SchemaDDL = `
-- Indexed corpus documents (SKILL.md and references)
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    skill TEXT NOT NULL,
    path TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    indexed_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(skill, path)
);

-- FTS5 full-text index over documents for BM25-ranked search
CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    title,
    content,
    content=documents,
    content_rowid=id
);

-- Triggers to keep FTS index in sync with documents table
CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
    INSERT INTO documents_fts(rowid, title, content) VALUES (new.id, new.title, new.content);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
    INSERT INTO documents_fts(rowid, title, content) VALUES (new.id, new.title, new.content);
END;

-- Build history: one row per successful bundle build
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    skill TEXT NOT NULL,
    version TEXT NOT NULL,
    output TEXT NOT NULL,
    file_count INTEGER NOT NULL,
    total_bytes INTEGER NOT NULL,
    sha256 TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
