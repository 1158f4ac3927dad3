package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Load reads a corpus from root: SKILL.md (required), its frontmatter, the
// optional skill.yaml, and the included file set. The returned file list is
// sorted and uses slash-separated paths relative to root.
func Load(root string) (*Corpus, error) {
	doc, err := os.ReadFile(filepath.Join(root, IndexDoc))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", IndexDoc, err)
	}

	manifest, body, err := ParseFrontmatter(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", IndexDoc, err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	files, err := enumerate(root, cfg)
	if err != nil {
		return nil, err
	}

	return &Corpus{
		Root:     root,
		Manifest: manifest,
		Body:     body,
		Config:   cfg,
		Files:    files,
	}, nil
}

// enumerate expands the include globs against root, drops excluded matches,
// and returns the deduplicated sorted result.
func enumerate(root string, cfg BuildConfig) ([]string, error) {
	seen := map[string]bool{}

	for _, pattern := range cfg.IncludePatterns() {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}
			if info.IsDir() {
				continue
			}
			rel, err := filepath.Rel(root, m)
			if err != nil {
				return nil, fmt.Errorf("relativize %s: %w", m, err)
			}
			seen[filepath.ToSlash(rel)] = true
		}
	}

	for _, pattern := range cfg.Exclude {
		for f := range seen {
			ok, err := filepath.Match(pattern, f)
			if err != nil {
				return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
			}
			if ok {
				delete(seen, f)
			}
		}
	}

	// SKILL.md is always part of the corpus regardless of include patterns.
	seen[IndexDoc] = true

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}
