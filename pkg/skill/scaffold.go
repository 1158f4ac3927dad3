package skill

import (
	"fmt"
	"os"
	"path/filepath"
)

// skillTemplate is the starter SKILL.md written by Scaffold.
const skillTemplate = `---
name: %s
description: %s
version: 0.1.0
---

# %s

Describe when this skill applies and how the assistant should use it.

## References

- [Example reference](references/example.md)
`

const referenceTemplate = `# Example reference

Replace this with a focused sub-document. Link every reference from SKILL.md
so readers (and the validator) can find it.
`

const configTemplate = `# skill.yaml: optional build configuration.
# output: dist/
# include:
#   - SKILL.md
#   - references/*.md
#   - assets/*
# exclude:
#   - assets/*.draft.md
`

// Scaffold writes a skeleton corpus at root. It refuses to overwrite an
// existing SKILL.md unless force is set.
func Scaffold(root, name, description string, force bool) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if description == "" {
		return fmt.Errorf("description is required")
	}

	indexPath := filepath.Join(root, IndexDoc)
	if _, err := os.Stat(indexPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", indexPath)
	}

	for _, dir := range []string{root, filepath.Join(root, "references"), filepath.Join(root, "assets")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	writes := []struct {
		path    string
		content string
	}{
		{indexPath, fmt.Sprintf(skillTemplate, name, description, name)},
		{filepath.Join(root, "references", "example.md"), referenceTemplate},
		{filepath.Join(root, ConfigFile), configTemplate},
		{filepath.Join(root, ".gitignore"), "*.skill\n"},
	}
	for _, w := range writes {
		if err := os.WriteFile(w.path, []byte(w.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
	}

	return nil
}
