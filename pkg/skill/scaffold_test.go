package skill_test

import (
	"os"
	"path/filepath"
	"testing"

	"skillpack/pkg/skill"
)

func TestScaffold(t *testing.T) {
	root := filepath.Join(t.TempDir(), "new-skill")

	if err := skill.Scaffold(root, "new-skill", "A fresh skill.", false); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	// The scaffolded tree must load cleanly.
	c, err := skill.Load(root)
	if err != nil {
		t.Fatalf("Load scaffolded corpus: %v", err)
	}
	if c.Manifest.Name != "new-skill" {
		t.Errorf("Manifest.Name = %q", c.Manifest.Name)
	}
	if c.Manifest.Description != "A fresh skill." {
		t.Errorf("Manifest.Description = %q", c.Manifest.Description)
	}

	for _, rel := range []string{"SKILL.md", "skill.yaml", ".gitignore", "references/example.md"} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("scaffold missing %s: %v", rel, err)
		}
	}
}

func TestScaffoldRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	if err := skill.Scaffold(root, "first", "First.", false); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	if err := skill.Scaffold(root, "second", "Second.", false); err == nil {
		t.Fatal("expected error when SKILL.md exists and force is false")
	}

	if err := skill.Scaffold(root, "second", "Second.", true); err != nil {
		t.Fatalf("Scaffold with force: %v", err)
	}
}

func TestScaffoldRejectsBadName(t *testing.T) {
	if err := skill.Scaffold(t.TempDir(), "Bad Name", "desc", false); err == nil {
		t.Fatal("expected error for invalid name")
	}
	if err := skill.Scaffold(t.TempDir(), "ok-name", "", false); err == nil {
		t.Fatal("expected error for empty description")
	}
}
