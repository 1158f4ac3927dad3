package bundle_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"skillpack/pkg/bundle"
	"skillpack/pkg/skill"
)

const testSkillMD = `---
name: test-skill
description: A test skill.
---

# Test Skill
`

// setupCorpus writes a small corpus and loads it.
func setupCorpus(t *testing.T) *skill.Corpus {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"SKILL.md":              testSkillMD,
		"references/setup.md":   "# Setup\n",
		"references/deploy.md":  "# Deploy\n",
		"assets/settings.py":    "DEBUG = False\n",
		"assets/pyproject.toml": "[tool.ruff]\nline-length = 100\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}

	c, err := skill.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestBuildRoundTrip(t *testing.T) {
	c := setupCorpus(t)

	var progress strings.Builder
	res, err := bundle.Build(c, bundle.Options{Progress: &progress})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if res.Path != filepath.Join(c.Root, "test-skill.skill") {
		t.Errorf("Path = %q", res.Path)
	}
	if res.FileCount != 5 {
		t.Errorf("FileCount = %d, want 5", res.FileCount)
	}
	if !strings.Contains(progress.String(), "added SKILL.md") {
		t.Errorf("progress missing SKILL.md line: %s", progress.String())
	}

	sum, err := bundle.Inspect(res.Path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if sum.Name != "test-skill" {
		t.Errorf("Name = %q", sum.Name)
	}
	if sum.Manifest.Description != "A test skill." {
		t.Errorf("Manifest.Description = %q", sum.Manifest.Description)
	}
	if sum.SHA256 != res.SHA256 {
		t.Errorf("Inspect SHA256 %q != Build SHA256 %q", sum.SHA256, res.SHA256)
	}

	var paths []string
	for _, e := range sum.Entries {
		paths = append(paths, e.Path)
	}
	want := []string{
		"test-skill/SKILL.md",
		"test-skill/assets/pyproject.toml",
		"test-skill/assets/settings.py",
		"test-skill/references/deploy.md",
		"test-skill/references/setup.md",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("entries = %v, want %v", paths, want)
	}
}

func TestBuildDeterministicOrder(t *testing.T) {
	c := setupCorpus(t)

	first, err := bundle.Build(c, bundle.Options{Output: filepath.Join(t.TempDir(), "a.skill")})
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	second, err := bundle.Build(c, bundle.Options{Output: filepath.Join(t.TempDir(), "b.skill")})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}

	if first.SHA256 != second.SHA256 {
		t.Errorf("rebuild of unchanged corpus changed digest: %s vs %s", first.SHA256, second.SHA256)
	}
}

func TestBuildMissingFileAborts(t *testing.T) {
	c := setupCorpus(t)
	if err := os.Remove(filepath.Join(c.Root, "assets", "settings.py")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.skill")
	_, err := bundle.Build(c, bundle.Options{Output: out})
	if err == nil {
		t.Fatal("expected error for missing listed file")
	}
	if !strings.Contains(err.Error(), "assets/settings.py") {
		t.Errorf("error should name the missing file: %v", err)
	}

	// A failed build must not leave a partial archive behind.
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("partial bundle left at %s", out)
	}
}

func TestBuildOverLimitLeavesNoOutput(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "SKILL.md"), []byte(testSkillMD), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Four 8 MiB incompressible assets stay under the per-file limit but
	// push the archive past the whole-bundle limit.
	data := incompressible(8 << 20)
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		if err := os.WriteFile(filepath.Join(root, "assets", name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	c, err := skill.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out := filepath.Join(t.TempDir(), "big.skill")
	_, err = bundle.Build(c, bundle.Options{Output: out})
	if err == nil {
		t.Fatal("expected error for over-limit bundle")
	}
	if !strings.Contains(err.Error(), "limit") {
		t.Errorf("error should name the limit: %v", err)
	}

	// The rejected archive must not be installed at the output path.
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("over-limit bundle left at %s", out)
	}
}

// incompressible returns n pseudo-random bytes that deflate cannot shrink.
func incompressible(n int) []byte {
	b := make([]byte, n)
	state := uint64(0x9e3779b97f4a7c15)
	for i := range b {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		b[i] = byte(state)
	}
	return b
}

func TestBuildRejectsBadName(t *testing.T) {
	c := setupCorpus(t)
	c.Manifest.Name = "Bad Name"

	if _, err := bundle.Build(c, bundle.Options{}); err == nil {
		t.Fatal("expected error for invalid manifest name")
	}
}

func TestBuildOutputDirectory(t *testing.T) {
	c := setupCorpus(t)
	dir := t.TempDir()

	res, err := bundle.Build(c, bundle.Options{Output: dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Path != filepath.Join(dir, "test-skill.skill") {
		t.Errorf("Path = %q", res.Path)
	}
}

func TestInspectRejectsTraversal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.skill")
	writeZip(t, path, map[string]string{
		"demo/SKILL.md":  testSkillMD,
		"demo/../escape": "boom",
	})

	if _, err := bundle.Inspect(path); err == nil {
		t.Fatal("expected error for parent traversal entry")
	}
}

func TestInspectRejectsMultipleTopDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.skill")
	writeZip(t, path, map[string]string{
		"one/SKILL.md": testSkillMD,
		"two/file.md":  "x",
	})

	if _, err := bundle.Inspect(path); err == nil {
		t.Fatal("expected error for multiple top-level directories")
	}
}

func TestInspectRejectsNameMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mismatch.skill")
	writeZip(t, path, map[string]string{
		"other-name/SKILL.md": testSkillMD, // frontmatter says test-skill
	})

	if _, err := bundle.Inspect(path); err == nil {
		t.Fatal("expected error when top dir does not match manifest name")
	}
}

func TestUnpack(t *testing.T) {
	c := setupCorpus(t)
	res, err := bundle.Build(c, bundle.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dest := t.TempDir()
	if err := bundle.Unpack(res.Path, dest); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "test-skill", "SKILL.md"))
	if err != nil {
		t.Fatalf("read unpacked SKILL.md: %v", err)
	}
	if string(got) != testSkillMD {
		t.Errorf("unpacked SKILL.md differs from source")
	}
}

func TestUnpackRejectsEscape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.skill")
	writeZip(t, path, map[string]string{
		"demo/../../outside.txt": "boom",
	})

	dest := t.TempDir()
	if err := bundle.Unpack(path, dest); err == nil {
		t.Fatal("expected error for escaping entry")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "outside.txt")); !os.IsNotExist(err) {
		t.Error("escaping entry was written outside dest")
	}
}

func TestUnpackRejectsOversizedEntry(t *testing.T) {
	// A tiny archive whose single entry decompresses past the per-file
	// limit. Zeros deflate to almost nothing, so the zip itself is small.
	path := filepath.Join(t.TempDir(), "bomb.skill")
	writeZip(t, path, map[string]string{
		"demo/bomb.txt": strings.Repeat("0", skill.MaxFileBytes+1),
	})

	dest := t.TempDir()
	err := bundle.Unpack(path, dest)
	if err == nil {
		t.Fatal("expected error for entry exceeding the extraction limit")
	}
	if !strings.Contains(err.Error(), "extraction limit") {
		t.Errorf("error should name the extraction limit: %v", err)
	}
}

// writeZip creates a zip archive with the given entries, bypassing Build's
// path checks so tests can produce hostile archives.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}
