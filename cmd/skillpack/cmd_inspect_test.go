package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildTestBundle builds the test corpus and returns the bundle path.
func buildTestBundle(t *testing.T) string {
	t.Helper()

	t.Setenv("SKILLPACK_HOME", t.TempDir())
	root := writeTestCorpus(t)
	if _, err := executeCmd(t, "build", root); err != nil {
		t.Fatalf("build: %v", err)
	}
	return filepath.Join(root, "cli-skill.skill")
}

func TestInspectCmd(t *testing.T) {
	path := buildTestBundle(t)

	out, err := executeCmd(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"cli-skill", "SHA256:", "cli-skill/SKILL.md"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestInspectCmdJSON(t *testing.T) {
	path := buildTestBundle(t)

	out, err := executeCmd(t, "inspect", path, "--json")
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}

	var sum struct {
		Name    string
		Entries []struct{ Path string }
	}
	if err := json.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if sum.Name != "cli-skill" || len(sum.Entries) != 3 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestUnpackCmd(t *testing.T) {
	path := buildTestBundle(t)
	dest := t.TempDir()

	if _, err := executeCmd(t, "unpack", path, "-d", dest); err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "cli-skill", "SKILL.md")); err != nil {
		t.Errorf("unpacked SKILL.md missing: %v", err)
	}
}
