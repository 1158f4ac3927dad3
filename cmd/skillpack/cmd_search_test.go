package main

import (
	"strings"
	"testing"
)

func TestIndexAndSearchCmds(t *testing.T) {
	t.Setenv("SKILLPACK_HOME", t.TempDir())
	root := writeTestCorpus(t)

	out, err := executeCmd(t, "index", root)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if !strings.Contains(out, "Indexed 2 document(s)") {
		t.Errorf("index output = %q", out)
	}

	out, err = executeCmd(t, "search", "migrations")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "references/setup.md") {
		t.Errorf("search output = %q", out)
	}
	if !strings.Contains(out, ">>") {
		t.Errorf("search output missing snippet markers: %q", out)
	}
}

func TestSearchCmdNoResults(t *testing.T) {
	t.Setenv("SKILLPACK_HOME", t.TempDir())

	out, err := executeCmd(t, "search", "zzzznothing")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "No documents found.") {
		t.Errorf("output = %q", out)
	}
}

func TestSearchCmdSkillFilter(t *testing.T) {
	t.Setenv("SKILLPACK_HOME", t.TempDir())
	root := writeTestCorpus(t)

	if _, err := executeCmd(t, "index", root); err != nil {
		t.Fatalf("index: %v", err)
	}

	out, err := executeCmd(t, "search", "migrations", "--skill", "some-other-skill")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "No documents found.") {
		t.Errorf("filtered search should be empty: %q", out)
	}
}

func TestBuildsCmdEmpty(t *testing.T) {
	t.Setenv("SKILLPACK_HOME", t.TempDir())

	out, err := executeCmd(t, "builds")
	if err != nil {
		t.Fatalf("builds: %v", err)
	}
	if !strings.Contains(out, "No builds recorded.") {
		t.Errorf("output = %q", out)
	}
}
