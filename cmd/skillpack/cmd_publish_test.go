package main

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"skillpack/pkg/registry"
)

// memStorage is an in-memory registry.Storage for CLI tests.
type memStorage struct {
	keys []string
}

func (m *memStorage) Put(_ context.Context, key string, r io.Reader, _ registry.PutOptions) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	m.keys = append(m.keys, key)
	return nil
}

func (m *memStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://registry.example/" + key, nil
}

func TestRunPublish(t *testing.T) {
	path := buildTestBundle(t)
	st := &memStorage{}

	var out strings.Builder
	if err := runPublish(context.Background(), &out, st, path, "", 0); err != nil {
		t.Fatalf("runPublish: %v", err)
	}

	if len(st.keys) != 1 || st.keys[0] != "cli-skill/1.0.0/cli-skill.skill" {
		t.Errorf("keys = %v", st.keys)
	}
	if !strings.Contains(out.String(), "Published cli-skill 1.0.0") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunPublishShare(t *testing.T) {
	path := buildTestBundle(t)
	st := &memStorage{}

	var out strings.Builder
	if err := runPublish(context.Background(), &out, st, path, "2.0.0", time.Hour); err != nil {
		t.Fatalf("runPublish: %v", err)
	}

	if !strings.Contains(out.String(), "https://registry.example/cli-skill/2.0.0/cli-skill.skill") {
		t.Errorf("output missing share URL: %q", out.String())
	}
}

func TestPublishCmdRequiresConfig(t *testing.T) {
	for _, key := range []string{"SKILLPACK_S3_ENDPOINT", "SKILLPACK_S3_ACCESS_KEY", "SKILLPACK_S3_SECRET_KEY", "SKILLPACK_S3_BUCKET"} {
		t.Setenv(key, "")
	}
	path := buildTestBundle(t)

	if _, err := executeCmd(t, "publish", path); err == nil {
		t.Fatal("expected error without SKILLPACK_S3_* configuration")
	}
}
