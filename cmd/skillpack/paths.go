package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds all resolved skillpack state file paths.
// Use ResolvePaths() to populate this struct with defaults + env overrides.
type Paths struct {
	Home        string // ~/.skillpack or SKILLPACK_HOME
	IndexDBPath string // index.db or SKILLPACK_DB_PATH
}

// ResolvePaths returns all skillpack paths, respecting env var overrides.
// Environment variables:
//   - SKILLPACK_HOME: base directory for all skillpack state (default: ~/.skillpack)
//   - SKILLPACK_DB_PATH: index database (default: $SKILLPACK_HOME/index.db)
func ResolvePaths() (*Paths, error) {
	home, err := resolveHome()
	if err != nil {
		return nil, err
	}

	return &Paths{
		Home:        home,
		IndexDBPath: resolvePathWithEnv("SKILLPACK_DB_PATH", home, "index.db"),
	}, nil
}

// resolveHome returns the skillpack home directory from SKILLPACK_HOME or ~/.skillpack.
func resolveHome() (string, error) {
	if v := os.Getenv("SKILLPACK_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".skillpack"), nil
}

// resolvePathWithEnv returns the path from envKey if set, otherwise joins base + suffix.
func resolvePathWithEnv(envKey, base, suffix string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return filepath.Join(base, suffix)
}
