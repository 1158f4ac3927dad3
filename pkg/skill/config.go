package skill

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultInclude is the file set a bundle carries when skill.yaml does not
// override it. The first four patterns mirror the packaging convention the
// corpus format started with; the remaining asset extensions round out the
// template types the validator understands.
var DefaultInclude = []string{
	"SKILL.md",
	"references/*.md",
	"assets/*.py",
	"assets/*.toml",
	"assets/*.ini",
	"assets/*.yaml",
	"assets/*.yml",
	"assets/*.cfg",
	"assets/*.json",
	"assets/*.md",
	"assets/*.txt",
}

// BuildConfig is the optional skill.yaml at the corpus root.
type BuildConfig struct {
	// Output is the bundle destination: a file path, or a directory the
	// default <name>.skill file is written into. Empty means the corpus root.
	Output string `yaml:"output,omitempty"`

	// Include lists glob patterns relative to the corpus root. Empty means
	// DefaultInclude.
	Include []string `yaml:"include,omitempty"`

	// Exclude lists glob patterns removed from the include set.
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoadConfig reads skill.yaml from root. A missing file yields the zero
// config and no error; a present but malformed file is an error.
func LoadConfig(root string) (BuildConfig, error) {
	var cfg BuildConfig

	b, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	return cfg, nil
}

// IncludePatterns returns the effective include list.
func (c BuildConfig) IncludePatterns() []string {
	if len(c.Include) > 0 {
		return c.Include
	}
	return DefaultInclude
}
