// Package skill models a skill corpus: a directory tree holding a SKILL.md
// index document with YAML frontmatter, reference sub-documents under
// references/, and illustrative asset files under assets/. The tree is the
// unit that gets validated, indexed, and packaged into a .skill bundle.
package skill

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Consumer limits for uploaded skill bundles. The upload feature does not
// publish hard numbers, so these are conservative.
const (
	MaxNameLen        = 64
	MaxDescriptionLen = 1024
	MaxFileBytes      = 10 << 20 // per-file limit
	MaxBundleBytes    = 30 << 20 // whole-archive limit
	MaxFileCount      = 200
)

// Well-known file names inside a corpus.
const (
	IndexDoc   = "SKILL.md"
	ConfigFile = "skill.yaml"
)

// namePattern matches valid skill names: lowercase alphanumeric runs
// separated by single hyphens.
var namePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Manifest is the YAML frontmatter at the top of SKILL.md.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version,omitempty"`
	License     string `yaml:"license,omitempty"`
}

// CheckName verifies that name satisfies the consumer's naming rules.
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLen {
		return fmt.Errorf("name exceeds %d characters (%d)", MaxNameLen, n)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("name %q must be lowercase letters, digits, and single hyphens", name)
	}
	return nil
}

// Corpus is a loaded skill tree: its manifest, the SKILL.md body (frontmatter
// stripped), and the slash-separated relative paths of every file the build
// configuration includes, sorted.
type Corpus struct {
	Root     string
	Manifest Manifest
	Body     []byte
	Config   BuildConfig
	Files    []string
}

// Documents returns the markdown documents of the corpus (SKILL.md plus
// every included references/*.md), in sorted file order.
func (c *Corpus) Documents() []string {
	docs := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		if f == IndexDoc || (strings.HasPrefix(f, "references/") && strings.HasSuffix(f, ".md")) {
			docs = append(docs, f)
		}
	}
	return docs
}
