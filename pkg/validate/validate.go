// Package validate checks a skill corpus against the constraints its
// consumer enforces at upload time, plus editorial hygiene rules (broken
// links, unlisted references, malformed template assets). Findings never
// modify the corpus; callers decide whether errors block a build.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"skillpack/pkg/skill"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single validation result.
type Finding struct {
	Rule     string   // e.g. "link/broken"
	Severity Severity
	Path     string // corpus-relative file the finding refers to
	Message  string
}

// Report collects findings for one corpus.
type Report struct {
	Findings []Finding
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (r *Report) Counts() (errors, warnings int) {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

func (r *Report) add(rule string, sev Severity, path, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Rule:     rule,
		Severity: sev,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// allowedAssetExts is the extension allowlist for files under assets/.
var allowedAssetExts = map[string]bool{
	".py":   true,
	".toml": true,
	".ini":  true,
	".cfg":  true,
	".yaml": true,
	".yml":  true,
	".json": true,
	".md":   true,
	".txt":  true,
}

// Validate runs every rule against the corpus and returns the report,
// findings sorted by path then rule. An I/O failure while reading a listed
// file surfaces as an error finding rather than aborting the run.
func Validate(c *skill.Corpus) *Report {
	r := &Report{}

	checkManifest(r, c.Manifest)
	checkFiles(r, c)
	checkReferences(r, c)
	checkLinks(r, c)

	sort.Slice(r.Findings, func(i, j int) bool {
		if r.Findings[i].Path != r.Findings[j].Path {
			return r.Findings[i].Path < r.Findings[j].Path
		}
		return r.Findings[i].Rule < r.Findings[j].Rule
	})
	return r
}

// checkManifest applies the consumer's frontmatter constraints.
func checkManifest(r *Report, m skill.Manifest) {
	if err := skill.CheckName(m.Name); err != nil {
		r.add("manifest/name", SeverityError, skill.IndexDoc, "%v", err)
	}
	switch n := utf8.RuneCountInString(m.Description); {
	case m.Description == "":
		r.add("manifest/description", SeverityError, skill.IndexDoc, "description is required")
	case n > skill.MaxDescriptionLen:
		r.add("manifest/description", SeverityError, skill.IndexDoc,
			"description exceeds %d characters (%d)", skill.MaxDescriptionLen, n)
	}
	if m.Version == "" {
		r.add("manifest/version", SeverityWarning, skill.IndexDoc, "no version set; bundles default to 0.0.0")
	}
}

// checkFiles applies size, count, encoding, and asset-type rules to every
// included file.
func checkFiles(r *Report, c *skill.Corpus) {
	if len(c.Files) > skill.MaxFileCount {
		r.add("corpus/too-many-files", SeverityError, "",
			"corpus has %d files, limit is %d", len(c.Files), skill.MaxFileCount)
	}

	var total int64
	for _, rel := range c.Files {
		abs := filepath.Join(c.Root, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			r.add("file/unreadable", SeverityError, rel, "%v", err)
			continue
		}
		total += info.Size()
		if info.Size() > skill.MaxFileBytes {
			r.add("file/too-large", SeverityError, rel,
				"file is %d bytes, limit is %d", info.Size(), skill.MaxFileBytes)
		}

		ext := strings.ToLower(filepath.Ext(rel))
		if strings.HasPrefix(rel, "assets/") && !allowedAssetExts[ext] {
			r.add("asset/unknown-type", SeverityWarning, rel, "extension %q is not in the asset allowlist", ext)
		}

		if strings.HasSuffix(rel, ".md") {
			b, err := os.ReadFile(abs)
			if err != nil {
				r.add("file/unreadable", SeverityError, rel, "%v", err)
				continue
			}
			if !utf8.Valid(b) {
				r.add("doc/not-utf8", SeverityError, rel, "document is not valid UTF-8")
			}
		}

		checkTemplateSyntax(r, abs, rel, ext)
	}

	if total > skill.MaxBundleBytes {
		r.add("corpus/too-large", SeverityError, "",
			"corpus is %d bytes uncompressed, limit is %d", total, skill.MaxBundleBytes)
	}
}

// checkReferences flags empty reference docs and references/*.md files that
// SKILL.md never mentions. The index document is the table of contents; a
// sub-document it does not link is invisible to readers.
func checkReferences(r *Report, c *skill.Corpus) {
	body := string(c.Body)

	for _, rel := range c.Files {
		if !strings.HasPrefix(rel, "references/") || !strings.HasSuffix(rel, ".md") {
			continue
		}

		info, err := os.Stat(filepath.Join(c.Root, filepath.FromSlash(rel)))
		if err == nil && info.Size() == 0 {
			r.add("reference/empty", SeverityWarning, rel, "reference document is empty")
		}

		if !strings.Contains(body, rel) && !strings.Contains(body, filepath.Base(rel)) {
			r.add("reference/unlisted", SeverityWarning, rel, "not mentioned anywhere in %s", skill.IndexDoc)
		}
	}
}
