package validate

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"skillpack/pkg/skill"
)

// checkLinks walks the markdown AST of SKILL.md and every reference document
// and verifies that each relative link or image resolves to an existing file
// inside the corpus. External schemes and pure anchors are skipped.
func checkLinks(r *Report, c *skill.Corpus) {
	checkDocLinks(r, c, skill.IndexDoc, c.Body)

	for _, rel := range c.Documents() {
		if rel == skill.IndexDoc {
			continue
		}
		b, err := os.ReadFile(filepath.Join(c.Root, filepath.FromSlash(rel)))
		if err != nil {
			// Already reported by checkFiles.
			continue
		}
		checkDocLinks(r, c, rel, b)
	}
}

// checkDocLinks validates every link destination found in one document.
func checkDocLinks(r *Report, c *skill.Corpus, docRel string, src []byte) {
	for _, dest := range extractLinks(src) {
		if isExternal(dest) {
			continue
		}

		// Drop fragment and query parts; only the file path is checked.
		target := dest
		if i := strings.IndexAny(target, "#?"); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			continue // pure anchor
		}

		resolved := path.Join(path.Dir(docRel), target)
		if resolved == ".." || strings.HasPrefix(resolved, "../") || path.IsAbs(target) {
			r.add("link/escape", SeverityError, docRel, "link %q resolves outside the corpus", dest)
			continue
		}

		if _, err := os.Stat(filepath.Join(c.Root, filepath.FromSlash(resolved))); err != nil {
			r.add("link/broken", SeverityError, docRel, "link %q: target %s does not exist", dest, resolved)
		}
	}
}

// extractLinks parses src as markdown and returns every link and image
// destination in document order.
func extractLinks(src []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var dests []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			dests = append(dests, string(v.Destination))
		case *ast.Image:
			dests = append(dests, string(v.Destination))
		}
		return ast.WalkContinue, nil
	})
	return dests
}

// isExternal reports whether dest points outside the corpus by scheme.
func isExternal(dest string) bool {
	lower := strings.ToLower(dest)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "mailto:")
}
