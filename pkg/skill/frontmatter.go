package skill

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// fence delimits the YAML frontmatter block at the top of SKILL.md.
var fence = []byte("---")

// ParseFrontmatter splits a SKILL.md document into its YAML frontmatter and
// markdown body. The document must begin with a `---` line and contain a
// matching closing fence; anything else is an error, because a bundle without
// a parseable manifest is rejected by the consumer at upload time.
func ParseFrontmatter(doc []byte) (Manifest, []byte, error) {
	rest, ok := cutFenceLine(doc)
	if !ok {
		return Manifest{}, nil, fmt.Errorf("missing frontmatter: %s must start with %q", IndexDoc, fence)
	}

	idx := findClosingFence(rest)
	if idx < 0 {
		return Manifest{}, nil, fmt.Errorf("unterminated frontmatter: no closing %q fence", fence)
	}

	var m Manifest
	if err := yaml.Unmarshal(rest[:idx], &m); err != nil {
		return Manifest{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	body := rest[idx:]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	return m, bytes.TrimLeft(body, "\n"), nil
}

// cutFenceLine strips a leading fence line, tolerating a UTF-8 BOM and
// trailing spaces or a carriage return on the fence line.
func cutFenceLine(doc []byte) ([]byte, bool) {
	doc = bytes.TrimPrefix(doc, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(doc, fence) {
		return nil, false
	}
	rest := doc[len(fence):]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		return nil, false
	}
	if line := bytes.TrimRight(rest[:i], " \r"); len(line) != 0 {
		return nil, false
	}
	return rest[i+1:], true
}

// findClosingFence returns the byte offset of the closing fence line in rest,
// or -1 if none exists.
func findClosingFence(rest []byte) int {
	offset := 0
	for _, line := range bytes.SplitAfter(rest, []byte("\n")) {
		trimmed := bytes.TrimRight(line, " \r\n")
		if bytes.Equal(trimmed, fence) {
			return offset
		}
		offset += len(line)
	}
	return -1
}
