package bundle

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"skillpack/pkg/skill"
)

// Entry describes one file inside a bundle.
type Entry struct {
	Path     string    // path inside the archive, including the <name>/ prefix
	Size     int64     // uncompressed size
	Modified time.Time
}

// Summary is the result of inspecting a bundle.
type Summary struct {
	Name       string
	Manifest   skill.Manifest
	Entries    []Entry
	TotalBytes int64 // sum of uncompressed entry sizes
	SHA256     string
}

// Inspect opens a .skill archive and verifies it follows the consumer
// convention: exactly one top-level directory whose name matches the
// SKILL.md frontmatter, with SKILL.md directly inside it. Entries with
// absolute paths or parent traversal are rejected outright.
func Inspect(bundlePath string) (*Summary, error) {
	digest, err := fileSHA256(bundlePath)
	if err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("open bundle %s: %w", bundlePath, err)
	}
	defer zr.Close()

	s := &Summary{SHA256: digest}
	topLevel := map[string]bool{}

	for _, f := range zr.File {
		if err := checkEntryPath(f.Name); err != nil {
			return nil, err
		}
		top, _, _ := strings.Cut(f.Name, "/")
		topLevel[top] = true

		if f.FileInfo().IsDir() {
			continue
		}

		s.Entries = append(s.Entries, Entry{
			Path:     f.Name,
			Size:     int64(f.UncompressedSize64), //nolint:gosec // zip sizes fit int64
			Modified: f.Modified,
		})
		s.TotalBytes += int64(f.UncompressedSize64) //nolint:gosec // zip sizes fit int64
	}

	if len(topLevel) != 1 {
		return nil, fmt.Errorf("bundle must have exactly one top-level directory, found %d", len(topLevel))
	}
	for top := range topLevel {
		s.Name = top
	}

	manifest, err := readManifest(&zr.Reader, s.Name)
	if err != nil {
		return nil, err
	}
	s.Manifest = manifest

	if manifest.Name != s.Name {
		return nil, fmt.Errorf("top-level directory %q does not match manifest name %q", s.Name, manifest.Name)
	}
	return s, nil
}

// checkEntryPath rejects archive paths that could escape an extraction root.
func checkEntryPath(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return fmt.Errorf("entry %q: absolute paths not allowed", name)
	}
	if strings.Contains(name, `\`) {
		return fmt.Errorf("entry %q: backslash separators not allowed", name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return fmt.Errorf("entry %q: parent traversal not allowed", name)
		}
	}
	if !strings.Contains(name, "/") {
		return fmt.Errorf("entry %q: files must live under the skill directory", name)
	}
	return nil
}

// readManifest parses the frontmatter of <name>/SKILL.md inside the archive.
func readManifest(zr *zip.Reader, name string) (skill.Manifest, error) {
	want := name + "/" + skill.IndexDoc
	for _, f := range zr.File {
		if f.Name != want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return skill.Manifest{}, fmt.Errorf("open %s: %w", want, err)
		}
		defer rc.Close()

		doc, err := io.ReadAll(rc)
		if err != nil {
			return skill.Manifest{}, fmt.Errorf("read %s: %w", want, err)
		}
		m, _, err := skill.ParseFrontmatter(doc)
		if err != nil {
			return skill.Manifest{}, fmt.Errorf("%s: %w", want, err)
		}
		return m, nil
	}
	return skill.Manifest{}, fmt.Errorf("bundle has no %s", want)
}

// fileSHA256 returns the hex digest of the file at path.
func fileSHA256(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", p, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
