// Package bundle packages a skill corpus into a .skill archive (a zip with
// every entry under a single <name>/ directory) and reads such archives back.
package bundle

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"skillpack/pkg/skill"
)

// Options configures a build.
type Options struct {
	// Output is the destination path. Empty means <name>.skill in the
	// corpus root, or inside Corpus.Config.Output when that names a directory.
	Output string

	// Progress, when non-nil, receives one line per added entry and a
	// final size line.
	Progress io.Writer
}

// Result describes a completed build.
type Result struct {
	Path       string
	SHA256     string
	FileCount  int
	TotalBytes int64 // archive size on disk
}

// Build writes the corpus into a .skill zip archive. Entries are written in
// sorted path order, each prefixed with the skill name directory. Every
// listed file must exist and be readable; the first failure aborts the build
// and, because the archive is staged through a pending temp file, no partial
// output is left behind.
func Build(c *skill.Corpus, opts Options) (*Result, error) {
	if err := skill.CheckName(c.Manifest.Name); err != nil {
		return nil, fmt.Errorf("cannot build: %w", err)
	}
	if len(c.Files) > skill.MaxFileCount {
		return nil, fmt.Errorf("corpus has %d files, limit is %d", len(c.Files), skill.MaxFileCount)
	}

	out, err := resolveOutput(c, opts.Output)
	if err != nil {
		return nil, err
	}

	pending, err := renameio.NewPendingFile(out)
	if err != nil {
		return nil, fmt.Errorf("create pending bundle: %w", err)
	}
	defer pending.Cleanup() //nolint:errcheck // no-op after successful replace

	digest := sha256.New()
	size := &countingWriter{}
	zw := zip.NewWriter(io.MultiWriter(pending, digest, size))

	for _, rel := range c.Files {
		if err := addEntry(zw, c, rel, opts.Progress); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	// The limit check must happen while the archive is still a pending
	// file, so an over-limit build discards it instead of installing it.
	if size.n > skill.MaxBundleBytes {
		return nil, fmt.Errorf("bundle is %d bytes, limit is %d", size.n, skill.MaxBundleBytes)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("replace %s: %w", out, err)
	}

	res := &Result{
		Path:       out,
		SHA256:     hex.EncodeToString(digest.Sum(nil)),
		FileCount:  len(c.Files),
		TotalBytes: size.n,
	}
	if opts.Progress != nil {
		fmt.Fprintf(opts.Progress, "wrote %s (%.1f KB, %d files)\n", out, float64(res.TotalBytes)/1024, res.FileCount)
	}
	return res, nil
}

// countingWriter tracks how many archive bytes have been written.
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// addEntry copies one corpus file into the archive under <name>/<rel>,
// keeping the source modification time.
func addEntry(zw *zip.Writer, c *skill.Corpus, rel string, progress io.Writer) error {
	src := filepath.Join(c.Root, filepath.FromSlash(rel))

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("missing file %s: %w", rel, err)
	}
	if info.Size() > skill.MaxFileBytes {
		return fmt.Errorf("file %s is %d bytes, limit is %d", rel, info.Size(), skill.MaxFileBytes)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("header for %s: %w", rel, err)
	}
	hdr.Name = c.Manifest.Name + "/" + rel
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", hdr.Name, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unreadable file %s: %w", rel, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy %s: %w", rel, err)
	}

	if progress != nil {
		fmt.Fprintf(progress, "  added %s\n", rel)
	}
	return nil
}

// resolveOutput picks the bundle destination: explicit option, skill.yaml
// output (file or directory), or <name>.skill in the corpus root.
func resolveOutput(c *skill.Corpus, explicit string) (string, error) {
	defaultName := c.Manifest.Name + ".skill"

	out := explicit
	if out == "" {
		out = c.Config.Output
	}
	switch {
	case out == "":
		return filepath.Join(c.Root, defaultName), nil
	case isDir(out) || strings.HasSuffix(out, "/"):
		if err := os.MkdirAll(out, 0o755); err != nil {
			return "", fmt.Errorf("create output dir %s: %w", out, err)
		}
		return filepath.Join(out, defaultName), nil
	default:
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create output dir %s: %w", dir, err)
			}
		}
		return out, nil
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
