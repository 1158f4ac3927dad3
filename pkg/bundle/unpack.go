package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skillpack/pkg/skill"
)

// Unpack extracts a .skill archive into dest. Every entry path is validated
// and then resolved against dest; an entry that would land outside dest
// aborts the extraction.
func Unpack(bundlePath, dest string) error {
	zr, err := zip.OpenReader(bundlePath)
	if err != nil {
		return fmt.Errorf("open bundle %s: %w", bundlePath, err)
	}
	defer zr.Close()

	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolve dest %s: %w", dest, err)
	}

	var total int64
	for _, f := range zr.File {
		if err := checkEntryPath(f.Name); err != nil {
			return err
		}
		n, err := extractEntry(f, destAbs, skill.MaxBundleBytes-total)
		if err != nil {
			return err
		}
		total += n
	}
	return nil
}

// extractEntry writes one archive entry under destAbs with confinement and
// returns the number of bytes written. The budget is what remains of the
// whole-bundle limit; declared entry sizes are attacker-controlled and are
// never trusted, so the copy is capped at our own limits instead.
func extractEntry(f *zip.File, destAbs string, budget int64) (int64, error) {
	target := filepath.Join(destAbs, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(target, destAbs+string(filepath.Separator)) {
		return 0, fmt.Errorf("entry %q escapes destination", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return 0, fmt.Errorf("create dir %s: %w", target, err)
		}
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("create dir for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	limit := int64(skill.MaxFileBytes)
	if budget < limit {
		limit = budget
	}
	n, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		return n, fmt.Errorf("extract %s: %w", f.Name, err)
	}
	if n > limit {
		return n, fmt.Errorf("entry %s decompresses past the %d byte extraction limit", f.Name, limit)
	}
	return n, nil
}
