package registry

import (
	"context"
	"fmt"
	"os"

	"skillpack/pkg/bundle"
)

// Publication describes an uploaded bundle.
type Publication struct {
	Key     string
	Skill   string
	Version string
	SHA256  string
	Bytes   int64
}

// Publish inspects a built .skill file and uploads it under the key
// <name>/<version>/<name>.skill. The version falls back to the manifest
// version, then to 0.0.0. User metadata carries the skill name, version,
// and archive digest so consumers can verify a download without opening it.
func Publish(ctx context.Context, st Storage, bundlePath, version string) (*Publication, error) {
	sum, err := bundle.Inspect(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("refusing to publish: %w", err)
	}

	if version == "" {
		version = sum.Manifest.Version
	}
	if version == "" {
		version = "0.0.0"
	}

	f, err := os.Open(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bundle: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.skill", sum.Name, version, sum.Name)
	err = st.Put(ctx, key, f, PutOptions{
		Size:        info.Size(),
		ContentType: "application/zip",
		Metadata: map[string]string{
			"skill-name":    sum.Name,
			"skill-version": version,
			"skill-sha256":  sum.SHA256,
		},
	})
	if err != nil {
		return nil, err
	}

	return &Publication{
		Key:     key,
		Skill:   sum.Name,
		Version: version,
		SHA256:  sum.SHA256,
		Bytes:   info.Size(),
	}, nil
}
