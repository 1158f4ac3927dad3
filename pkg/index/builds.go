package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BuildRecord is one row of build history.
type BuildRecord struct {
	ID         string
	Skill      string
	Version    string
	Output     string
	FileCount  int
	TotalBytes int64
	SHA256     string
	CreatedAt  time.Time
}

// RecordBuild inserts a build-history row and returns its generated id.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Version == "" {
		rec.Version = "0.0.0"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, skill, version, output, file_count, total_bytes, sha256)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Skill, rec.Version, rec.Output, rec.FileCount, rec.TotalBytes, rec.SHA256,
	)
	if err != nil {
		return "", fmt.Errorf("record build: %w", err)
	}
	return rec.ID, nil
}

// ListBuildsOpts filters the build history.
type ListBuildsOpts struct {
	Skill string
	Limit int // default 20
}

// ListBuilds returns recent builds, newest first.
func (s *Store) ListBuilds(ctx context.Context, opts ListBuildsOpts) ([]BuildRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	q := `SELECT id, skill, version, output, file_count, total_bytes, sha256, created_at FROM builds`
	var args []any
	if opts.Skill != "" {
		q += ` WHERE skill = ?`
		args = append(args, opts.Skill)
	}
	// created_at has second resolution; rowid breaks ties in insert order.
	q += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var recs []BuildRecord
	for rows.Next() {
		var r BuildRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Skill, &r.Version, &r.Output, &r.FileCount, &r.TotalBytes, &r.SHA256, &createdAt); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			r.CreatedAt = t
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return recs, nil
}
