// Package registry publishes built .skill bundles to an S3-compatible
// object store. The registry is deliberately dumb storage: the object key
// layout and user metadata are the whole contract.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PutOptions define optional parameters for uploading objects.
type PutOptions struct {
	Size        int64 // exact byte count, or -1 to let the backend chunk
	ContentType string
	Metadata    map[string]string
}

// Storage is an S3-compatible object storage client. Methods use context and
// streaming readers; no local disk is involved.
type Storage interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) error
	// PresignGet returns a time-limited URL for downloading the object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config holds the connection settings for the object store, read from
// SKILLPACK_S3_* environment variables.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ConfigFromEnv builds a Config from the environment.
func ConfigFromEnv() Config {
	useSSL, _ := strconv.ParseBool(os.Getenv("SKILLPACK_S3_USE_SSL"))
	return Config{
		Endpoint:  os.Getenv("SKILLPACK_S3_ENDPOINT"),
		AccessKey: os.Getenv("SKILLPACK_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("SKILLPACK_S3_SECRET_KEY"),
		Bucket:    os.Getenv("SKILLPACK_S3_BUCKET"),
		UseSSL:    useSSL,
	}
}

// minioStorage implements Storage using an S3-compatible backend
// (MinIO, AWS S3, etc.). It is safe for concurrent use.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible storage client. It validates
// connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg Config) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("SKILLPACK_S3_ENDPOINT is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("SKILLPACK_S3_ACCESS_KEY and SKILLPACK_S3_SECRET_KEY are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("SKILLPACK_S3_BUCKET is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioStorage{client: cli, bucket: cfg.Bucket}, nil
}

// Put uploads an object using streaming I/O only.
func (m *minioStorage) Put(ctx context.Context, key string, r io.Reader, opt PutOptions) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// PresignGet generates a pre-signed GET URL with the specified expiry.
func (m *minioStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
