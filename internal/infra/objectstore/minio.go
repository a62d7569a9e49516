package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config locates an S3-compatible bucket (R2, MinIO, S3).
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// MinioStore uploads snapshots to an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	bucketOnce sync.Once
	bucketErr  error
}

// NewMinioStore constructs the storage adapter.
func NewMinioStore(cfg Config, logger *slog.Logger) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}
	client, err := minio.New(hostOnly(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "https"),
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger.With("component", "objectstore.minio")}, nil
}

// Put uploads data under key. The bucket is created on first use.
func (s *MinioStore) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	s.bucketOnce.Do(func() { s.bucketErr = s.ensureBucket(ctx) })
	if s.bucketErr != nil {
		return "", fmt.Errorf("ensure bucket %s: %w", s.bucket, s.bucketErr)
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		DisableMultipart: true,
	})
	if err != nil {
		return "", err
	}
	s.logger.Debug("snapshot uploaded", "key", info.Key, "size", info.Size)
	return info.Key, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// hostOnly strips scheme and path, which minio.New rejects.
func hostOnly(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	host, _, _ := strings.Cut(raw, "/")
	return host
}
