// Package storage keeps uploaded assets in an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sangkips/quotation-engine/internal/config"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/pkg/utils"
)

// ErrNotConfigured is returned when no object store is set up.
var ErrNotConfigured = errors.New("file storage is not configured")

const objectPrefix = "assets/"

// MinioStorage implements repository.FileStorage on minio.
type MinioStorage struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
	logger        *slog.Logger
}

// NewMinioStorage connects to the object store and makes sure the bucket exists.
func NewMinioStorage(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*MinioStorage, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio at %s: %w", endpoint, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("bucket created", "bucket", cfg.Bucket)
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &MinioStorage{client: client, bucket: cfg.Bucket, presignExpiry: expiry, logger: logger}, nil
}

// Upload stores data under a fresh object name and returns a presigned URL.
func (s *MinioStorage) Upload(ctx context.Context, name, contentType string, data []byte) (repository.StoredFile, error) {
	object := ObjectName(name)
	_, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return repository.StoredFile{}, fmt.Errorf("failed to upload %s to bucket %s: %w", object, s.bucket, err)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, object, s.presignExpiry, nil)
	if err != nil {
		return repository.StoredFile{}, fmt.Errorf("failed to presign %s: %w", object, err)
	}
	s.logger.Info("asset uploaded", "object", object, "bytes", len(data))
	return repository.StoredFile{ID: object, URL: u.String()}, nil
}

// Fetch reads an object by name.
func (s *MinioStorage) Fetch(ctx context.Context, ref string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from bucket %s: %w", ref, s.bucket, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}
	return data, nil
}

// ObjectName returns a unique object name that keeps the extension of name.
func ObjectName(name string) string {
	ext := strings.ToLower(path.Ext(utils.SanitizeFilename(name)))
	return objectPrefix + uuid.NewString() + ext
}

// Unavailable is the FileStorage used when no object store is configured.
type Unavailable struct{}

func (Unavailable) Upload(context.Context, string, string, []byte) (repository.StoredFile, error) {
	return repository.StoredFile{}, ErrNotConfigured
}

func (Unavailable) Fetch(context.Context, string) ([]byte, error) {
	return nil, ErrNotConfigured
}
