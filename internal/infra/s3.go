package infra

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Vovarama1992/tanky/internal/ports"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Insecure  bool
}

type s3Client struct {
	client *minio.Client
	bucket string
	host   string
}

func NewS3Client(ctx context.Context, cfg S3Config) (ports.S3Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	// проверим, что бакет существует
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	scheme := "https"
	if cfg.Insecure {
		scheme = "http"
	}

	return &s3Client{
		client: client,
		bucket: cfg.Bucket,
		host:   fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
	}, nil
}

// PutObject загружает файл и возвращает публичный URL
func (s *s3Client) PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return s.buildPublicURL(key), nil
}

func (s *s3Client) buildPublicURL(key string) string {
	segments := strings.Split(filepath.ToSlash(key), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, strings.Join(segments, "/"))
}
