package domain

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vovarama1992/tanky/internal/ports"
)

type s3Service struct {
	client ports.S3Client
}

func NewS3Service(client ports.S3Client) ports.S3Service {
	return &s3Service{client: client}
}

// ObjectKey: путь в бакете
func (s *s3Service) ObjectKey(now time.Time) string {
	return fmt.Sprintf("tanky/%s/%s.png", now.UTC().Format("2006-01-02"), uuid.NewString())
}

func (s *s3Service) SaveImage(ctx context.Context, dataURI string) (string, error) {
	payload := dataURI
	if strings.HasPrefix(dataURI, "data:") {
		_, after, ok := strings.Cut(dataURI, ",")
		if !ok {
			return "", fmt.Errorf("malformed data uri")
		}
		payload = after
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty image")
	}

	key := s.ObjectKey(time.Now())
	return s.client.PutObject(ctx, key, bytes.NewReader(raw), int64(len(raw)), "image/png")
}
