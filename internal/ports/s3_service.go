package ports

import (
	"context"
	"time"
)

type S3Service interface {
	ObjectKey(now time.Time) string
	// SaveImage decodes a base64 data URI and uploads it, returning the public URL.
	SaveImage(ctx context.Context, dataURI string) (string, error)
}
