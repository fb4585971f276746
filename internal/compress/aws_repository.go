package compress

import (
	"context"
	"time"

	"video-compressor/internal/models"
)

type AWSRepository interface {
	PutObject(ctx context.Context, input *models.StoreObjectInput) error
	GetPresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
