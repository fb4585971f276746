package repository

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"video-compressor/internal/compress"
	"video-compressor/internal/models"
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) compress.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) PutObject(ctx context.Context, input *models.StoreObjectInput) error {
	_, err := a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &input.Bucket,
			Key:           &input.Key,
			ContentType:   &input.MimeType,
			ContentLength: &input.Size,
			Body:          input.Body,
		},
	)
	if err != nil {
		return errors.Wrap(err, "failed to upload file")
	}
	return nil
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	getObjectReq, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(expires),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to presign get object")
	}
	return getObjectReq.URL, nil
}
