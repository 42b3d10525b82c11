package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/carhub/listings-api/internal/api/metrics"
	"github.com/carhub/listings-api/internal/infrastructure/config"
)

// S3Store writes image blobs to an S3-compatible object store. Locators are
// object keys within the configured bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

func NewS3Store(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// S3-compatible stores (MinIO) need the explicit endpoint and
			// path-style addressing.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *S3Store) Store(ctx context.Context, content io.Reader, originalName string) (string, error) {
	key := objectKey(originalName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	metrics.ImagesStoredTotal.WithLabelValues("s3").Inc()
	return key, nil
}

// Delete removes the object behind the locator. S3 delete is idempotent, so
// an already-removed object reports success.
func (s *S3Store) Delete(ctx context.Context, locator string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	s.logger.Debug().Str("key", locator).Msg("object deleted")
	return nil
}

// objectKey partitions objects by upload date and appends a UUID-qualified
// name, keeping keys unique across concurrent uploads.
func objectKey(originalName string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("cars/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uniqueName(originalName))
}
