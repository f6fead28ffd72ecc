package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/CkBu3u/DiplomFinal/internal/config"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type S3Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *logger.Logger
}

// NewS3Storage connects to MinIO and makes sure the bucket exists.
func NewS3Storage(ctx context.Context, cfg *config.MinIOConfig, log *logger.Logger) (*S3Storage, error) {
	log = log.Named("s3_storage")
	log.Info("Initializing S3 MinIO Storage", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket), zap.Bool("use_ssl", cfg.UseSSL))

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, err)
		}
		log.Info("Bucket created", zap.String("bucket", cfg.Bucket))
	}

	base := cfg.PublicURL
	if base == "" {
		base = client.EndpointURL().String()
	}
	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: base,
		logger:    log,
	}, nil
}

// Upload stores data under objectKey and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, objectKey, contentType string, data []byte) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}
	s.logger.Info("file uploaded",
		zap.String("bucket", info.Bucket),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size),
	)
	return objectURL(s.publicURL, s.bucket, objectKey), nil
}

func (s *S3Storage) Delete(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", objectKey, s.bucket, err)
	}
	s.logger.Info("file deleted", zap.String("bucket", s.bucket), zap.String("key", objectKey))
	return nil
}

func objectURL(base, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, strings.TrimLeft(key, "/"))
}
