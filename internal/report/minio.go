package report

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
)

// MinioStore uploads reports to a MinIO (or any S3 compatible) bucket
type MinioStore struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
	log        *log.Logger
}

// NewMinioStore connects to the endpoint; call EnsureBucket before the first upload
func NewMinioStore(cfg config.ReportsConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioStore{
		client:     client,
		bucket:     cfg.Bucket,
		presignTTL: cfg.PresignTTL,
		log:        logger.Storage(),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}

	s.log.Info("Report bucket created", "bucket", s.bucket)
	return nil
}

func (s *MinioStore) Put(ctx context.Context, r *Report) (*Export, error) {
	info, err := s.client.PutObject(ctx, s.bucket, r.Filename, bytes.NewReader(r.Content), int64(len(r.Content)),
		minio.PutObjectOptions{
			ContentType:        ContentType,
			ContentDisposition: "attachment; filename=" + r.Filename,
		})
	if err != nil {
		s.log.Error("Failed to upload report", "key", r.Filename, "error", err)
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", "attachment; filename="+r.Filename)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, r.Filename, s.presignTTL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report url: %w", err)
	}

	s.log.Info("Report uploaded", "key", info.Key, "size", info.Size)

	return &Export{
		Key:       info.Key,
		URL:       presigned.String(),
		ExpiresAt: time.Now().Add(s.presignTTL),
	}, nil
}
