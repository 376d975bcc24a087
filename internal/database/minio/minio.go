package minio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"transfer-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient wraps the MinIO client for Object Store B, the destination of
// the copy flow. Writes overwrite any existing object at the key; MinIO
// commits an object fully or not at all, so a failed put leaves no partial
// object behind.
type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
}

// NewMinioClient initializes a MinIO client, verifies connectivity and
// ensures the destination bucket exists.
func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		slog.Warn("Invalid value for MinIO secure flag, defaulting to false", "error", err)
		isSecure = false
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := minioClient.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}

	mc := &MinioClient{
		client: minioClient,
		config: cfg,
	}

	if err := mc.ensureBucket(ctx, cfg.MinioBucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.MinioBucket, err)
	}

	slog.Info("MinIO client initialized", "endpoint", endpoint, "bucket", cfg.MinioBucket)
	return mc, nil
}

// ensureBucket creates the bucket if it doesn't exist.
func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}

	if !exists {
		err := mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
			Region: mc.config.MinioLocation,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %s: %w", bucketName, err)
		}
		slog.Info("Created bucket", "bucket", bucketName)
	}

	return nil
}

// Put uploads byte data to the destination bucket, overwriting any existing
// object at the key.
func (mc *MinioClient) Put(ctx context.Context, key string, data []byte) error {
	reader := bytes.NewReader(data)
	_, err := mc.client.PutObject(ctx, mc.config.MinioBucket, key, reader, int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, mc.config.MinioBucket, err)
	}

	slog.Info("Uploaded object to MinIO", "key", key, "bucket", mc.config.MinioBucket, "bytes", len(data))
	return nil
}
