package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"transfer-service/internal/config"
	"transfer-service/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps the S3 API for Object Store A: the source of the copy flow
// and the destination of the published result set.
type Client struct {
	api    *awss3.Client
	bucket string
}

// New builds an S3 client for the configured bucket. Static credentials from
// the environment take precedence; otherwise the default AWS credential
// chain applies.
func New(ctx context.Context, cfg config.S3Config) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Info("S3 client initialized", "region", cfg.Region, "bucket", cfg.Bucket)
	return &Client{
		api:    awss3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

// Get reads an object in full. A missing key surfaces as
// models.ErrObjectNotFound.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("object %q in bucket %q: %w", key, c.bucket, models.ErrObjectNotFound)
		}
		// Some S3-compatible stores return NotFound instead of NoSuchKey.
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("object %q in bucket %q: %w", key, c.bucket, models.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get object %q from bucket %q: %w", key, c.bucket, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q body: %w", key, err)
	}

	slog.Info("Fetched object from S3", "key", key, "bucket", c.bucket, "bytes", len(data))
	return data, nil
}

// Put writes a JSON payload under the key, overwriting any existing object.
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %q to bucket %q: %w", key, c.bucket, err)
	}

	slog.Info("Uploaded object to S3", "key", key, "bucket", c.bucket, "bytes", len(data))
	return nil
}
