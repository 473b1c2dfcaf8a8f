package objstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/linkshelf/shelf/internal/metrics"
)

// S3Config configures the S3 backend. Endpoint is optional and points
// at S3-compatible stores (MinIO, R2); when empty the AWS default
// endpoint for the region is used.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Backend implements Backend on S3 or any S3-compatible store.
type S3Backend struct {
	client *s3.Client
	bucket string
}

// NewS3 builds an S3 backend from config.
func NewS3(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Backend{client: client, bucket: cfg.Bucket}, nil
}

// Get retrieves an object, mapping missing keys to ErrNotFound.
func (b *S3Backend) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()

	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			metrics.RecordStoreOperation("get", time.Since(start), true)
			return nil, fmt.Errorf("get object %s: %w", key, ErrNotFound)
		}
		metrics.RecordStoreOperation("get", time.Since(start), false)
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		metrics.RecordStoreOperation("get", time.Since(start), false)
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}

	metrics.RecordStoreOperation("get", time.Since(start), true)
	return data, nil
}

// Put uploads an object.
func (b *S3Backend) Put(ctx context.Context, key string, data []byte) error {
	start := time.Now()

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		metrics.RecordStoreOperation("put", time.Since(start), false)
		return fmt.Errorf("put object %s: %w", key, err)
	}

	metrics.RecordStoreOperation("put", time.Since(start), true)
	return nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	start := time.Now()

	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordStoreOperation("delete", time.Since(start), false)
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	metrics.RecordStoreOperation("delete", time.Since(start), true)
	return nil
}

// List returns all keys under prefix.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			metrics.RecordStoreOperation("list", time.Since(start), false)
			return nil, fmt.Errorf("list prefix %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	metrics.RecordStoreOperation("list", time.Since(start), true)
	return keys, nil
}

// Close is a no-op; the SDK client holds no resources of its own.
func (b *S3Backend) Close() error { return nil }
