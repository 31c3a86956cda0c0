// Package storage downloads uploaded CV files from S3-compatible object storage
// (AWS S3 or Cloudflare R2).
package storage

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
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/logging"
)

// Download defaults
const (
	DefaultAttempts = 3
	DefaultBackoff  = 500 * time.Millisecond
	// MaxObjectSize caps a downloaded CV
	MaxObjectSize = 10 << 20
)

// ErrObjectTooLarge is returned for objects over MaxObjectSize
var ErrObjectTooLarge = errors.New("object exceeds maximum size")

// Config describes the bucket to read from. With R2AccountID set, the endpoint
// is the account's R2 endpoint and the region is "auto".
type Config struct {
	Bucket      string
	Region      string
	Endpoint    string
	R2AccountID string
	AccessKey   string
	SecretKey   string
	Attempts    int
	Backoff     time.Duration
}

// ObjectGetter is the part of the S3 client the downloader uses
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Downloader fetches objects with retry
type Downloader struct {
	client   ObjectGetter
	bucket   string
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

// New builds an S3 client from cfg and wraps it in a Downloader
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Downloader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is empty")
	}

	region := cfg.Region
	endpoint := cfg.Endpoint
	if cfg.R2AccountID != "" {
		region = "auto"
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
		}
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client ObjectGetter, cfg Config, logger *zap.Logger) *Downloader {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &Downloader{client: client, bucket: cfg.Bucket, attempts: cfg.Attempts, backoff: cfg.Backoff, logger: logging.OrNop(logger)}
}

// Download reads an object, retrying transient failures with linear backoff
func (d *Downloader) Download(ctx context.Context, key string) ([]byte, error) {
	return retry(ctx, d.attempts, d.backoff, func(attempt int) ([]byte, error) {
		data, err := d.get(ctx, key)
		if err != nil && attempt < d.attempts && !errors.Is(err, ErrObjectTooLarge) {
			d.logger.Warn("object download failed, retrying",
				zap.String("key", key),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return data, err
	})
}

func (d *Downloader) get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(out.Body, MaxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	if n > MaxObjectSize {
		return nil, ErrObjectTooLarge
	}
	return buf.Bytes(), nil
}

// retry calls fn up to attempts times, waiting backoff*attempt between tries.
// It stops early when ctx ends or fn fails with ErrObjectTooLarge.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 1; i <= attempts; i++ {
		result, err := fn(i)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if errors.Is(err, ErrObjectTooLarge) || i == attempts {
			break
		}

		timer := time.NewTimer(backoff * time.Duration(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("download cancelled after %d attempts: %w", i, errors.Join(ctx.Err(), lastErr))
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
