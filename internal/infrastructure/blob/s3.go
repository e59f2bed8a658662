package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps objects in a single S3 (or MinIO) bucket. Objects are
// uploaded public-read so the stored URL can be rendered directly.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// S3Config holds construction parameters.
type S3Config struct {
	Region        string
	Bucket        string
	Endpoint      string // optional, e.g. MinIO
	PathStyle     bool
	PublicBaseURL string // optional; derived from bucket/region/endpoint when empty
}

// NewS3Store creates a store using the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg S3Config, optFns ...func(*awsconfig.LoadOptions) error) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	loadOpts := append([]func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}, optFns...)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3StoreWithClient(client, cfg), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client *s3.Client, cfg S3Config) *S3Store {
	base := cfg.PublicBaseURL
	if base == "" {
		base = defaultPublicBase(cfg)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(base, "/")}
}

func defaultPublicBase(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Driver identifies the store as S3.
func (s *S3Store) Driver() Driver { return DriverS3 }

// BaseURL is the prefix of every URL this store issues.
func (s *S3Store) BaseURL() string { return s.baseURL }

// Upload puts the object under key in the bucket and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: r}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return joinURL(s.baseURL, key), nil
}

// DeleteByURL removes the object a URL issued by Upload points to.
func (s *S3Store) DeleteByURL(ctx context.Context, publicURL string) error {
	key, err := keyFromURL(s.baseURL, publicURL)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
