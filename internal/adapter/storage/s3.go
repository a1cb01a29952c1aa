package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds the connection settings for an S3 compatible store.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string // empty for AWS, set for MinIO and friends
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	KeyPrefix    string
	CreateBucket bool
}

// S3Store writes assets as objects into a single bucket.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	name   Namer
	log    *zap.Logger
}

// NewS3Client builds an S3 client from static credentials, falling back to
// the default AWS credential chain when no keys are configured.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
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
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// NewS3Store verifies the bucket exists, creating it when allowed, and
// returns a store writing into it.
func NewS3Store(ctx context.Context, client S3API, cfg S3Config, name Namer, log *zap.Logger) (*S3Store, error) {
	bucket := aws.String(cfg.Bucket)

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: bucket}); err != nil {
		if !cfg.CreateBucket {
			return nil, fmt.Errorf("bucket %q is not accessible: %w", cfg.Bucket, err)
		}

		log.Info("bucket not found, creating", zap.String("bucket", cfg.Bucket))
		input := &s3.CreateBucketInput{Bucket: bucket}
		// us-east-1 rejects an explicit location constraint
		if cfg.Region != "" && cfg.Region != "us-east-1" {
			input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(cfg.Region),
			}
		}
		if _, err := client.CreateBucket(ctx, input); err != nil {
			var owned *types.BucketAlreadyOwnedByYou
			if !errors.As(err, &owned) {
				return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
			}
		}
	}

	log.Info("upload bucket ready", zap.String("bucket", cfg.Bucket), zap.String("prefix", cfg.KeyPrefix))

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.KeyPrefix,
		name:   name,
		log:    log,
	}, nil
}

// Save uploads r as a new object and returns its name without the key prefix.
func (s *S3Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := s.name(originalName)
	key := s.prefix + name

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.log.Error("failed to put asset object", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	s.log.Info("asset stored",
		zap.String("name", name),
		zap.String("original_name", originalName),
		zap.String("bucket", s.bucket),
	)
	return name, nil
}

// Location returns the bucket and key prefix as s3://bucket/prefix.
func (s *S3Store) Location() string {
	return "s3://" + s.bucket + "/" + s.prefix
}
