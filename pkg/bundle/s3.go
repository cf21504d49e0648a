package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// S3Client defines the S3 operations used by S3Source.
type S3Client interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config describes where content lives in an S3 or S3-compatible bucket.
type S3Config struct {
	Bucket         string `env:"LOCALIZR_S3_BUCKET"`
	Region         string `env:"LOCALIZR_S3_REGION" envDefault:"us-east-1"`
	Prefix         string `env:"LOCALIZR_S3_PREFIX"`
	Endpoint       string `env:"LOCALIZR_S3_ENDPOINT"` // Optional: for S3-compatible services
	AccessKeyID    string `env:"LOCALIZR_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"LOCALIZR_S3_SECRET_KEY"`
	ForcePathStyle bool   `env:"LOCALIZR_S3_FORCE_PATH_STYLE"` // For S3-compatible services like MinIO
}

// NewS3Client builds an S3 client from cfg. Static credentials are used
// when both AccessKeyID and SecretKey are set; otherwise the default AWS
// credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config, optFns ...func(*awsconfig.LoadOptions) error) (*s3.Client, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidS3Config
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	opts = append(opts, optFns...)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadAWSConfig, err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

// S3Source reads every supported object under a key prefix. Object keys
// are namespaced the same way as files under a directory root.
type S3Source struct {
	client  S3Client
	bucket  string
	prefix  string
	parsers []Parser
}

// NewS3Source creates a source for bucket and prefix. A non-empty prefix
// is treated as a directory: "en-US" and "en-US/" are equivalent.
func NewS3Source(client S3Client, bucket, prefix string, parsers ...Parser) *S3Source {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}
	prefix = strings.TrimPrefix(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix, parsers: parsers}
}

// Load implements the Source interface
func (s *S3Source) Load(ctx context.Context) (*content.Mapping, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyS3Error(err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || ParserForFile(key, s.parsers) == nil {
				continue
			}
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: s3://%s/%s", ErrNoContent, s.bucket, s.prefix)
	}

	root := content.NewMapping()
	for _, key := range keys {
		data, err := s.read(ctx, key)
		if err != nil {
			return nil, err
		}
		m, err := ParserForFile(key, s.parsers).Parse(ctx, data)
		if err != nil {
			return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, err))
		}
		root.Merge(nest(namespace(strings.TrimPrefix(key, s.prefix)), m))
	}
	return root, nil
}

func (s *S3Source) read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return data, nil
}

// classifyS3Error maps S3 errors onto the package's sentinel errors.
func classifyS3Error(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrLoadingCancelled, err)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return errors.Join(ErrRootNotFound, err)
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return errors.Join(ErrRootNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NoSuchKey":
			return errors.Join(ErrRootNotFound, err)
		}
	}
	return errors.Join(ErrFailedToReadFile, err)
}
