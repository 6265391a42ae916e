package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/xid"
)

// S3Options configures an S3-compatible bucket (AWS or MinIO).
type S3Options struct {
	AccessKey    string
	SecretKey    string
	Region       string
	BaseEndpoint string
	Bucket       string
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newKey                = func(userID string) string { return fmt.Sprintf("users/%s/%s", userID, xid.New()) }
)

type S3Store struct {
	client objectAPI
	bucket string
}

// NewS3Store builds a store over opts. Static credentials are used when
// AccessKey is set; otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

// Offload uploads a data URL image under users/<userID>/<xid>. Anything
// that is not a base64 data URL stays inline.
func (s *S3Store) Offload(ctx context.Context, userID, image string) (string, error) {
	mime, data, ok := ParseDataURL(image)
	if !ok {
		return "", nil
	}
	key := newKey(userID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mime),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put image %s: %w", key, err)
	}
	return key, nil
}

func (s *S3Store) Load(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("get image %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", key, err)
	}
	mime := aws.ToString(out.ContentType)
	if mime == "" {
		mime = "application/octet-stream"
	}
	return DataURL(mime, data), nil
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", key, err)
	}
	return nil
}
