package delivery

import (
	"bytes"
	"context"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// S3Config holds the S3 target. Credentials come from the default AWS chain.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. MinIO
	PathStyle bool
	Prefix    string
}

// S3Sink uploads workbooks to "<prefix>/<uuid>/<name>" in one bucket.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
	newID  func() string
}

// NewS3Sink creates an S3 sink from cfg.
func NewS3Sink(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3SinkFromClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3SinkFromClient wraps an existing client.
func NewS3SinkFromClient(client *s3.Client, bucket, prefix string) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
		newID:  func() string { return uuid.New().String() },
	}
}

// Key returns the object key for name under id.
func (s *S3Sink) Key(id, name string) string {
	return path.Join(s.prefix, id, name)
}

func (s *S3Sink) Deliver(ctx context.Context, name string, data []byte) (Receipt, error) {
	if name == "" || path.Base(name) != name {
		return Receipt{}, errors.Errorf("invalid file name %q", name)
	}
	key := s.Key(s.newID(), name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentLength:      aws.Int64(int64(len(data))),
		ContentType:        aws.String(ContentType),
		ContentDisposition: aws.String(mime.FormatMediaType("attachment", map[string]string{"filename": name})),
	})
	if err != nil {
		return Receipt{}, errors.Wrapf(err, "put s3://%s/%s", s.bucket, key)
	}
	return Receipt{Location: "s3://" + s.bucket + "/" + key, Size: len(data)}, nil
}
