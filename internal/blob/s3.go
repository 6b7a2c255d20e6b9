package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds explicit construction parameters. Empty fields fall back
// to the RNASEQKIT_S3_* environment and then to the AWS default chain.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; custom endpoint (e.g. MinIO)
	Prefix          string // optional key prefix, e.g. "runs/<id>/"
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// Environment variables:
//
//	RNASEQKIT_S3_BUCKET      bucket (required for the s3 driver)
//	RNASEQKIT_S3_REGION      region (default us-east-1)
//	RNASEQKIT_S3_ENDPOINT    endpoint URL, for MinIO
//	RNASEQKIT_S3_PATH_STYLE  true|false
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (optional)
func (c S3Config) withEnv() S3Config {
	if c.Bucket == "" {
		c.Bucket = os.Getenv("RNASEQKIT_S3_BUCKET")
	}
	if c.Region == "" {
		c.Region = os.Getenv("RNASEQKIT_S3_REGION")
	}
	if c.Endpoint == "" {
		c.Endpoint = os.Getenv("RNASEQKIT_S3_ENDPOINT")
	}
	if !c.PathStyle {
		c.PathStyle = strings.EqualFold(os.Getenv("RNASEQKIT_S3_PATH_STYLE"), "true")
	}
	return c
}

// S3 implements Store on a single bucket.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an S3 store.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	cfg = cfg.withEnv()
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required (set [artifacts.s3] bucket or RNASEQKIT_S3_BUCKET)")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *S3) Driver() Driver { return DriverS3 }

func (s *S3) objectKey(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return s.prefix + k, nil
}

func (s *S3) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return Info{}, err
	}
	// Artifacts are small; a seekable body lets the SDK sign the payload.
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &k, Body: bytes.NewReader(data)}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = cloneMetadata(opts.Metadata)
	}
	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		return Info{}, fmt.Errorf("s3 put %s: %w", k, err)
	}
	return Info{
		Key: key, Size: int64(len(data)), ContentType: opts.ContentType,
		ETag: strings.Trim(aws.ToString(out.ETag), "\""), Metadata: cloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
	}, nil
}

func notFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	var re *awshttp.ResponseError
	return errors.As(err, &nsk) || errors.As(err, &nf) ||
		(errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound)
}

func (s *S3) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return Info{}, nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &k})
	if notFound(err) {
		return Info{}, nil, ErrNotFound
	}
	if err != nil {
		return Info{}, nil, err
	}
	info := Info{
		Key: key, Size: aws.ToInt64(out.ContentLength), ContentType: aws.ToString(out.ContentType),
		ETag: strings.Trim(aws.ToString(out.ETag), "\""), Metadata: out.Metadata,
		LastModified: aws.ToTime(out.LastModified),
	}
	return info, out.Body, nil
}

func (s *S3) Head(ctx context.Context, key string) (Info, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return Info{}, err
	}
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &k})
	if notFound(err) {
		return Info{}, ErrNotFound
	}
	if err != nil {
		return Info{}, err
	}
	return Info{
		Key: key, Size: aws.ToInt64(out.ContentLength), ContentType: aws.ToString(out.ContentType),
		ETag: strings.Trim(aws.ToString(out.ETag), "\""), Metadata: out.Metadata,
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

func (s *S3) Delete(ctx context.Context, key string) (bool, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &k}); err != nil {
		return false, err
	}
	return true, nil
}
