package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"tender-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using Amazon S3.
type Store struct {
	client   *s3.Client
	bucket   string
	region   string
	prefix   string
	kmsKeyID string
}

// New creates a new S3-backed object store.
func New(ctx context.Context, region, bucket, prefix, kmsKeyID string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Store{
		client:   s3.NewFromConfig(cfg),
		bucket:   bucket,
		region:   cfg.Region,
		prefix:   normalizePrefix(prefix),
		kmsKeyID: strings.TrimSpace(kmsKeyID),
	}, nil
}

// Put uploads the reader contents to S3 under namespace.
func (s *Store) Put(ctx context.Context, namespace, fileName, contentType string, r io.Reader) (object.Object, error) {
	key, err := object.NewKey(namespace, fileName)
	if err != nil {
		return object.Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	head, body, err := object.Sniff(r)
	if err != nil {
		return object.Object{}, fmt.Errorf("read sniff: %w", err)
	}
	mimeType := object.ContentType(contentType, head)
	objectKey := applyPrefix(s.prefix, key)
	counter := &countingReader{r: body}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        counter,
		ContentType: aws.String(mimeType),
	}
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.kmsKeyID)
	} else {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return object.Object{}, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}

	return object.Object{
		Key:         key,
		SizeBytes:   counter.n,
		ContentType: mimeType,
		URL:         publicURL(s.bucket, s.region, objectKey),
	}, nil
}

// Open downloads a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	objectKey := applyPrefix(s.prefix, key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return out.Body, nil
}

// Delete removes a stored object.
func (s *Store) Delete(ctx context.Context, key string) error {
	objectKey := applyPrefix(s.prefix, key)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

func publicURL(bucket, region, objectKey string) string {
	escaped := (&url.URL{Path: objectKey}).EscapedPath()
	if region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escaped)
}

var _ object.ObjectStore = (*Store)(nil)
