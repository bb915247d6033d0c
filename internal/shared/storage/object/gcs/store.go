package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"

	"tender-backend/internal/shared/storage/object"
)

// Store implements ObjectStore on Google Cloud Storage.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// New creates a GCS-backed store using application default credentials.
func New(ctx context.Context, bucket, prefix string) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}, nil
}

// Put streams the reader into a new object under namespace.
func (s *Store) Put(ctx context.Context, namespace, fileName, contentType string, r io.Reader) (object.Object, error) {
	key, err := object.NewKey(namespace, fileName)
	if err != nil {
		return object.Object{}, err
	}
	head, body, err := object.Sniff(r)
	if err != nil {
		return object.Object{}, fmt.Errorf("read sniff: %w", err)
	}
	mimeType := object.ContentType(contentType, head)
	name := s.objectName(key)

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = mimeType
	written, err := io.Copy(w, body)
	if err != nil {
		_ = w.Close()
		return object.Object{}, fmt.Errorf("gcs write bucket=%s object=%s: %w", s.bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return object.Object{}, fmt.Errorf("gcs close bucket=%s object=%s: %w", s.bucket, name, err)
	}

	return object.Object{
		Key:         key,
		SizeBytes:   written,
		ContentType: mimeType,
		URL:         publicURL(s.bucket, name),
	}, nil
}

// Open returns a reader for a stored object.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	name := s.objectName(key)
	rc, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs read bucket=%s object=%s: %w", s.bucket, name, err)
	}
	return rc, nil
}

// Delete removes a stored object. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	name := s.objectName(key)
	err := s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete bucket=%s object=%s: %w", s.bucket, name, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) objectName(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func publicURL(bucket, name string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + (&url.URL{Path: name}).EscapedPath()
}

var _ object.ObjectStore = (*Store)(nil)
