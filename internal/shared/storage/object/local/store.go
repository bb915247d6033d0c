package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"tender-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a local object store rooted at baseDir. When baseURL is set, stored
// objects get a URL of the form <baseURL>/files/<key>.
func New(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the root directory, used to serve /files.
func (s *Store) Dir() string {
	return s.baseDir
}

// Put writes the reader to disk under namespace with a random prefix.
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

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return object.Object{}, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.Object{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, body)
	if err != nil {
		return object.Object{}, fmt.Errorf("write body: %w", err)
	}

	return object.Object{
		Key:         key,
		SizeBytes:   written,
		ContentType: object.ContentType(contentType, head),
		URL:         s.publicURL(key),
	}, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Delete removes a stored object. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", object.ErrInvalidKey
	}
	return filepath.Join(s.baseDir, clean), nil
}

func (s *Store) publicURL(key string) string {
	if s.baseURL == "" {
		return ""
	}
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/files/" + strings.Join(parts, "/")
}

var _ object.ObjectStore = (*Store)(nil)
