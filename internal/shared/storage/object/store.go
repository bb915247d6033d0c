package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"tender-backend/internal/shared/util"
)

// ErrInvalidKey is returned for storage keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored blob.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
	// URL is the public location of the object, empty when the store has none.
	URL string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Put(ctx context.Context, namespace, fileName, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ContentType returns declared when it is specific, otherwise sniffs head.
func ContentType(declared string, head []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	if len(head) == 0 {
		return "application/octet-stream"
	}
	return strings.Split(mimetype.Detect(head).String(), ";")[0]
}

// Sniff reads up to 3072 bytes from r for content detection and returns a reader
// that replays them ahead of the rest of r.
func Sniff(r io.Reader) ([]byte, io.Reader, error) {
	var head [3072]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, err
	}
	buf := append([]byte(nil), head[:n]...)
	return buf, io.MultiReader(bytes.NewReader(buf), r), nil
}

// NewKey builds a collision-free key "<namespace>/<uuid>_<file>" from caller input.
func NewKey(namespace, fileName string) (string, error) {
	name, err := util.CleanFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("clean file name: %w", err)
	}
	return path.Join(util.Namespace(namespace), uuid.NewString()+"_"+name), nil
}
