// Package blob stores opaque documents (invoices, uploaded images, the
// price list) under string keys and issues time-limited signed URLs for
// retrieving them.
package blob

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// Sentinel errors for blob access.
var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

// Store persists blobs by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	// Open returns the blob contents, or ErrNotFound.
	Open(ctx context.Context, key string) ([]byte, error)
}

// ValidKey reports whether key is a clean, relative, slash-separated path
// with no empty or dot segments. Keys outside this shape are rejected
// before they reach any backend.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return !strings.ContainsAny(key, "\\\x00")
}
