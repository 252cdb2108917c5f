// Package objectstore stores uploaded media under flat string keys.
package objectstore

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty or escape the store
var ErrInvalidKey = errors.New("invalid object key")

// Store is the object storage used for uploaded files
type Store interface {
	// Put writes an object and returns the URI it is served from
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// List returns the keys starting with prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
	// DeleteMany removes the given keys; missing keys are ignored
	DeleteMany(ctx context.Context, keys []string) error
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
