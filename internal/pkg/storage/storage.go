package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

// Storage is the object store used for user uploads
type Storage interface {
	// Put stores the object under key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL of key
	GetURL(key string) string

	// KeyFromURL reverses GetURL; ok is false for URLs this backend did not produce
	KeyFromURL(url string) (key string, ok bool)
}
