package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested object does not exist. Callers
// treat it as "absent" and substitute defaults rather than failing.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the minimal contract against the content bucket: flat key
// listing, whole-object reads, and whole-object writes. Durable application
// data lives entirely behind this interface.
type ObjectStore interface {
	// List returns every object key under prefix, without delimiter grouping.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get reads an object in full. Returns ErrNotFound for missing keys.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites an object in full with the given content type.
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// IsNotFound reports whether err means the object is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
