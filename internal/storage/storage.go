// Package storage abstracts the object store that triggers the pipeline
// and receives its output.
package storage

import (
	"context"
	"errors"
)

// ErrFetch is returned when an object cannot be read from the store.
var ErrFetch = errors.New("object fetch failed")

// ErrStore is returned when an object cannot be written to the store.
var ErrStore = errors.New("object store failed")

// Object is the payload written to a store.
type Object struct {
	Data        []byte
	ContentType string
}

// ObjectStore is the minimal capability set the pipeline needs: fetch the
// source image and persist the redacted result.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, obj Object) error
}
