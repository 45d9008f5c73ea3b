package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirStore is a filesystem-backed ObjectStore for local one-shot runs:
// the bucket is a directory under the root, the key a relative file path.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at the given directory.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (d *DirStore) path(bucket, key string) string {
	return filepath.Join(d.root, bucket, filepath.FromSlash(key))
}

// Get reads the file for bucket/key.
func (d *DirStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(bucket, key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrFetch, bucket, key, err)
	}
	return data, nil
}

// Put writes the file for bucket/key, creating parent directories.
func (d *DirStore) Put(_ context.Context, bucket, key string, obj Object) error {
	p := d.path(bucket, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrStore, bucket, key, err)
	}
	if err := os.WriteFile(p, obj.Data, 0o600); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrStore, bucket, key, err)
	}
	return nil
}
