package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process ObjectStore used by tests and the HTTP
// server's upload path, where the image never touches a real bucket.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func memKey(bucket, key string) string { return bucket + "/" + key }

// Get returns a copy of the stored object data.
func (m *MemoryStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[memKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s not found", ErrFetch, bucket, key)
	}
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	return data, nil
}

// Put stores a copy of the object.
func (m *MemoryStore) Put(_ context.Context, bucket, key string, obj Object) error {
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[memKey(bucket, key)] = Object{Data: data, ContentType: obj.ContentType}
	return nil
}

// Object returns the stored object and whether it exists.
func (m *MemoryStore) Object(bucket, key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[memKey(bucket, key)]
	return obj, ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
