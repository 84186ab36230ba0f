package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
)

// MemoryStore keeps objects in process memory. Used in development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemoryStore returns an empty store whose public URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "http://localhost/storage"
	}
	return &MemoryStore{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

func (m *MemoryStore) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, upsert bool) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := objectID(bucket, key)
	if _, ok := m.objects[id]; ok && !upsert {
		return ErrObjectExists
	}
	m.objects[id] = Object{ContentType: contentType, Data: data}
	return nil
}

func (m *MemoryStore) Download(ctx context.Context, bucket, key string) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[objectID(bucket, key)]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &Object{ContentType: obj.ContentType, Data: bytes.Clone(obj.Data)}, nil
}

func (m *MemoryStore) Delete(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := objectID(bucket, key)
	if _, ok := m.objects[id]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, id)
	return nil
}

func (m *MemoryStore) PublicURL(bucket, key string) string {
	return publicURL(m.baseURL, bucket, key)
}

// Len reports how many objects are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func publicURL(base, bucket, key string) string {
	return base + "/" + bucket + "/" + escapeKey(key)
}

// escapeKey escapes each path segment of key, keeping the separators.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
