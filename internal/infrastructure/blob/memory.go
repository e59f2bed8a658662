package blob

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore keeps objects in a map. URLs are rooted at BaseURL.
type MemoryStore struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	body        []byte
	contentType string
}

// NewMemoryStore returns an empty store issuing URLs under baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "http://localhost/blobs"
	}
	return &MemoryStore{BaseURL: baseURL, objects: make(map[string]memoryObject)}
}

// Driver identifies the store as in-memory.
func (m *MemoryStore) Driver() Driver { return DriverMemory }

// Upload stores the object under key. An existing key is an error.
func (m *MemoryStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.objects[key]; exists {
		return "", fmt.Errorf("blob %s already exists", key)
	}
	m.objects[key] = memoryObject{body: body, contentType: contentType}
	return joinURL(m.BaseURL, key), nil
}

// DeleteByURL drops the object a URL issued by Upload points to.
func (m *MemoryStore) DeleteByURL(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := keyFromURL(m.BaseURL, publicURL)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Has reports whether key is stored.
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
