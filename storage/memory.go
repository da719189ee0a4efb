package storage

import (
	"context"
	"sort"
	"sync"
)

type MemoryObject struct {
	Body        []byte
	ContentType string
}

// MemoryStore keeps objects in process memory. It is used for dry runs and
// in tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]MemoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string]MemoryObject{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	body := make([]byte, len(obj.Body))
	copy(body, obj.Body)

	return body, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	m.objects[key] = MemoryObject{Body: stored, ContentType: contentType}

	return nil
}

func (m *MemoryStore) Object(key string) (MemoryObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	return obj, ok
}

// Keys returns all stored keys, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
