package objectstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Object is a stored blob held by Memory
type Object struct {
	Data        []byte
	ContentType string
}

// Memory is an in-process Store for development and tests
type Memory struct {
	baseURL string

	mu      sync.Mutex
	objects map[string]Object
}

// NewMemory creates an empty store whose URIs start with baseURL
func NewMemory(baseURL string) *Memory {
	return &Memory{baseURL: baseURL, objects: map[string]Object{}}
}

// Put stores a copy of data
func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	m.mu.Unlock()
	return joinURL(m.baseURL, key), nil
}

// List returns sorted keys under prefix
func (m *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteMany removes keys
func (m *Memory) DeleteMany(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.objects, k)
	}
	return nil
}

// Get returns a stored object
func (m *Memory) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

// Len returns the number of stored objects
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
