package search

import (
	"context"
	"sync"
)

// MemoryIndex is an in-process Index for unit tests and local development.
type MemoryIndex struct {
	mu      sync.RWMutex
	objects map[string]map[string]Object

	// Fail makes every call return ErrFail; tests use it to simulate an index
	// outage.
	Fail bool
}

// ErrFail is returned by a MemoryIndex with Fail set.
var ErrFail = errFail{}

type errFail struct{}

func (errFail) Error() string { return "index unavailable" }

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{objects: make(map[string]map[string]Object)}
}

func (m *MemoryIndex) SaveObjects(_ context.Context, indexName string, objects []Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrFail
	}
	if m.objects[indexName] == nil {
		m.objects[indexName] = make(map[string]Object)
	}
	for _, obj := range objects {
		m.objects[indexName][obj.ObjectID] = obj
	}
	return nil
}

func (m *MemoryIndex) DeleteObject(_ context.Context, indexName, objectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrFail
	}
	delete(m.objects[indexName], objectID)
	return nil
}

// Get returns the stored object and whether it exists. Test helper.
func (m *MemoryIndex) Get(indexName, objectID string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[indexName][objectID]
	return obj, ok
}

// Len returns the number of objects in an index. Test helper.
func (m *MemoryIndex) Len(indexName string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects[indexName])
}
