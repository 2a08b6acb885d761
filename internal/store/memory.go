package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"quizbank/pkg/platform/sentinel"
)

// Memory is an in-process Store used by unit tests and local development. It
// mirrors the Postgres adapter's semantics: shallow merge, not-found sentinel,
// ID-ordered queries, all-or-nothing batches.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document

	// FailWrites makes every mutation fail; tests use it to simulate an
	// unavailable store.
	FailWrites bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, notFound(collection, id)
	}
	return copyDocument(doc), nil
}

func (m *Memory) Set(_ context.Context, collection, id string, data Document, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(collection, id, data, merge)
}

func (m *Memory) setLocked(collection, id string, data Document, merge bool) error {
	if m.FailWrites {
		return sentinel.ErrUnavailable
	}
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	if existing, ok := m.collections[collection][id]; ok && merge {
		merged := copyDocument(existing)
		for k, v := range data {
			merged[k] = v
		}
		m.collections[collection][id] = merged
		return nil
	}
	m.collections[collection][id] = copyDocument(data)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(collection, id)
}

func (m *Memory) deleteLocked(collection, id string) error {
	if m.FailWrites {
		return sentinel.ErrUnavailable
	}
	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) QueryEquals(_ context.Context, collection, field, value string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Snapshot
	for id, doc := range m.collections[collection] {
		if s, ok := doc[field].(string); ok && s == value {
			out = append(out, Snapshot{ID: id, Data: copyDocument(doc)})
		}
	}
	sortSnapshots(out)
	return out, nil
}

func (m *Memory) List(_ context.Context, collection string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Snapshot
	for id, doc := range m.collections[collection] {
		out = append(out, Snapshot{ID: id, Data: copyDocument(doc)})
	}
	sortSnapshots(out)
	return out, nil
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

type batchOp struct {
	collection string
	id         string
	data       Document
	merge      bool
	delete     bool
}

type memoryBatch struct {
	store     *Memory
	ops       []batchOp
	committed bool
}

func (b *memoryBatch) Set(collection, id string, data Document, merge bool) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: copyDocument(data), merge: merge})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, delete: true})
}

func (b *memoryBatch) Commit(_ context.Context) error {
	if b.committed {
		return fmt.Errorf("batch already committed")
	}
	if len(b.ops) > MaxBatchOps {
		return fmt.Errorf("batch of %d operations exceeds limit of %d", len(b.ops), MaxBatchOps)
	}
	b.committed = true

	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if b.store.FailWrites {
		return sentinel.ErrUnavailable
	}
	// Single lock hold makes the whole batch atomic with respect to readers.
	for _, op := range b.ops {
		var err error
		if op.delete {
			err = b.store.deleteLocked(op.collection, op.id)
		} else {
			err = b.store.setLocked(op.collection, op.id, op.data, op.merge)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func sortSnapshots(snaps []Snapshot) {
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyDocument(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return val
	}
}
