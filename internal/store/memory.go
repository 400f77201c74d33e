package store

import (
	"context"
	"sync"
)

type memoryEntry struct {
	value   []byte
	version int64
}

// MemoryKV keeps everything in process memory.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryKV creates an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]memoryEntry)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, 0, false, nil
	}
	return cloneBytes(e.value), e.version, true, nil
}

func (m *MemoryKV) CompareAndSet(_ context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.entries[key].version
	if current != expectedVersion {
		return 0, ErrVersionConflict
	}
	next := current + 1
	m.entries[key] = memoryEntry{value: cloneBytes(value), version: next}
	return next, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.entries[key].version + 1
	m.entries[key] = memoryEntry{value: cloneBytes(value), version: next}
	return next, nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
