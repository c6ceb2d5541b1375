package repo

import "sync"

// memoryStore is the in-process fallback for serialized session records.
// It only receives traffic while Redis is unreachable, so a Redis recovery
// never retroactively merges turns that were buffered here.
type memoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string][]byte)}
}

func (m *memoryStore) get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.records[key]
	return b, ok
}

func (m *memoryStore) set(key string, b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = b
}

func (m *memoryStore) delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
}
