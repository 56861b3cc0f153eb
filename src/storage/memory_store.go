package storage

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory KeyValueStore used in tests and as a scratch
// backend when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[int64]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[int64]map[string][]byte)}
}

func (m *MemoryStore) Get(userID int64, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.slots[userID][slot]
	if !ok {
		return nil, ErrSlotNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryStore) Set(userID int64, slot string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.slots[userID] == nil {
		m.slots[userID] = make(map[string][]byte)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.slots[userID][slot] = stored
	return nil
}

func (m *MemoryStore) UserIDs() ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.slots))
	for id := range m.slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
