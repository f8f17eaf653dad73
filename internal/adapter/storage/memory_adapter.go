package storage

import (
	"context"
	"sync"
)

// MemoryAdapter is a process-local preferences namespace. Nothing survives
// a restart.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string]string)}
}

func (m *MemoryAdapter) GetString(ctx context.Context, key, defValue string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return defValue, nil
}

func (m *MemoryAdapter) PutString(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Snapshot returns a copy of every stored key.
func (m *MemoryAdapter) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp := make(map[string]string, len(m.data))
	for k, v := range m.data {
		cp[k] = v
	}
	return cp
}
