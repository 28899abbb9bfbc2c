package storage

import (
	"context"
	"sync"
)

// Memory is a process-local Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, blob []byte) error {
	stored := make([]byte, len(blob))
	copy(stored, blob)

	m.mu.Lock()
	m.data[key] = stored
	m.mu.Unlock()
	return nil
}
