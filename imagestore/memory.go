package imagestore

import (
	"context"
	"sync"
)

// Memory is a process-local Store. Entries are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, id int64) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[Key(id)]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, id int64, image string) error {
	if image == "" {
		return nil
	}
	m.mu.Lock()
	m.entries[Key(id)] = image
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	delete(m.entries, Key(id))
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) String() string { return "memory" }
