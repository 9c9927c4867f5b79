// Package store holds the durable key-value slots the shopping list is
// persisted into. A slot outlives the process; one process writes it.
package store

import (
	"fmt"
	"sync"
)

// Slot is a named durable key-value location.
type Slot interface {
	// Get returns the stored bytes and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Close() error
}

// Memory is a process-local Slot. Nothing survives a restart.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	// PutErr, when set, is returned by every Put.
	PutErr error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	if key == "" {
		return fmt.Errorf("memory slot: empty key")
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *Memory) Close() error { return nil }
