package mocks

import (
	"context"
	"sync"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
)

// MockKeyValueStore implements ports.KeyValueStore in memory with call
// tracking and error injection.
type MockKeyValueStore struct {
	mu   sync.RWMutex
	data map[string]string

	// Call tracking for verification
	GetCalls []string
	SetCalls []string

	// Error injection for testing error scenarios
	GetError  error
	SetError  error
	PingError error
}

var _ ports.KeyValueStore = (*MockKeyValueStore)(nil)

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{data: make(map[string]string)}
}

// Seed stores a raw value for test setup.
func (m *MockKeyValueStore) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Value returns the raw stored value for assertions.
func (m *MockKeyValueStore) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetError != nil {
		return "", false, m.GetError
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MockKeyValueStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, key)
	if m.SetError != nil {
		return m.SetError
	}
	m.data[key] = value
	return nil
}

func (m *MockKeyValueStore) Ping(ctx context.Context) error { return m.PingError }

func (m *MockKeyValueStore) Close() error { return nil }
