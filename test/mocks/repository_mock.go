// Package mocks provides mock implementations of port interfaces for testing.
// Services depend on the port interfaces, so tests inject these in place of
// the store-backed adapters.
package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
)

// MockSubmissionLog implements ports.SubmissionLog over an in-memory slice.
type MockSubmissionLog struct {
	mu      sync.RWMutex
	records []domain.SubmissionRecord

	// Call tracking for verification
	LoadCalls   int
	AppendCalls []domain.SubmissionRecord

	// Error injection for testing error scenarios
	LoadError   error
	AppendError error
}

// Ensure MockSubmissionLog implements ports.SubmissionLog at compile time.
var _ ports.SubmissionLog = (*MockSubmissionLog)(nil)

func NewMockSubmissionLog() *MockSubmissionLog {
	return &MockSubmissionLog{}
}

// Seed adds records for test setup.
func (m *MockSubmissionLog) Seed(records ...domain.SubmissionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
}

// Records returns a copy of everything stored so far.
func (m *MockSubmissionLog) Records() []domain.SubmissionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records)
}

func (m *MockSubmissionLog) Load(ctx context.Context) ([]domain.SubmissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return slices.Clone(m.records), nil
}

func (m *MockSubmissionLog) Append(ctx context.Context, record domain.SubmissionRecord) (domain.SubmissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, record)
	if m.AppendError != nil {
		return domain.SubmissionRecord{}, m.AppendError
	}
	if last := domain.LastID(m.records); record.ID <= last {
		record.ID = last + 1
	}
	m.records = append(m.records, record)
	return record, nil
}
