// Package testutil provides testing utilities for the reservations service.
package testutil

import (
	"context"
	"sync"
	"time"
)

// MockStore is an in-memory backend.Store with call tracking and
// configurable failures.
type MockStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// Failure injection
	GetErr error
	SetErr error
	Delay  time.Duration

	// Tracking
	GetCount int
	SetCount int
	LastKey  string
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]byte),
	}
}

// Get returns the stored value, nil for an absent key, or GetErr if set.
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	m.GetCount++
	m.LastKey = key
	delay, getErr := m.Delay, m.GetErr
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if getErr != nil {
		return nil, getErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

// Set stores value under key, or returns SetErr if set.
func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCount++
	m.LastKey = key

	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Put seeds a value without counting it as a Set call.
func (m *MockStore) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
}

// Value returns the raw stored value for key.
func (m *MockStore) Value(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Calls returns the number of Get and Set calls made so far.
func (m *MockStore) Calls() (gets, sets int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.GetCount, m.SetCount
}

// Reset clears stored data and tracking counters. Failure settings are kept.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.GetCount = 0
	m.SetCount = 0
	m.LastKey = ""
}
