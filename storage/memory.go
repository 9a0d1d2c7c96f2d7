package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var _ Storage = (*Memory)(nil)

// A Memory keeps values in a map for the life of the process,
// or until they outlive its TTL.
type Memory struct {
	now func() time.Time
	ttl time.Duration

	mu    sync.RWMutex
	swept time.Time
	vals  map[string]memoryVal
}

type memoryVal struct {
	b       []byte
	expires time.Time
}

func (v memoryVal) expired(now time.Time) bool {
	return !v.expires.IsZero() && !now.Before(v.expires)
}

// A MemoryOpt configures a *Memory.
type MemoryOpt func(*Memory)

// MemoryTTL expires values ttl after they were last set.
func MemoryTTL(ttl time.Duration) MemoryOpt {
	return func(m *Memory) { m.ttl = ttl }
}

// MemoryClock replaces the clock a *Memory expires values by.
func MemoryClock(now func() time.Time) MemoryOpt {
	return func(m *Memory) { m.now = now }
}

// NewMemory constructs an empty *Memory.
func NewMemory(opts ...MemoryOpt) *Memory {
	m := &Memory{now: time.Now, vals: make(map[string]memoryVal)}
	for _, opt := range opts {
		opt(m)
	}

	m.swept = m.now()
	return m
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.vals[key]
	if !ok || val.expired(m.now()) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	return append([]byte(nil), val.b...), nil
}

// Set stores a copy of val under key.
// Once per TTL, Set also drops every expired value.
func (m *Memory) Set(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v := memoryVal{b: append([]byte(nil), val...)}
	if m.ttl > 0 {
		v.expires = now.Add(m.ttl)
		if now.Sub(m.swept) >= m.ttl {
			m.sweep(now)
		}
	}

	m.vals[key] = v
	return nil
}

// Delete removes the value stored under key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.vals, key)
	return nil
}

// Len counts the values held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.vals)
}

// Close drops every stored value.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vals = make(map[string]memoryVal)
	return nil
}

func (m *Memory) sweep(now time.Time) {
	for k, v := range m.vals {
		if v.expired(now) {
			delete(m.vals, k)
		}
	}

	m.swept = now
}
