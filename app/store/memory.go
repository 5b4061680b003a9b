package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process key-value store. Nothing survives a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	createdAt time.Time
	updatedAt time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]memoryEntry)}
}

// Get retrieves the value for the given key.
// Returns ErrNotFound if the key does not exist.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return e.value, nil
}

// Set stores the value for the given key, replacing any previous value.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	e, ok := m.data[key]
	if !ok {
		e.createdAt = now
	}
	e.value, e.updatedAt = value, now
	m.data[key] = e
	return nil
}

// Delete removes the key from the store.
// Returns ErrNotFound if the key does not exist.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return ErrNotFound
	}
	delete(m.data, key)
	return nil
}

// List returns metadata for all keys, ordered by updated_at descending.
func (m *Memory) List(_ context.Context) ([]KeyInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]KeyInfo, 0, len(m.data))
	for k, e := range m.data {
		res = append(res, KeyInfo{Key: k, Size: len(e.value), CreatedAt: e.createdAt, UpdatedAt: e.updatedAt})
	}
	slices.SortFunc(res, func(a, b KeyInfo) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return res, nil
}

// Close is a no-op, kept to satisfy Interface.
func (m *Memory) Close() error { return nil }
