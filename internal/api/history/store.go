package history

import (
	"context"
	"errors"
	"sync"
)

// Logical keys for the two persisted collections. The values under each key
// are JSON-serialized arrays of the respective record type.
const (
	TripHistoryKey   = "voyage_trip_history"
	NearbyHistoryKey = "voyage_nearby_history"
)

// ErrKeyNotFound is returned by Store.Get when no value exists under the key.
var ErrKeyNotFound = errors.New("history: key not found")

// Store is the key-value persistence backend behind the history service. Any
// durable store with get/set/delete semantics can serve: Postgres, Redis, or
// the in-memory implementation used in development and tests.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a non-durable Store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
