package snapshot

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory snapshot store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Get retrieves a scene's record.
func (s *MemoryStore) Get(ctx context.Context, sceneID string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.records[sceneID]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Set stores a scene's record.
func (s *MemoryStore) Set(ctx context.Context, sceneID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.records[sceneID] = stored
	return nil
}

// Delete removes a scene's record.
func (s *MemoryStore) Delete(ctx context.Context, sceneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sceneID)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NullStore is a no-op store that never persists anything.
// Useful when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Get always returns a miss.
func (NullStore) Get(ctx context.Context, sceneID string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (NullStore) Set(ctx context.Context, sceneID string, data []byte) error { return nil }

// Delete does nothing.
func (NullStore) Delete(ctx context.Context, sceneID string) error { return nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
