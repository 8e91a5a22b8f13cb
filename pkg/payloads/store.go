package payloads

import (
	"context"
	"encoding/json"
	"sync"
)

// Store is the external payload store used to persist raw provider replies
// and provider file-handle metadata, keyed by opaque strings (conventionally
// "{chatId}/{nodeId}/req|res" or "{provider}/{storageKey}").
//
// Get returns (nil, nil) for an unknown key.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
}

// MemStore is an in-memory Store for tests and ephemeral sessions.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemStore returns an empty in-memory payload store.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string]json.RawMessage{}}
}

// Get implements Store.
func (s *MemStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out, nil
}

// Put implements Store.
func (s *MemStore) Put(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(json.RawMessage, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

var _ Store = (*MemStore)(nil)
