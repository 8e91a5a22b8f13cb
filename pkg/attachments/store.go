package attachments

import (
	"context"
	"sync"
)

// Blob is the stored form of an attachment's bytes.
type Blob struct {
	MimeType string
	Data     []byte
}

// Store is the external attachment store the core reads from. A nil blob
// with a nil error means the key is unknown; callers substitute an omission
// marker rather than failing the request.
type Store interface {
	Get(ctx context.Context, key string) (*Blob, error)
}

// MemStore is an in-memory Store, used by tests and the CLI.
type MemStore struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

// NewMemStore returns an empty in-memory attachment store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: map[string]Blob{}}
}

// Put stores a blob under the given key.
func (s *MemStore) Put(key string, blob Blob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob
}

// Get implements Store.
func (s *MemStore) Get(_ context.Context, key string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	return &Blob{MimeType: b.MimeType, Data: b.Data}, nil
}

var _ Store = (*MemStore)(nil)
