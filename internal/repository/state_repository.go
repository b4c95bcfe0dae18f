package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrStateNotFound is returned by Load when nothing has been saved under the key yet.
var ErrStateNotFound = errors.New("state document not found")

// StateRepository persists the single state document under one storage key.
// Documents are opaque bytes; encoding belongs to the store.
type StateRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, document []byte) error
	Ping(ctx context.Context) error
}

type memoryStateRepository struct {
	mu       sync.RWMutex
	document []byte
}

// NewMemoryStateRepository keeps the document in process memory.
func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{}
}

func (r *memoryStateRepository) Load(_ context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.document == nil {
		return nil, ErrStateNotFound
	}
	return append([]byte(nil), r.document...), nil
}

func (r *memoryStateRepository) Save(_ context.Context, document []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.document = append([]byte(nil), document...)
	return nil
}

func (r *memoryStateRepository) Ping(_ context.Context) error {
	return nil
}
