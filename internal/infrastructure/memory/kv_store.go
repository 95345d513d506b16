package memory

import (
	"context"
	"sync"

	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/kvstore"
)

// KVStore is a process-local kvstore.Store. Values do not survive a restart.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return cloneBytes(v), nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = cloneBytes(value)
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
