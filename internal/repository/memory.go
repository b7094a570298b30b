package repository

import (
	"context"
	"sync"
)

type MemoryKVStore struct {
	values sync.Map
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{}
}

func (r *MemoryKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := r.values.Load(key)
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), val.([]byte)...), nil
}

func (r *MemoryKVStore) Set(ctx context.Context, key string, value []byte) error {
	r.values.Store(key, append([]byte(nil), value...))
	return nil
}

func (r *MemoryKVStore) Delete(ctx context.Context, key string) error {
	r.values.Delete(key)
	return nil
}
