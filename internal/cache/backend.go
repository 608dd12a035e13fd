package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Backend is the byte-level store shared by the Lens and media clients.
type Backend interface {
	// Get returns (value, found, error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// GetMultiple returns only the keys that were found.
	GetMultiple(ctx context.Context, keys []string) (map[string][]byte, error)

	SetMultiple(ctx context.Context, items map[string][]byte, ttl time.Duration) error

	Close() error
}

// GetJSON loads and decodes a cached value. Decode failures count as a miss.
func GetJSON[T any](ctx context.Context, b Backend, key string) (T, bool) {
	var v T
	data, ok, err := b.Get(ctx, key)
	if err != nil || !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// SetJSON encodes and stores a value.
func SetJSON(ctx context.Context, b Backend, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Set(ctx, key, data, ttl)
}
