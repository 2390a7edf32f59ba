// Package cache keeps last-known-good copies of backend metadata (recent
// projects, cities, models) so a slow or failing backend degrades to stale
// data instead of an empty sidebar.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type SnapshotStore interface {
	// Load decodes the snapshot under key into out and reports whether one
	// was found.
	Load(ctx context.Context, key string, out interface{}) (bool, error)
	Store(ctx context.Context, key string, value interface{}) error
}

// MemorySnapshotStore is per process.
type MemorySnapshotStore struct {
	cache *gocache.Cache
}

func NewMemorySnapshotStore(ttl time.Duration) *MemorySnapshotStore {
	return &MemorySnapshotStore{cache: gocache.New(ttl, 10*time.Minute)}
}

func (s *MemorySnapshotStore) Load(_ context.Context, key string, out interface{}) (bool, error) {
	raw, found := s.cache.Get(key)
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw.([]byte), out); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return true, nil
}

func (s *MemorySnapshotStore) Store(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	s.cache.Set(key, data, gocache.DefaultExpiration)
	return nil
}

// RedisSnapshotStore shares snapshots between gateway instances.
type RedisSnapshotStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSnapshotStore(rdb *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, prefix: "asistentas:snapshot:", ttl: ttl}
}

func (s *RedisSnapshotStore) Load(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisSnapshotStore) Store(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// TieredSnapshotStore reads the local tier first and warms it from the
// shared tier on a miss.
type TieredSnapshotStore struct {
	local  SnapshotStore
	shared SnapshotStore
}

func NewTieredSnapshotStore(local, shared SnapshotStore) *TieredSnapshotStore {
	return &TieredSnapshotStore{local: local, shared: shared}
}

func (s *TieredSnapshotStore) Load(ctx context.Context, key string, out interface{}) (bool, error) {
	if found, err := s.local.Load(ctx, key, out); err == nil && found {
		return true, nil
	}
	found, err := s.shared.Load(ctx, key, out)
	if err != nil || !found {
		return false, err
	}
	_ = s.local.Store(ctx, key, out)
	return true, nil
}

// Store always updates the local tier; a shared-tier failure is returned.
func (s *TieredSnapshotStore) Store(ctx context.Context, key string, value interface{}) error {
	if err := s.local.Store(ctx, key, value); err != nil {
		return err
	}
	return s.shared.Store(ctx, key, value)
}
