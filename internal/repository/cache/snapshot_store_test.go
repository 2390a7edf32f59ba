package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (f failingStore) Load(context.Context, string, interface{}) (bool, error) { return false, f.err }
func (f failingStore) Store(context.Context, string, interface{}) error { return f.err }

func TestMemorySnapshotStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySnapshotStore(time.Hour)

	var cities []string
	found, err := s.Load(ctx, "cities", &cities)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Store(ctx, "cities", []string{"Kaunas", "Vilnius"}))
	found, err = s.Load(ctx, "cities", &cities)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Kaunas", "Vilnius"}, cities)
}

func TestTieredSnapshotStoreWarmsLocal(t *testing.T) {
	ctx := context.Background()
	local := NewMemorySnapshotStore(time.Hour)
	shared := NewMemorySnapshotStore(time.Hour)
	require.NoError(t, shared.Store(ctx, "models", []string{"default"}))

	tiered := NewTieredSnapshotStore(local, shared)
	var models []string
	found, err := tiered.Load(ctx, "models", &models)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"default"}, models)

	var warmed []string
	found, _ = local.Load(ctx, "models", &warmed)
	assert.True(t, found)
}

func TestTieredSnapshotStoreSharedFailure(t *testing.T) {
	ctx := context.Background()
	local := NewMemorySnapshotStore(time.Hour)
	tiered := NewTieredSnapshotStore(local, failingStore{err: errors.New("redis down")})

	err := tiered.Store(ctx, "cities", []string{"Kaunas"})
	assert.EqualError(t, err, "redis down")

	var cities []string
	found, err := tiered.Load(ctx, "cities", &cities)
	require.NoError(t, err)
	assert.True(t, found)
}
