package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]time.Duration
	sets   int
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]time.Duration{}}
}

func (s *memoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if s.err != nil {
		return redis.NewStatusResult("", s.err)
	}
	s.sets++
	s.values[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (s *memoryStore) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	if s.err != nil {
		return redis.NewIntResult(0, s.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := s.values[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRevokeThenIsRevoked(t *testing.T) {
	clock := newClock()
	store := newMemoryStore()
	reg := NewRevocationRegistry(store, clock.Now)
	ctx := context.Background()

	revoked, err := reg.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, reg.Revoke(ctx, "jti-1", clock.Now().Add(90*time.Second)))
	assert.Equal(t, 90*time.Second, store.values["jti-1"])

	revoked, err = reg.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, reg.Revoke(ctx, "jti-1", clock.Now().Add(90*time.Second)))
	revoked, err = reg.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokeRoundsPartialSecondsUp(t *testing.T) {
	clock := newClock()
	store := newMemoryStore()
	reg := NewRevocationRegistry(store, clock.Now)

	require.NoError(t, reg.Revoke(context.Background(), "jti", clock.Now().Add(1500*time.Millisecond)))
	assert.Equal(t, 2*time.Second, store.values["jti"])
}

func TestRevokeExpiredTokenWritesNothing(t *testing.T) {
	clock := newClock()
	store := newMemoryStore()
	reg := NewRevocationRegistry(store, clock.Now)

	require.NoError(t, reg.Revoke(context.Background(), "old", clock.Now()))
	require.NoError(t, reg.Revoke(context.Background(), "older", clock.Now().Add(-time.Hour)))
	assert.Zero(t, store.sets)
}

func TestRegistryPropagatesStoreErrors(t *testing.T) {
	clock := newClock()
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	reg := NewRevocationRegistry(store, clock.Now)

	assert.Error(t, reg.Revoke(context.Background(), "jti", clock.Now().Add(time.Minute)))
	_, err := reg.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}
