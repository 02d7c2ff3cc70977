package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedValue = "revoked"

// KeyValueStore is the subset of the Redis client the registry needs.
type KeyValueStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RevocationRegistry records revoked token ids until they would have expired anyway.
type RevocationRegistry struct {
	store KeyValueStore
	now   func() time.Time
}

// NewRevocationRegistry wires the registry to a key-value store.
func NewRevocationRegistry(store KeyValueStore, now func() time.Time) *RevocationRegistry {
	if now == nil {
		now = time.Now
	}
	return &RevocationRegistry{store: store, now: now}
}

// Revoke marks jti as revoked for the rest of its lifetime. Tokens that
// already expired are left alone.
func (r *RevocationRegistry) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	// EX is whole seconds; round up so the key lives at least as long as the token.
	if rem := ttl % time.Second; rem != 0 {
		ttl += time.Second - rem
	}
	if err := r.store.Set(ctx, jti, revokedValue, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked.
func (r *RevocationRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.store.Exists(ctx, jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation %s: %w", jti, err)
	}
	return n == 1, nil
}
