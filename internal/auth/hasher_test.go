package auth

import (
	"context"
	"strings"
	"sync"
	"time"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

func startPool(t *testing.T) *HashPool {
	t.Helper()
	pool := NewHashPool(HashPoolConfig{Workers: 2, Cost: bcrypt.MinCost})
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)
	return pool
}

func TestHashPoolHashAndVerify(t *testing.T) {
	pool := startPool(t)
	ctx := context.Background()

	hash, err := pool.Hash(ctx, "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := pool.Verify(ctx, "correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pool.Verify(ctx, "wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPoolRejectsLongSecret(t *testing.T) {
	pool := NewHashPool(HashPoolConfig{Workers: 1})
	long := strings.Repeat("a", MaxSecretBytes+1)

	_, err := pool.Hash(context.Background(), long)
	assert.ErrorIs(t, err, appErrors.ErrSecretTooLong)

	_, err = pool.Verify(context.Background(), long, "irrelevant")
	assert.ErrorIs(t, err, appErrors.ErrSecretTooLong)
}

func TestHashPoolNotStarted(t *testing.T) {
	pool := NewHashPool(HashPoolConfig{Workers: 1})
	_, err := pool.Hash(context.Background(), "secret")
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestHashPoolHonoursCancelledContext(t *testing.T) {
	pool := startPool(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pool.Hash(ctx, "secret")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHashPoolConcurrentUse(t *testing.T) {
	pool := startPool(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := pool.Hash(context.Background(), "secret")
			if err != nil {
				errs <- err
				return
			}
			if ok, err := pool.Verify(context.Background(), "secret", hash); err != nil || !ok {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHashPoolStopReleasesQueuedCallers(t *testing.T) {
	pool := NewHashPool(HashPoolConfig{Workers: 1, BufferSize: 4, Cost: bcrypt.MinCost})
	pool.Start(context.Background())

	release := make(chan struct{})
	running := make(chan struct{})
	go func() {
		_, _ = pool.submit(context.Background(), func() (string, bool, error) {
			close(running)
			<-release
			return "", true, nil
		})
	}()
	<-running

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := pool.Hash(context.Background(), "secret")
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return len(pool.jobs) == 2 }, time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, ErrPoolStopped)
		case <-time.After(2 * time.Second):
			t.Fatal("queued caller still waiting after Stop")
		}
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Empty(t, pool.jobs)

	_, err := pool.Hash(context.Background(), "secret")
	assert.ErrorIs(t, err, ErrPoolStopped)
}
