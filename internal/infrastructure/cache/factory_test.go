package cache

import (
	"context"
	"testing"

	"github.com/shopledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis points at a port nothing listens on
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(unreachableRedis).Create(ctx, config.IdempotencyBackendMemory)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis is an error by default", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(unreachableRedis).Create(ctx, config.IdempotencyBackendRedis)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis idempotency store unavailable")
	})

	t.Run("unreachable redis falls back when allowed", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(unreachableRedis, WithInMemoryFallback(true)).
			Create(ctx, config.IdempotencyBackendRedis)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(unreachableRedis).Create(ctx, "memcached")
		assert.Error(t, err)
	})
}
