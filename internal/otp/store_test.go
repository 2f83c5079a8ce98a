package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	clock := time.Now()
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, "+1", "123456", time.Minute))

	ok, err := s.Consume(ctx, "+1", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len(), "a wrong guess keeps the code")

	clock = clock.Add(time.Minute)
	ok, err = s.Consume(ctx, "+1", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestMemoryStorePurge(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	clock := time.Now()
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, "+1", "111111", time.Second))
	require.NoError(t, s.Put(ctx, "+2", "222222", time.Hour))

	clock = clock.Add(time.Minute)
	s.purgeExpired()
	assert.Equal(t, 1, s.Len())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "+1", "123456", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:+1"))

	ok, err := s.Consume(ctx, "+1", "654321")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("otp:+1"))

	ok, err = s.Consume(ctx, "+1", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("otp:+1"))

	ok, err = s.Consume(ctx, "+1", "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "+2", "999999", time.Minute))
	mr.FastForward(2 * time.Minute)
	ok, err = s.Consume(ctx, "+2", "999999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, 3, 0)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("+1"))
	}
	assert.False(t, rl.Allow("+1"))

	assert.Zero(t, rl.cleanup(time.Now()))
	assert.Equal(t, 1, rl.cleanup(time.Now().Add(11*time.Minute)))
	assert.True(t, rl.Allow("+1"))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("+1"))
	}
}
