package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		RedisClient.Close()
		RedisClient = nil
	})
	return mr
}

func TestLowestBidCache(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetLowestBid(ctx, 42, 880.0))

	amount, err := GetLowestBid(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 880.0, amount)

	require.NoError(t, ClearLowestBid(ctx, 42))

	_, err = GetLowestBid(ctx, 42)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestLowestBidCacheMiss(t *testing.T) {
	setupRedis(t)

	_, err := GetLowestBid(context.Background(), 999)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestLowestBidExpires(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetLowestBid(ctx, 7, 450.0))

	mr.FastForward(2 * time.Hour)

	_, err := GetLowestBid(ctx, 7)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestShipmentStatusCache(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetShipmentStatus(ctx, 5, "ASSIGNED"))

	status, err := GetShipmentStatus(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "ASSIGNED", status)
}

func TestPublishBidUpdate(t *testing.T) {
	setupRedis(t)

	err := PublishBidUpdate(context.Background(), 1, 10, 975.50, "PENDING")
	assert.NoError(t, err)
}

func TestPublishShipmentUpdate(t *testing.T) {
	setupRedis(t)

	err := PublishShipmentUpdate(context.Background(), 1, "PENDING", map[string]interface{}{
		"bidId": 10,
	})
	assert.NoError(t, err)
}
