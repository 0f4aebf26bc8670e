package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetLowestBid caches the current lowest pending bid amount for a shipment
func SetLowestBid(ctx context.Context, shipmentID uint, amount float64) error {
	key := fmt.Sprintf("shipment:lowest_bid:%d", shipmentID)
	return RedisClient.Set(ctx, key, strconv.FormatFloat(amount, 'f', 2, 64), time.Hour).Err()
}

// GetLowestBid retrieves the cached lowest pending bid amount for a shipment.
// Returns redis.Nil when no value is cached.
func GetLowestBid(ctx context.Context, shipmentID uint) (float64, error) {
	key := fmt.Sprintf("shipment:lowest_bid:%d", shipmentID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(result, 64)
}

// ClearLowestBid drops the cached lowest bid, e.g. after a bid decision
// changes the pending set
func ClearLowestBid(ctx context.Context, shipmentID uint) error {
	key := fmt.Sprintf("shipment:lowest_bid:%d", shipmentID)
	return RedisClient.Del(ctx, key).Err()
}

// SetShipmentStatus caches a shipment's lifecycle status for cheap polling
func SetShipmentStatus(ctx context.Context, shipmentID uint, status string) error {
	key := fmt.Sprintf("shipment:status:%d", shipmentID)
	return RedisClient.Set(ctx, key, status, time.Hour).Err()
}

// GetShipmentStatus retrieves a cached shipment status
func GetShipmentStatus(ctx context.Context, shipmentID uint) (string, error) {
	key := fmt.Sprintf("shipment:status:%d", shipmentID)
	return RedisClient.Get(ctx, key).Result()
}

// PublishBidUpdate publishes a bid event to Redis pub/sub
func PublishBidUpdate(ctx context.Context, shipmentID uint, bidID uint, amount float64, status string) error {
	updateData := map[string]interface{}{
		"shipmentId": shipmentID,
		"bidId":      bidID,
		"amount":     amount,
		"status":     status,
		"timestamp":  time.Now().Unix(),
	}

	data, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "bid:updates", data).Err()
}

// PublishShipmentUpdate publishes a shipment status update to Redis pub/sub
func PublishShipmentUpdate(ctx context.Context, shipmentID uint, status string, data map[string]interface{}) error {
	updateData := map[string]interface{}{
		"shipmentId": shipmentID,
		"status":     status,
		"data":       data,
		"timestamp":  time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "shipment:updates", jsonData).Err()
}
