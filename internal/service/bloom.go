package service

import (
	"context"
	"fmt"
	"time"

	"snaplink/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// BloomService pre-screens short-code existence via a Redis Bloom Filter
type BloomService struct {
	client    RedisClient
	capacity  int64
	errorRate float64
}

// RedisClient defines the interface for Redis client operations
type RedisClient interface {
	Do(ctx context.Context, args ...interface{}) *redis.Cmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const bloomFilterKey = "shortlink:bloom"

// NewBloomService creates a new Bloom Service
func NewBloomService(client RedisClient, cfg *config.BloomConfig) *BloomService {
	bs := &BloomService{
		client:    client,
		capacity:  cfg.Capacity,
		errorRate: cfg.ErrorRate,
	}

	// Initialize Bloom Filter if needed
	bs.initBloomFilter(context.Background())

	return bs
}

// initBloomFilter initializes the Bloom Filter
func (bs *BloomService) initBloomFilter(ctx context.Context) {
	exists, err := bs.client.Exists(ctx, bloomFilterKey).Result()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check Bloom Filter existence")
		return
	}

	if exists > 0 {
		log.Info().Msg("Bloom Filter already exists")
		return
	}

	cmd := bs.client.Do(ctx, "BF.RESERVE", bloomFilterKey, bs.errorRate, bs.capacity)
	if err := cmd.Err(); err != nil {
		// BF.RESERVE may not be available, use BF.ADD instead
		log.Warn().Err(err).Msg("BF.RESERVE not available, using dynamic Bloom Filter")
	} else {
		log.Info().Msgf("Bloom Filter created with capacity=%d, error_rate=%f", bs.capacity, bs.errorRate)
	}
}

// Add adds a short code to the Bloom Filter
func (bs *BloomService) Add(ctx context.Context, shortCode string) error {
	// Try BF.ADD first (RedisBloom module)
	cmd := bs.client.Do(ctx, "BF.ADD", bloomFilterKey, shortCode)
	if err := cmd.Err(); err != nil {
		// Fallback to regular SET if Bloom Filter not available
		log.Warn().Err(err).Msg("BF.ADD not available, using SET as fallback")
		return bs.client.Set(ctx, bs.fallbackKey(shortCode), 1, 0).Err()
	}
	return nil
}

// Exists checks if a short code might exist in the Bloom Filter
func (bs *BloomService) Exists(ctx context.Context, shortCode string) (bool, error) {
	// Try BF.EXISTS first
	cmd := bs.client.Do(ctx, "BF.EXISTS", bloomFilterKey, shortCode)
	result, err := cmd.Int()
	if err == nil {
		return result == 1, nil
	}

	// Fallback to regular GET if Bloom Filter not available
	exists, err := bs.client.Exists(ctx, bs.fallbackKey(shortCode)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Fallback key when Bloom Filter is not available
func (bs *BloomService) fallbackKey(shortCode string) string {
	return fmt.Sprintf("shortlink:bloom:fb:%s", shortCode)
}
