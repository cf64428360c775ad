package repository

import (
	"context"
	"time"

	"snaplink/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// ShortLinkKeyPrefix namespaces resolve-cache entries
	ShortLinkKeyPrefix = "sl:"
	// ShortLinkCacheTTL bounds how long a resolved mapping is cached
	ShortLinkCacheTTL = 24 * time.Hour
)

// RedisRepository handles Redis operations
type RedisRepository struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis")
	} else {
		log.Info().Msg("Redis connected successfully")
	}

	return &RedisRepository{
		client: rdb,
		cfg:    cfg,
	}
}

// GetClient returns the Redis client
func (r *RedisRepository) GetClient() *redis.Client {
	return r.client
}

// SaveShortLink caches a short code to long URL mapping
func (r *RedisRepository) SaveShortLink(ctx context.Context, shortCode, longURL string, ttl time.Duration) error {
	return r.client.Set(ctx, r.shortLinkKey(shortCode), longURL, ttl).Err()
}

// GetShortLink retrieves a cached long URL for a short code
func (r *RedisRepository) GetShortLink(ctx context.Context, shortCode string) (string, error) {
	return r.client.Get(ctx, r.shortLinkKey(shortCode)).Result()
}

// DeleteShortLink drops a cached mapping, e.g. after the link is deleted
func (r *RedisRepository) DeleteShortLink(ctx context.Context, shortCode string) error {
	return r.client.Del(ctx, r.shortLinkKey(shortCode)).Err()
}

// ExistsShortLink checks if a mapping is cached
func (r *RedisRepository) ExistsShortLink(ctx context.Context, shortCode string) (bool, error) {
	result, err := r.client.Exists(ctx, r.shortLinkKey(shortCode)).Result()
	return result > 0, err
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) shortLinkKey(shortCode string) string {
	return ShortLinkKeyPrefix + shortCode
}
