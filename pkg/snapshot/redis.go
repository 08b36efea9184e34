package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces snapshot keys in a shared Redis instance.
const redisKeyPrefix = "loomcanvas:scene:"

// RedisConfig configures a Redis-backed snapshot store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL expires idle scene records; zero means no expiration.
	TTL time.Duration
}

// RedisStore implements snapshot storage on Redis for multi-instance
// deployments. Writes are confined to one canvas's own key, so no
// cross-instance locking is required.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Get retrieves a scene's record.
func (s *RedisStore) Get(ctx context.Context, sceneID string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+sceneID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a scene's record, refreshing the TTL if configured.
func (s *RedisStore) Set(ctx context.Context, sceneID string, data []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+sceneID, data, s.ttl).Err()
}

// Delete removes a scene's record.
func (s *RedisStore) Delete(ctx context.Context, sceneID string) error {
	return s.client.Del(ctx, redisKeyPrefix+sceneID).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
