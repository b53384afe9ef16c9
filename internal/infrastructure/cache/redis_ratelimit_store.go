package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "farm:ratelimit:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisRateLimitStore shares counters between server instances through
// Redis INCR with a key expiry equal to the window.
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimitStore connects to Redis and verifies the connection
func NewRedisRateLimitStore(cfg RedisConfig) (*RedisRateLimitStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRateLimitStoreWithClient(client, ""), nil
}

// NewRedisRateLimitStoreWithClient wraps an existing client
func NewRedisRateLimitStoreWithClient(client *redis.Client, keyPrefix string) *RedisRateLimitStore {
	if keyPrefix == "" {
		keyPrefix = defaultRateLimitPrefix
	}
	return &RedisRateLimitStore{client: client, keyPrefix: keyPrefix}
}

// hitScript increments the counter and starts its expiry on the first hit
// of a window, so the window does not slide.
var hitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('PTTL', KEYS[1])}
`)

// Hit implements RateLimitStore
func (s *RedisRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	vals, err := hitScript.Run(ctx, s.client, []string{s.keyPrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to record rate limit hit: %w", err)
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %v", vals)
	}

	resetIn := time.Duration(vals[1]) * time.Millisecond
	if resetIn < 0 {
		resetIn = window
	}
	return vals[0], resetIn, nil
}

// Close closes the Redis client
func (s *RedisRateLimitStore) Close() error {
	return s.client.Close()
}

var _ RateLimitStore = (*RedisRateLimitStore)(nil)
