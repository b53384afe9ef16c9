package cache

import (
	"github.com/smartfarm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RateLimitStoreFactory creates rate limit stores based on configuration
type RateLimitStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RateLimitStoreFactoryOption is a functional option for configuring the factory
type RateLimitStoreFactoryOption func(*RateLimitStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RateLimitStoreFactoryOption {
	return func(f *RateLimitStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back
// to the in-memory store. Default is true.
func WithInMemoryFallback(allow bool) RateLimitStoreFactoryOption {
	return func(f *RateLimitStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRateLimitStoreFactory creates a new factory
func NewRateLimitStoreFactory(cfg config.RedisConfig, opts ...RateLimitStoreFactoryOption) *RateLimitStoreFactory {
	f := &RateLimitStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable,
// otherwise an in-memory store.
func (f *RateLimitStoreFactory) CreateStore() (RateLimitStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory rate limit store")
		return NewInMemoryRateLimitStore(), nil
	}

	store, err := NewRedisRateLimitStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis rate limit store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rate limit store; limits are per instance",
		zap.Error(err),
	)
	return NewInMemoryRateLimitStore(), nil
}
