// Package cache holds the short-lived counters shared by HTTP middleware.
// Domain data is never cached.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrStoreClosed is returned by Hit after Close
var ErrStoreClosed = errors.New("rate limit store is closed")

// RateLimitStore counts requests per key in fixed windows
type RateLimitStore interface {
	// Hit records one request for key and returns the number of requests
	// seen in the current window along with the time until it resets.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)

	// Close releases resources held by the store
	Close() error
}
