// Package kv defines the minimal key-value backend contract shared by the idempotency
// store (C12) and rate limiter (C13), and a Redis-backed implementation (spec §6 "KV
// backend contract").
package kv

import (
	"context"
	"time"
)

// Store is the KV backend contract required by C12/C13 (spec §6): get, set with TTL, and
// ping for health checks.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Ping(ctx context.Context) error

	// ZAdd/ZRangeByScore/ZRemRangeByScore back the rate limiter's sliding-window sorted
	// set (spec §4.C13). A Store that cannot support sorted sets (e.g. a plain cache)
	// is not usable for rate limiting, only for idempotency.
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)
	ZRemRangeByScore(ctx context.Context, key string, min, max float64) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
