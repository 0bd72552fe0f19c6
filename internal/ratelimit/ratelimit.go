// Package ratelimit implements a sliding-window, per-identifier rate limiter over a KV
// backend using a sorted set of request timestamps (spec §4.C13).
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmtuentertainment/payplan/internal/kv"
)

// Decision is the outcome of an Allow check (spec §4.C13).
type Decision struct {
	Allowed       bool
	Limit         int
	Remaining     int
	ResetEpochSec int64
	RetryAfterSec int64 // only meaningful when !Allowed
}

// Limiter enforces limit requests per window per identifier.
type Limiter struct {
	backend kv.Store
	env     string
	limit   int
	window  time.Duration
}

// New builds a Limiter. env is embedded in the key prefix so staging/production counters
// never collide (spec §4.C13: "Keys are prefixed with PAYPLAN:<env>:rl").
func New(backend kv.Store, env string, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Hour
	}
	return &Limiter{backend: backend, env: env, limit: limit, window: window}
}

func (l *Limiter) key(identifier string) string {
	return fmt.Sprintf("PAYPLAN:%s:rl:%s", l.env, identifier)
}

// Allow records one request for identifier and reports whether it is within the limit. On
// backend unavailability it fails open (spec §4.C13 / §5).
func (l *Limiter) Allow(ctx context.Context, identifier string) Decision {
	now := time.Now()
	windowStart := now.Add(-l.window)
	key := l.key(identifier)

	if err := l.backend.Ping(ctx); err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetEpochSec: now.Add(l.window).Unix()}
	}

	_ = l.backend.ZRemRangeByScore(ctx, key, 0, float64(windowStart.UnixNano()))

	existing, err := l.backend.ZRangeByScore(ctx, key, float64(windowStart.UnixNano()), float64(now.UnixNano()))
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetEpochSec: now.Add(l.window).Unix()}
	}

	count := len(existing)
	resetAt := now.Add(l.window).Unix()

	if count >= l.limit {
		return Decision{
			Allowed:       false,
			Limit:         l.limit,
			Remaining:     0,
			ResetEpochSec: resetAt,
			RetryAfterSec: retryAfter(now, l.window, existing),
		}
	}

	member := fmt.Sprintf("%d-%d", now.UnixNano(), count)
	if err := l.backend.ZAdd(ctx, key, float64(now.UnixNano()), member); err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetEpochSec: resetAt}
	}
	_ = l.backend.Expire(ctx, key, l.window)

	remaining := l.limit - (count + 1)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: l.limit, Remaining: remaining, ResetEpochSec: resetAt}
}

// retryAfter estimates seconds until the oldest in-window entry ages out of the sliding
// window, giving the client a concrete Retry-After value (spec §4.C13 / S5: "Retry-After
// >= 1"). existing is ordered ascending by score (kv.Store.ZRangeByScore), so the first
// entry is the oldest.
func retryAfter(now time.Time, window time.Duration, existing []string) int64 {
	if len(existing) == 0 {
		return 1
	}
	nanos, ok := parseMemberNanos(existing[0])
	if !ok {
		return 1
	}
	oldest := time.Unix(0, nanos)
	wait := oldest.Add(window).Sub(now)
	secs := int64(wait.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return secs
}

func parseMemberNanos(member string) (int64, bool) {
	idx := strings.IndexByte(member, '-')
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(member[:idx], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
