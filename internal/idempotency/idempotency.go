// Package idempotency implements the idempotency store (spec §4.C12): a hit/miss/conflict
// cache over a KV backend, keyed by method, path, and client-supplied Idempotency-Key.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmtuentertainment/payplan/internal/kv"
)

// Outcome is the result of a Lookup.
type Outcome int

// Lookup outcomes (spec §4.C12).
const (
	Miss Outcome = iota
	Hit
	Conflict
)

// ErrMalformedRecord is returned when a stored record fails validation on read; the caller
// must treat this operation as fail-closed (spec §4.C12).
var ErrMalformedRecord = errors.New("malformed idempotency record")

// Record is the value stored against an idempotency key (spec §3 IdempotencyRecord).
type Record struct {
	BodyHash  string          `json:"bodyHash"`
	Response  json.RawMessage `json:"response"`
	Timestamp int64           `json:"timestamp"` // epoch ms
	TTLMillis int64           `json:"ttl"`
}

func (r Record) valid() bool {
	return r.BodyHash != "" && len(r.Response) > 0 && r.Timestamp > 0 && r.TTLMillis > 0
}

// DefaultTTL is used when the caller does not override it (spec §9: resolved 60s/86400s
// documentation drift in favor of 86,400s).
const DefaultTTL = 86400 * time.Second

// Store wraps a KV backend with the idempotency semantics.
type Store struct {
	backend kv.Store
	ttl     time.Duration
}

// New builds a Store over backend with the given record TTL.
func New(backend kv.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, ttl: ttl}
}

// Key builds the canonical idempotency cache key (spec §4.C12: "idem:<method>:<path>:<idempotencyKey>").
func Key(method, path, idempotencyKey string) string {
	return fmt.Sprintf("idem:%s:%s:%s", method, path, idempotencyKey)
}

// Lookup resolves the outcome for (method, path, idempotencyKey) against bodyHash. On
// backend unavailability it fails open and returns Miss (spec §4.C12). A malformed stored
// record is reported via ErrMalformedRecord and the operation must be treated as aborted
// (fail-closed), distinct from the open-failure Miss case.
func (s *Store) Lookup(ctx context.Context, method, path, idempotencyKey, bodyHash string) (Outcome, *Record, error) {
	raw, found, err := s.backend.Get(ctx, Key(method, path, idempotencyKey))
	if err != nil {
		return Miss, nil, nil // fail-open: backend unavailable
	}
	if !found {
		return Miss, nil, nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || !rec.valid() {
		return Miss, nil, ErrMalformedRecord
	}

	if rec.BodyHash == bodyHash {
		return Hit, &rec, nil
	}
	return Conflict, &rec, nil
}

// Store writes a record for (method, path, idempotencyKey) with the configured TTL.
// Store failures must never block the response, so errors are swallowed by the caller's
// use of this method in a best-effort position (spec §4.C12: "Store failures must not
// block the response").
func (s *Store) Store(ctx context.Context, method, path, idempotencyKey, bodyHash string, response json.RawMessage) error {
	now := time.Now()
	rec := Record{
		BodyHash:  bodyHash,
		Response:  response,
		Timestamp: now.UnixMilli(),
		TTLMillis: s.ttl.Milliseconds(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, Key(method, path, idempotencyKey), string(raw), s.ttl)
}

// TTL returns the configured record TTL, for surfacing in conflict messages
// (spec §9: "the conflict message should state the actual TTL in use").
func (s *Store) TTL() time.Duration {
	return s.ttl
}
