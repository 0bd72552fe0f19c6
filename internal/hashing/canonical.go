// Package hashing implements canonical JSON serialization and SHA-256 hashing, used by the
// idempotency store to detect identical vs. conflicting replayed request bodies
// (spec §4.C11).
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Canonicalize produces a deterministic JSON encoding of v: object keys sorted ascending,
// array order preserved, primitives encoded via the standard library (spec §4.C11 / §3
// CanonicalJSON form).
func Canonicalize(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// normalize recursively walks v (as produced by encoding/json, or arbitrary Go values) into
// a form whose map keys will serialize in sorted order: ordered pair slices are not
// representable in encoding/json, so objects are rebuilt as a canonical struct-free
// representation backed by sortedObject, which implements json.Marshaler.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := sortedObject{keys: keys, values: make(map[string]any, len(t))}
		for _, k := range keys {
			nv, err := normalize(t[k])
			if err != nil {
				return nil, err
			}
			obj.values[k] = nv
		}
		return obj, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			nv, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		// Re-marshal/unmarshal arbitrary structs through encoding/json's map[string]any
		// representation so struct field ordering never leaks into the canonical form.
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
		if _, ok := generic.(map[string]any); ok {
			return normalize(generic)
		}
		if _, ok := generic.([]any); ok {
			return normalize(generic)
		}
		return generic, nil
	}
}

// sortedObject marshals as a JSON object with keys emitted in the pre-sorted order.
type sortedObject struct {
	keys   []string
	values map[string]any
}

func (o sortedObject) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		valJSON, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// HashHex returns the lowercase hex SHA-256 digest of v's canonical JSON form
// (spec §4.C11).
func HashHex(v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
