package pii

import (
	"reflect"
	"regexp"
	"time"
)

// RedactedPlaceholder replaces the value of any field that matched a redaction tier.
const RedactedPlaceholder = "[REDACTED]"

// CircularSentinel replaces any value reached via a cycle (spec §4.C2).
const CircularSentinel = "[Circular]"

// prototypePollutionKeys are dropped outright, regardless of value, mirroring the
// JavaScript-world defense this spec is ported from (spec §4.C2): a Go map has no
// prototype chain, but callers may still round-trip payloads through encoding/json into
// maps that originated as attacker-controlled JSON, so the same key denylist applies.
var prototypePollutionKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// Sanitize returns a redacted copy of v. When no sub-value needed redaction anywhere in a
// subtree, the original reference is returned unchanged (structural sharing, spec §4.C2 /
// §8 invariant 1: sanitize is idempotent, sanitize(sanitize(x)) deep-equals sanitize(x)).
func Sanitize(v any) any {
	visited := map[uintptr]bool{}
	out, _ := sanitizeValue(v, visited)
	return out
}

// sanitizeValue returns (result, changed). changed is false only when result is v itself
// (or behaviorally identical to it), allowing callers higher in the recursion to also
// return their original reference untouched.
func sanitizeValue(v any, visited map[uintptr]bool) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), true
	case *regexp.Regexp:
		if t == nil {
			return nil, false
		}
		return t.String(), true
	case map[string]any:
		return sanitizeStringMap(t, visited)
	case []any:
		return sanitizeSlice(t, visited)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		return sanitizePointer(rv, visited)
	case reflect.Map:
		return sanitizeGenericMap(rv, visited)
	case reflect.Slice, reflect.Array:
		return sanitizeGenericSequence(rv, visited)
	case reflect.Struct:
		return sanitizeStruct(rv, visited)
	default:
		return v, false
	}
}

func sanitizeStringMap(m map[string]any, visited map[uintptr]bool) (any, bool) {
	if m == nil {
		return m, false
	}
	ptr := mapPointer(m)
	if ptr != 0 {
		if visited[ptr] {
			return CircularSentinel, true
		}
		visited[ptr] = true
		defer delete(visited, ptr)
	}

	changed := false
	out := make(map[string]any, len(m))
	for k, val := range m {
		if prototypePollutionKeys[k] {
			changed = true
			continue
		}
		tier := ClassifyField(k)
		if tier != TierNone {
			out[k] = RedactedPlaceholder
			changed = true
			continue
		}
		sv, sc := sanitizeValue(val, visited)
		out[k] = sv
		if sc {
			changed = true
		}
	}
	if !changed {
		return m, false
	}
	return out, true
}

func sanitizeSlice(s []any, visited map[uintptr]bool) (any, bool) {
	if s == nil {
		return s, false
	}
	changed := false
	out := make([]any, len(s))
	for i, v := range s {
		sv, sc := sanitizeValue(v, visited)
		out[i] = sv
		if sc {
			changed = true
		}
	}
	if !changed {
		return s, false
	}
	return out, true
}

func sanitizePointer(rv reflect.Value, visited map[uintptr]bool) (any, bool) {
	if rv.IsNil() {
		return nil, false
	}
	ptr := rv.Pointer()
	if visited[ptr] {
		return CircularSentinel, true
	}
	visited[ptr] = true
	defer delete(visited, ptr)

	sv, changed := sanitizeValue(rv.Elem().Interface(), visited)
	if !changed {
		return rv.Interface(), false
	}
	return sv, true
}

func sanitizeGenericMap(rv reflect.Value, visited map[uintptr]bool) (any, bool) {
	if rv.IsNil() {
		return rv.Interface(), false
	}
	ptr := rv.Pointer()
	if visited[ptr] {
		return CircularSentinel, true
	}
	visited[ptr] = true
	defer delete(visited, ptr)

	changed := false
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := keyToString(iter.Key())
		if prototypePollutionKeys[k] {
			changed = true
			continue
		}
		tier := ClassifyField(k)
		if tier != TierNone {
			out[k] = RedactedPlaceholder
			changed = true
			continue
		}
		sv, sc := sanitizeValue(iter.Value().Interface(), visited)
		out[k] = sv
		if sc {
			changed = true
		}
	}
	if !changed {
		return rv.Interface(), false
	}
	return out, true
}

func sanitizeGenericSequence(rv reflect.Value, visited map[uintptr]bool) (any, bool) {
	n := rv.Len()
	changed := false
	out := make([]any, n)
	for i := 0; i < n; i++ {
		sv, sc := sanitizeValue(rv.Index(i).Interface(), visited)
		out[i] = sv
		if sc {
			changed = true
		}
	}
	if !changed {
		return rv.Interface(), false
	}
	return out, true
}

// sanitizeStruct converts an arbitrary struct to a sanitized map keyed by field name,
// skipping unexported fields. Structural sharing does not apply to structs (a new map is
// always produced), since a struct value cannot alias its sanitized map representation.
func sanitizeStruct(rv reflect.Value, visited map[uintptr]bool) (any, bool) {
	if tm, ok := rv.Interface().(time.Time); ok {
		return tm.UTC().Format(time.RFC3339Nano), true
	}
	rt := rv.Type()
	out := make(map[string]any, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tier := ClassifyField(f.Name)
		if tier != TierNone {
			out[f.Name] = RedactedPlaceholder
			continue
		}
		sv, _ := sanitizeValue(rv.Field(i).Interface(), visited)
		out[f.Name] = sv
	}
	return out, true
}

func keyToString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return reflectStringer(k)
}

func reflectStringer(v reflect.Value) string {
	if s, ok := v.Interface().(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// mapPointer returns a stable pointer identity for a map header, or 0 if unavailable.
func mapPointer(m map[string]any) uintptr {
	if m == nil {
		return 0
	}
	return reflect.ValueOf(m).Pointer()
}
