// Package pii implements the recursive, field-name-based PII sanitizer (spec §4.C2).
package pii

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Tier identifies which redaction policy, if any, a field name matched.
type Tier int

// Tiers, ordered from least to most aggressive.
const (
	TierNone Tier = iota
	TierPII
	TierAuth
)

// authWords are matched aggressively: a compound/prefix substring anywhere in the
// tokenized, compacted field name is enough (spec §4.C2 authentication-secret tier).
var authWords = []string{
	"password", "passwd", "token", "bearer", "apikey", "api_key", "accesskey", "access_key",
	"secret", "auth", "credential", "credentials", "authorization",
}

// piiWords are matched conservatively: either the whole field name (compacted) equals the
// word, or one tokenized segment equals the word exactly (spec §4.C2 PII tier).
var piiWords = []string{
	"email", "phone", "address", "name", "ssn", "dob", "birthdate", "dateofbirth",
	"passport", "license", "driverslicense", "nationalid", "card", "cardnumber", "pan",
	"cvv", "cvc", "expiry", "account", "bankaccount", "routing", "iban", "swift", "tin",
	"taxid", "vat", "ip", "ipaddress",
}

// authCompact and piiCompact are the word lists with underscores stripped, precomputed once
// so matching never re-normalizes the policy words on the hot path.
var (
	authCompact []string
	piiCompact  []string
)

// camelBoundary finds a lower-or-digit-to-upper transition, the camelCase word boundary.
// piiTrailingDigits strips an optional numeric suffix from a token before comparison, so
// "token2" / "token_2" match "token" the same as spec's `\d*` suffix allowance.
var (
	camelBoundary     = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	piiTrailingDigits = regexp.MustCompile(`[0-9]+$`)
)

func init() {
	for _, w := range authWords {
		authCompact = append(authCompact, strings.ReplaceAll(w, "_", ""))
	}
	for _, w := range piiWords {
		piiCompact = append(piiCompact, strings.ReplaceAll(w, "_", ""))
	}
}

// asciiLower folds only ASCII A-Z to a-z. This is deliberate: Unicode case folding would
// let homoglyphs (e.g. Coptic "ⲣassword") slip past the matcher undetected, which spec §8
// invariant 10 and §9's "locale-independent ASCII case folding" explicitly call out as a
// security requirement, not an oversight.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// tokenize splits a field name on underscores and camelCase boundaries, lowercasing each
// token (ASCII-only). This unifies spec §4.C2's three boundary forms (exact/snake/camel)
// into one pass: a per-token exact match models all three, since tokenization already
// isolates word boundaries the three regex forms were separately anchoring on.
func tokenize(field string) []string {
	withSep := camelBoundary.ReplaceAllString(field, "${1}_${2}")
	parts := strings.Split(withSep, "_")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tokens = append(tokens, asciiLower(p))
	}
	return tokens
}

func trimTrailingDigits(s string) string {
	return piiTrailingDigits.ReplaceAllString(s, "")
}

// matchTier classifies a field name, checking the aggressive auth tier first (it wins ties,
// matching spec's statement that auth-tier prefix matching also catches e.g. "tokenId").
func matchTier(field string) Tier {
	tokens := tokenize(field)
	if len(tokens) == 0 {
		return TierNone
	}
	compact := strings.Join(tokens, "")

	for _, w := range authCompact {
		if strings.Contains(compact, w) {
			return TierAuth
		}
	}

	compactTrimmed := trimTrailingDigits(compact)
	for _, w := range piiCompact {
		if compactTrimmed == w {
			return TierPII
		}
	}
	for _, tok := range tokens {
		tok = trimTrailingDigits(tok)
		for _, w := range piiCompact {
			if tok == w {
				return TierPII
			}
		}
	}
	return TierNone
}

// fieldMatchCache caches field-name -> Tier, bounded per spec §4.C2's "cached in an LRU of
// bounded size"; it is safe for concurrent use (golang-lru/v2 is internally mutex-guarded).
var fieldMatchCache *lru.Cache[string, Tier]

// SetFieldCacheSize (re)configures the bounded LRU used for field-name match memoization.
// Called once at startup (app/fx.go, cmd/extract); a size <= 0 means 4096.
func SetFieldCacheSize(size int) {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[string, Tier](size)
	fieldMatchCache = c
}

func init() {
	SetFieldCacheSize(4096)
}

// ClassifyField returns the redaction tier for a field name, memoized in the bounded LRU.
func ClassifyField(field string) Tier {
	if t, ok := fieldMatchCache.Get(field); ok {
		return t
	}
	t := matchTier(field)
	fieldMatchCache.Add(field, t)
	return t
}

// IsAuthField reports whether a field name matches the aggressive auth-secret tier.
func IsAuthField(field string) bool { return ClassifyField(field) == TierAuth }

// IsPIIField reports whether a field name matches either tier (used by spec §8 invariant 10).
func IsPIIField(field string) bool {
	t := ClassifyField(field)
	return t == TierAuth || t == TierPII
}
