// Package ticker owns the instrument allow-list shared by ingestion and queries.
package ticker

import (
	"sort"
	"strings"
)

const (
	BTCUSD = "btc_usd"
	ETHUSD = "eth_usd"
)

// allowed is the explicit, finite set of supported index names. It is never
// derived from input.
var allowed = map[string]struct{}{
	BTCUSD: {},
	ETHUSD: {},
}

// Normalize trims surrounding whitespace and lowercases the symbol.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsAllowed reports whether an already-normalized ticker is in the allow-list.
func IsAllowed(t string) bool {
	_, ok := allowed[t]
	return ok
}

// Resolve normalizes raw and reports whether the result is allow-listed.
func Resolve(raw string) (string, bool) {
	t := Normalize(raw)
	return t, IsAllowed(t)
}

// All returns the allow-list in lexical order.
func All() []string {
	out := make([]string, 0, len(allowed))
	for t := range allowed {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Describe renders the allow-list for user facing messages, e.g. "btc_usd, eth_usd".
func Describe() string {
	return strings.Join(All(), ", ")
}
