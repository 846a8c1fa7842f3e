package cache

import (
	"strings"
	"time"

	"pricefeed-api/internal/config"
)

// Namespace is the Redis key prefix for the pricefeed service.
const Namespace = "pricefeed"

const defaultLatestTTL = 10 * time.Second

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Latest time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations. A negative
// value disables caching for that class.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Latest: durationOrDefault(cfg.Latest, defaultLatestTTL),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// PriceLatestKey holds the latest stored sample for a ticker.
func PriceLatestKey(ticker string) string {
	return formatKey("price", "latest", ticker)
}
