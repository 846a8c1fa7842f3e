// Package prices defines the immutable price sample, the append-only store
// contract shared by every persistence backend, and the error taxonomy used by
// ingestion and queries.
package prices

import (
	"context"

	"github.com/shopspring/decimal"
)

// Pagination bounds for list queries.
const (
	DefaultLimit = 1000
	MinLimit     = 1
	MaxLimit     = 10000
)

// PriceScale is the number of fractional digits a stored price keeps.
// Postgres rounds to it through NUMERIC(20,8); MemoryStore matches.
const PriceScale int32 = 8

// Sample is one immutable (ticker, price, ts_unix) observation.
type Sample struct {
	ID     int64           // storage ordering only, never a query sort key
	Ticker string          // normalized, allow-listed
	Price  decimal.Decimal // non-negative, NUMERIC(20,8) in Postgres
	TsUnix int64           // observation time in UNIX seconds, assigned at ingestion
}

// Store is the append-only persistence contract. There is deliberately no
// update or delete.
type Store interface {
	// Append persists a new sample and returns it with its surrogate key.
	Append(ctx context.Context, ticker string, price decimal.Decimal, tsUnix int64) (Sample, error)
	// ListByTicker returns samples ordered by ts_unix ascending, skipping offset rows.
	ListByTicker(ctx context.Context, ticker string, limit, offset int) ([]Sample, error)
	// Latest returns the sample with the greatest ts_unix (highest id on ties).
	// The boolean is false when the ticker has no samples.
	Latest(ctx context.Context, ticker string) (Sample, bool, error)
	// Range returns samples within the inclusive bounds; a nil bound is open.
	Range(ctx context.Context, ticker string, fromTs, toTs *int64) ([]Sample, error)
}

// CheckPage validates list pagination without clamping.
func CheckPage(limit, offset int) error {
	if limit < MinLimit || limit > MaxLimit {
		return InvalidPagination("limit must be between %d and %d, got %d", MinLimit, MaxLimit, limit)
	}
	if offset < 0 {
		return InvalidPagination("offset must be >= 0, got %d", offset)
	}
	return nil
}

// InRange reports whether ts lies within the optional inclusive bounds.
func InRange(ts int64, fromTs, toTs *int64) bool {
	if fromTs != nil && ts < *fromTs {
		return false
	}
	if toTs != nil && ts > *toTs {
		return false
	}
	return true
}
