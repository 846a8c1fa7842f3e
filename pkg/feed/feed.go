// Package feed defines the index-price feed contract and the registry of
// feed implementations selectable from configuration.
package feed

import (
	"context"

	"github.com/shopspring/decimal"
)

// Client fetches the current index price for a normalized ticker.
//
// Implementations must bound every call with a timeout, must not retry, and
// must report any network, status or decoding failure as prices.ErrFeedUnavailable.
type Client interface {
	FetchIndexPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, ticker string) (decimal.Decimal, error)

func (f ClientFunc) FetchIndexPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	return f(ctx, ticker)
}
