package prices

import (
	"errors"
	"fmt"

	"pricefeed-api/pkg/ticker"
)

var (
	// ErrInvalidTicker marks a ticker outside the allow-list. Client input class.
	ErrInvalidTicker = errors.New("unsupported ticker")
	// ErrUnsupportedTicker is the ingestion-side name for ErrInvalidTicker.
	ErrUnsupportedTicker = ErrInvalidTicker
	// ErrInvalidPagination marks out-of-range limit/offset values.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrInvalidParam marks a malformed request parameter such as a non-integer bound.
	ErrInvalidParam = errors.New("invalid parameter")
	// ErrNotFound means a valid ticker has no samples yet.
	ErrNotFound = errors.New("no data for ticker")
	// ErrFeedUnavailable covers network, status and parse failures against the feed.
	ErrFeedUnavailable = errors.New("feed unavailable")
	// ErrStorageUnavailable means the persistence medium could not serve the call.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InvalidTicker wraps ErrInvalidTicker with the rejected input and the allow-list.
func InvalidTicker(raw string) error {
	return fmt.Errorf("%w %q: ticker must be one of: %s", ErrInvalidTicker, raw, ticker.Describe())
}

// InvalidPagination wraps ErrInvalidPagination with a formatted reason.
func InvalidPagination(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPagination, fmt.Sprintf(format, args...))
}

// InvalidParam wraps ErrInvalidParam with the offending parameter and cause.
func InvalidParam(name string, cause error) error {
	return fmt.Errorf("%w %s: %w", ErrInvalidParam, name, cause)
}

// FeedUnavailable wraps cause with ErrFeedUnavailable.
func FeedUnavailable(cause error) error {
	return fmt.Errorf("%w: %w", ErrFeedUnavailable, cause)
}

// StorageUnavailable wraps cause with ErrStorageUnavailable, keeping op for context.
func StorageUnavailable(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, cause)
}

// IsClientError reports whether err stems from caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTicker) ||
		errors.Is(err, ErrInvalidPagination) ||
		errors.Is(err, ErrInvalidParam)
}
