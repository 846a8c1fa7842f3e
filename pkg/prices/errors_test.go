package prices

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidTickerMessage(t *testing.T) {
	err := InvalidTicker("doge_usd")
	assert.ErrorIs(t, err, ErrInvalidTicker)
	assert.ErrorIs(t, err, ErrUnsupportedTicker)
	assert.Contains(t, err.Error(), `"doge_usd"`)
	assert.Contains(t, err.Error(), "ticker must be one of: btc_usd, eth_usd")
}

func TestWrappersKeepCause(t *testing.T) {
	cause := errors.New("connection refused")

	feedErr := FeedUnavailable(cause)
	assert.ErrorIs(t, feedErr, ErrFeedUnavailable)
	assert.ErrorIs(t, feedErr, cause)

	storeErr := StorageUnavailable("append", cause)
	assert.ErrorIs(t, storeErr, ErrStorageUnavailable)
	assert.ErrorIs(t, storeErr, cause)
	assert.Contains(t, storeErr.Error(), "append")

	_, parseErr := strconv.ParseInt("abc", 10, 64)
	paramErr := InvalidParam("from_ts", parseErr)
	assert.ErrorIs(t, paramErr, ErrInvalidParam)
	assert.ErrorIs(t, paramErr, strconv.ErrSyntax)
	assert.Contains(t, paramErr.Error(), "from_ts")
}

func TestIsClientError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"ticker", InvalidTicker("x"), true},
		{"pagination", InvalidPagination("limit %d", 0), true},
		{"param", InvalidParam("to_ts", errors.New("bad")), true},
		{"not found", ErrNotFound, false},
		{"feed", FeedUnavailable(errors.New("x")), false},
		{"storage", StorageUnavailable("latest", errors.New("x")), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsClientError(tc.err))
		})
	}
}
