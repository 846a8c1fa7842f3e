package deribit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricefeed-api/pkg/feed"
	"pricefeed-api/pkg/prices"
)

func newMockDeribit(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, indexPricePath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestFetchIndexPrice(t *testing.T) {
	var gotIndex string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIndex = r.URL.Query().Get("index_name")
		fmt.Fprint(w, `{"jsonrpc":"2.0","result":{"index_price":65123.12345678,"estimated_delivery_price":65123.12},"usIn":1,"usOut":2}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	price, err := client.FetchIndexPrice(context.Background(), "btc_usd")
	require.NoError(t, err)
	assert.Equal(t, "btc_usd", gotIndex)
	assert.Equal(t, "65123.12345678", price.String())
}

func TestFetchIndexPriceKeepsFullPrecision(t *testing.T) {
	server, _ := newMockDeribit(t, http.StatusOK, `{"result":{"index_price":123456789012.12345678}}`)

	price, err := NewClient(WithBaseURL(server.URL)).FetchIndexPrice(context.Background(), "eth_usd")
	require.NoError(t, err)
	assert.Equal(t, "123456789012.12345678", price.String())
}

func TestFetchIndexPriceFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusServiceUnavailable,
			body:   `{"error":"down"}`,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `{"result":`,
		},
		{
			name:   "missing result",
			status: http.StatusOK,
			body:   `{"jsonrpc":"2.0"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingPrice)
			},
		},
		{
			name:   "missing index price",
			status: http.StatusOK,
			body:   `{"result":{"estimated_delivery_price":1}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingPrice)
			},
		},
		{
			name:   "string price",
			status: http.StatusOK,
			body:   `{"result":{"index_price":"65000"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingPrice)
			},
		},
		{
			name:   "negative price",
			status: http.StatusOK,
			body:   `{"result":{"index_price":-1.5}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNegativePrice)
			},
		},
		{
			name:   "rpc error",
			status: http.StatusOK,
			body:   `{"jsonrpc":"2.0","error":{"code":10001,"message":"index_name not found"}}`,
			check: func(t *testing.T, err error) {
				var rpcErr *RPCError
				require.True(t, errors.As(err, &rpcErr))
				assert.Equal(t, int64(10001), rpcErr.Code)
				assert.Equal(t, "index_name not found", rpcErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := newMockDeribit(t, tt.status, tt.body)

			_, err := NewClient(WithBaseURL(server.URL)).FetchIndexPrice(context.Background(), "btc_usd")
			require.Error(t, err)
			assert.ErrorIs(t, err, prices.ErrFeedUnavailable)
			assert.Equal(t, int32(1), hits.Load(), "client must not retry")
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestFetchIndexPriceTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := client.FetchIndexPrice(context.Background(), "btc_usd")
	require.Error(t, err)
	assert.ErrorIs(t, err, prices.ErrFeedUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchIndexPriceNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(WithBaseURL(url)).FetchIndexPrice(context.Background(), "btc_usd")
	assert.ErrorIs(t, err, prices.ErrFeedUnavailable)
}

func TestFetchIndexPriceRateLimited(t *testing.T) {
	server, hits := newMockDeribit(t, http.StatusOK, `{"result":{"index_price":1}}`)
	client := NewClient(WithBaseURL(server.URL), WithRateLimit(0.001, 1))

	_, err := client.FetchIndexPrice(context.Background(), "btc_usd")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.FetchIndexPrice(ctx, "btc_usd")
	assert.ErrorIs(t, err, prices.ErrFeedUnavailable)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRegisteredProvider(t *testing.T) {
	server, _ := newMockDeribit(t, http.StatusOK, `{"result":{"index_price":3012.5}}`)

	cfg, err := feed.LoadConfigFromReader(strings.NewReader(fmt.Sprintf(`
default: deribit
providers:
  deribit:
    type: deribit
    base_url: %s
    timeout: 2s
`, server.URL)))
	require.NoError(t, err)

	client, err := cfg.BuildDefault()
	require.NoError(t, err)
	price, err := client.FetchIndexPrice(context.Background(), "eth_usd")
	require.NoError(t, err)
	assert.Equal(t, "3012.5", price.String())
}

func TestRegisteredProviderTestnet(t *testing.T) {
	cfg, err := feed.LoadConfigFromReader(strings.NewReader("providers:\n  d:\n    type: deribit\n    testnet: true\n"))
	require.NoError(t, err)

	client, err := cfg.BuildDefault()
	require.NoError(t, err)
	dc, ok := client.(*Client)
	require.True(t, ok)
	assert.Equal(t, testnetBaseURL, dc.baseURL)
	assert.Equal(t, defaultTimeout, dc.timeout)
}
