// Package deribit implements feed.Client against the Deribit public
// get_index_price endpoint.
package deribit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"pricefeed-api/pkg/feed"
	"pricefeed-api/pkg/prices"
)

const (
	defaultBaseURL   = "https://www.deribit.com"
	testnetBaseURL   = "https://test.deribit.com"
	defaultTimeout   = 10 * time.Second
	indexPricePath   = "/api/v2/public/get_index_price"
	maxResponseBytes = 1 << 20
	maxErrorBody     = 256
)

var (
	// ErrMissingPrice indicates the response carried no numeric result.index_price.
	ErrMissingPrice = errors.New("deribit: result.index_price missing or not numeric")
	// ErrNegativePrice indicates a negative index price in an otherwise valid response.
	ErrNegativePrice = errors.New("deribit: negative index price")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deribit: http status %d: %s", e.StatusCode, e.Body)
}

// RPCError is the JSON-RPC error object Deribit returns in place of a result.
type RPCError struct {
	Code    int64
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("deribit: rpc error %d: %s", e.Code, e.Message)
}

var _ feed.Client = (*Client)(nil)

// Client wraps access to the Deribit public API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default API host, e.g. https://test.deribit.com.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds each FetchIndexPrice call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient constructs a Deribit client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func init() {
	feed.RegisterProvider("deribit", func(name string, cfg *feed.ProviderConfig) (feed.Client, error) {
		opts := []Option{WithTimeout(cfg.Timeout)}
		switch {
		case cfg.BaseURL != "":
			if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
				return nil, fmt.Errorf("invalid base_url %q: %w", cfg.BaseURL, err)
			}
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		case cfg.Testnet:
			opts = append(opts, WithBaseURL(testnetBaseURL))
		}
		if cfg.RateLimit > 0 {
			opts = append(opts, WithRateLimit(cfg.RateLimit, cfg.Burst))
		}
		return NewClient(opts...), nil
	})
}

// FetchIndexPrice returns the current index price for ticker (e.g. "btc_usd").
// Every failure wraps prices.ErrFeedUnavailable.
func (c *Client) FetchIndexPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return decimal.Zero, prices.FeedUnavailable(fmt.Errorf("deribit: rate limit wait: %w", err))
		}
	}

	body, err := c.get(ctx, indexPricePath, url.Values{"index_name": {ticker}})
	if err != nil {
		return decimal.Zero, prices.FeedUnavailable(err)
	}
	price, err := parseIndexPrice(body)
	if err != nil {
		return decimal.Zero, prices.FeedUnavailable(err)
	}
	return price, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("deribit: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deribit: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("deribit: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}
	return body, nil
}

// parseIndexPrice extracts result.index_price from the raw JSON literal so the
// decimal keeps every digit the feed sent.
func parseIndexPrice(body []byte) (decimal.Decimal, error) {
	if !gjson.ValidBytes(body) {
		return decimal.Zero, errors.New("deribit: malformed json response")
	}
	if rpcErr := gjson.GetBytes(body, "error"); rpcErr.Exists() && rpcErr.Type != gjson.Null {
		return decimal.Zero, &RPCError{Code: rpcErr.Get("code").Int(), Message: rpcErr.Get("message").String()}
	}
	field := gjson.GetBytes(body, "result.index_price")
	if !field.Exists() || field.Type != gjson.Number {
		return decimal.Zero, ErrMissingPrice
	}
	price, err := decimal.NewFromString(field.Raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("deribit: decode index_price %q: %w", field.Raw, err)
	}
	if price.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	return price, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
