// Package ingest turns one scheduler trigger into at most one stored sample.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"pricefeed-api/pkg/prices"
	"pricefeed-api/pkg/ticker"
)

//go:generate mockgen -package=ingest_test -destination=mock_deps_test.go -source=ingest.go Fetcher,Appender,Recorder

// Fetcher returns the current index price for a normalized ticker.
type Fetcher interface {
	FetchIndexPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Appender persists one sample.
type Appender interface {
	Append(ctx context.Context, ticker string, price decimal.Decimal, tsUnix int64) (prices.Sample, error)
}

// Recorder observes ingestion outcomes, typically a Prometheus counter.
type Recorder interface {
	ObserveIngest(ticker, result string)
}

// Outcome labels passed to Recorder.
const (
	ResultOK         = "ok"
	ResultInvalid    = "invalid_ticker"
	ResultFeedError  = "feed_error"
	ResultStoreError = "storage_error"
)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used to stamp samples.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecorder attaches an outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// Service fetches the index price for a ticker and appends it to the store.
type Service struct {
	fetcher  Fetcher
	store    Appender
	now      func() time.Time
	recorder Recorder
}

// NewService wires the fetch-and-store pipeline.
func NewService(fetcher Fetcher, store Appender, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAndStore validates raw, fetches its price and stores exactly one
// sample. On any error nothing is stored.
func (s *Service) FetchAndStore(ctx context.Context, raw string) (prices.Sample, error) {
	t, ok := ticker.Resolve(raw)
	if !ok {
		s.observe(ticker.Normalize(raw), ResultInvalid)
		return prices.Sample{}, prices.InvalidTicker(raw)
	}

	price, err := s.fetcher.FetchIndexPrice(ctx, t)
	if err != nil {
		s.observe(t, ResultFeedError)
		logx.WithContext(ctx).Errorf("ingest: fetch %s failed: %v", t, err)
		return prices.Sample{}, fmt.Errorf("ingest %s: %w", t, err)
	}

	tsUnix := s.now().UTC().Unix()
	sample, err := s.store.Append(ctx, t, price, tsUnix)
	if err != nil {
		s.observe(t, ResultStoreError)
		logx.WithContext(ctx).Errorf("ingest: store %s failed: %v", t, err)
		return prices.Sample{}, fmt.Errorf("ingest %s: %w", t, err)
	}

	s.observe(t, ResultOK)
	logx.WithContext(ctx).Debugf("ingest: stored %s price=%s ts=%d id=%d", t, price, tsUnix, sample.ID)
	return sample, nil
}

func (s *Service) observe(t, result string) {
	if s.recorder != nil {
		s.recorder.ObserveIngest(t, result)
	}
}
