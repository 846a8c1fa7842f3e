package pricespersist

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	cachekeys "pricefeed-api/internal/cache"
	"pricefeed-api/pkg/prices"
)

// Cache is the subset of go-zero's cache.Cache used for the latest sample.
type Cache interface {
	GetCtx(ctx context.Context, key string, val any) error
	SetWithExpireCtx(ctx context.Context, key string, val any, expire time.Duration) error
	DelCtx(ctx context.Context, keys ...string) error
	IsNotFound(err error) bool
}

var _ prices.Store = (*Service)(nil)

// Service decorates a prices.Store with a write-through cache for Latest.
// Append stores the committed row under the ticker's key.
type Service struct {
	store prices.Store
	cache Cache
	ttl   time.Duration
}

// Config enumerates dependencies required to cache the price store.
type Config struct {
	Store prices.Store
	Cache Cache
	TTL   cachekeys.TTLSet
}

// NewService wires the cache layer. Returns cfg.Store unchanged when no cache
// is configured or the latest TTL is disabled.
func NewService(cfg Config) prices.Store {
	if cfg.Store == nil {
		return nil
	}
	if cfg.Cache == nil || cfg.TTL.Latest <= 0 {
		return cfg.Store
	}
	return &Service{
		store: cfg.Store,
		cache: cfg.Cache,
		ttl:   cfg.TTL.Latest,
	}
}

func (s *Service) Append(ctx context.Context, ticker string, price decimal.Decimal, tsUnix int64) (prices.Sample, error) {
	sample, err := s.store.Append(ctx, ticker, price, tsUnix)
	if err != nil {
		return sample, err
	}
	s.refreshLatest(ctx, sample)
	return sample, nil
}

// Latest serves the cached sample when present. A miss reads the store and
// leaves the key alone: only Append writes it, so a slow reader can never put
// back a row older than one already committed.
func (s *Service) Latest(ctx context.Context, ticker string) (prices.Sample, bool, error) {
	key := cachekeys.PriceLatestKey(ticker)
	var cached prices.Sample
	err := s.cache.GetCtx(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, true, nil
	case !s.cache.IsNotFound(err):
		logx.WithContext(ctx).Errorf("pricespersist: load key=%s err=%v", key, err)
	}
	return s.store.Latest(ctx, ticker)
}

// refreshLatest writes a committed sample to the latest key unless the key
// already holds a newer one. If the write fails the key is dropped so reads
// fall through to the store.
func (s *Service) refreshLatest(ctx context.Context, sample prices.Sample) {
	key := cachekeys.PriceLatestKey(sample.Ticker)
	var cached prices.Sample
	err := s.cache.GetCtx(ctx, key, &cached)
	switch {
	case err == nil:
		if newerThan(cached, sample) {
			return
		}
	case !s.cache.IsNotFound(err):
		logx.WithContext(ctx).Errorf("pricespersist: load key=%s err=%v", key, err)
	}

	if err := s.cache.SetWithExpireCtx(ctx, key, sample, s.ttl); err != nil {
		logx.WithContext(ctx).Errorf("pricespersist: cache key=%s err=%v", key, err)
		if err := s.cache.DelCtx(ctx, key); err != nil {
			logx.WithContext(ctx).Errorf("pricespersist: invalidate key=%s err=%v", key, err)
		}
	}
}

// newerThan orders samples the way Latest does: ts_unix, then id.
func newerThan(a, b prices.Sample) bool {
	if a.TsUnix != b.TsUnix {
		return a.TsUnix > b.TsUnix
	}
	return a.ID > b.ID
}

func (s *Service) ListByTicker(ctx context.Context, ticker string, limit, offset int) ([]prices.Sample, error) {
	return s.store.ListByTicker(ctx, ticker, limit, offset)
}

func (s *Service) Range(ctx context.Context, ticker string, fromTs, toTs *int64) ([]prices.Sample, error) {
	return s.store.Range(ctx, ticker, fromTs, toTs)
}
