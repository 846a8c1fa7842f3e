package prices

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store. It backs the test environment when no
// Postgres DSN is configured and is used throughout the package tests.
type MemoryStore struct {
	mu      sync.RWMutex
	samples []Sample
	nextID  int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, ticker string, price decimal.Decimal, tsUnix int64) (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sample := Sample{ID: s.nextID, Ticker: ticker, Price: price.Round(PriceScale), TsUnix: tsUnix}
	s.samples = append(s.samples, sample)
	return sample, nil
}

func (s *MemoryStore) ListByTicker(_ context.Context, ticker string, limit, offset int) ([]Sample, error) {
	if err := CheckPage(limit, offset); err != nil {
		return nil, err
	}
	rows := s.ordered(ticker, nil, nil)
	if offset >= len(rows) {
		return []Sample{}, nil
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemoryStore) Latest(_ context.Context, ticker string) (Sample, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		best  Sample
		found bool
	)
	for _, sample := range s.samples {
		if sample.Ticker != ticker {
			continue
		}
		if !found || sample.TsUnix > best.TsUnix || (sample.TsUnix == best.TsUnix && sample.ID > best.ID) {
			best, found = sample, true
		}
	}
	return best, found, nil
}

func (s *MemoryStore) Range(_ context.Context, ticker string, fromTs, toTs *int64) ([]Sample, error) {
	return s.ordered(ticker, fromTs, toTs), nil
}

// Len returns the number of stored samples across all tickers.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// ordered copies the matching samples sorted by (ts_unix, id).
func (s *MemoryStore) ordered(ticker string, fromTs, toTs *int64) []Sample {
	s.mu.RLock()
	out := make([]Sample, 0, len(s.samples))
	for _, sample := range s.samples {
		if sample.Ticker == ticker && InRange(sample.TsUnix, fromTs, toTs) {
			out = append(out, sample)
		}
	}
	s.mu.RUnlock()
	// samples are kept in id order, so a stable sort on ts preserves the id tie-break
	sort.SliceStable(out, func(i, j int) bool { return out[i].TsUnix < out[j].TsUnix })
	return out
}
