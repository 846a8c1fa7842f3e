// Package query serves read access to stored samples with ticker
// normalisation and error classification.
package query

import (
	"context"
	"fmt"

	"pricefeed-api/pkg/prices"
	"pricefeed-api/pkg/ticker"
)

// Reader is the read half of prices.Store.
type Reader interface {
	ListByTicker(ctx context.Context, ticker string, limit, offset int) ([]prices.Sample, error)
	Latest(ctx context.Context, ticker string) (prices.Sample, bool, error)
	Range(ctx context.Context, ticker string, fromTs, toTs *int64) ([]prices.Sample, error)
}

// Service answers latest, list and range queries.
type Service struct {
	store Reader
}

// NewService returns a Service reading from store.
func NewService(store Reader) *Service {
	return &Service{store: store}
}

// GetAll returns up to limit samples for raw after skipping offset, oldest first.
func (s *Service) GetAll(ctx context.Context, raw string, limit, offset int) ([]prices.Sample, error) {
	t, err := resolve(raw)
	if err != nil {
		return nil, err
	}
	if err := prices.CheckPage(limit, offset); err != nil {
		return nil, err
	}
	rows, err := s.store.ListByTicker(ctx, t, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query.GetAll %s: %w", t, err)
	}
	return nonNil(rows), nil
}

// GetLatest returns the most recent sample for raw or prices.ErrNotFound.
func (s *Service) GetLatest(ctx context.Context, raw string) (prices.Sample, error) {
	t, err := resolve(raw)
	if err != nil {
		return prices.Sample{}, err
	}
	sample, ok, err := s.store.Latest(ctx, t)
	if err != nil {
		return prices.Sample{}, fmt.Errorf("query.GetLatest %s: %w", t, err)
	}
	if !ok {
		return prices.Sample{}, fmt.Errorf("%w: %s", prices.ErrNotFound, t)
	}
	return sample, nil
}

// GetRange returns samples with from <= ts_unix <= to, oldest first. Nil
// bounds are open; an inverted range yields an empty result.
func (s *Service) GetRange(ctx context.Context, raw string, fromTs, toTs *int64) ([]prices.Sample, error) {
	t, err := resolve(raw)
	if err != nil {
		return nil, err
	}
	if fromTs != nil && toTs != nil && *fromTs > *toTs {
		return []prices.Sample{}, nil
	}
	rows, err := s.store.Range(ctx, t, fromTs, toTs)
	if err != nil {
		return nil, fmt.Errorf("query.GetRange %s: %w", t, err)
	}
	return nonNil(rows), nil
}

func resolve(raw string) (string, error) {
	t, ok := ticker.Resolve(raw)
	if !ok {
		return "", prices.InvalidTicker(raw)
	}
	return t, nil
}

func nonNil(rows []prices.Sample) []prices.Sample {
	if rows == nil {
		return []prices.Sample{}
	}
	return rows
}
